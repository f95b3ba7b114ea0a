// Package tui renders the calculator keypad in the terminal.
package tui

import (
	"context"
	"sync"

	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const evaluatingText = "…"

// App is a terminal keypad session.
type App struct {
	app       *tview.Application
	display   *tview.TextView
	root      *tview.Grid
	evaluator keypad.Evaluator

	// queue runs f on the UI goroutine.
	queue func(f func())

	mu    sync.Mutex
	state keypad.State
	busy  bool
	ctx   context.Context
}

// New builds the keypad. ev is called off the UI goroutine for "=".
func New(ev keypad.Evaluator) *App {
	a := &App{
		app:       tview.NewApplication(),
		evaluator: ev,
		ctx:       context.Background(),
	}
	a.queue = func(f func()) { a.app.QueueUpdateDraw(f) }

	a.display = tview.NewTextView().
		SetTextAlign(tview.AlignRight).
		SetDynamicColors(false)
	a.display.SetTitle("Calculator").SetBorder(true)

	a.root = tview.NewGrid().
		SetRows(3, 0, 0, 0, 0, 0).
		SetColumns(0, 0, 0, 0)
	a.root.AddItem(a.display, 0, 0, 1, 4, 0, 0, false)

	for r, row := range keypad.Grid {
		for c, key := range row {
			colSpan := 1
			if len(row) == 1 {
				colSpan = 4
			}
			a.root.AddItem(a.button(key), r+1, c, 1, colSpan, 0, 0, r == 0 && c == 0)
		}
	}

	a.root.SetInputCapture(a.capture)
	return a
}

func (a *App) button(key string) *tview.Button {
	b := tview.NewButton(key).SetSelectedFunc(func() { a.Press(key) })
	if expression.IsOperator(key) || key == keypad.KeyEquals {
		b.SetStyle(tcell.StyleDefault.Background(tcell.ColorDarkOrange))
	}
	return b
}

// State returns the current keypad state.
func (a *App) State() keypad.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Press applies one key. "=" evaluates in the background and further presses
// are ignored until the outcome is shown.
func (a *App) Press(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.busy || !keypad.IsKey(key) {
		return
	}

	if key != keypad.KeyEquals {
		a.state = keypad.Press(a.ctx, a.state, key, a.evaluator)
		a.display.SetText(a.state.Expression)
		return
	}

	a.busy = true
	a.display.SetText(evaluatingText)

	ctx, current := a.ctx, a.state
	go func() {
		next := keypad.Press(ctx, current, key, a.evaluator)
		a.queue(func() {
			a.mu.Lock()
			defer a.mu.Unlock()

			a.state = next
			a.busy = false
			a.display.SetText(next.Expression)
		})
	}()
}

// keyFor maps a keyboard event to a keypad key.
func keyFor(ev *tcell.EventKey) (string, bool) {
	// Enter is left to the focused button.
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyDelete:
		return keypad.KeyClear, true
	case tcell.KeyRune:
	default:
		return "", false
	}

	switch r := ev.Rune(); r {
	case '*', 'x':
		return expression.Multiply, true
	case '/':
		return expression.Divide, true
	case 'c', 'C':
		return keypad.KeyClear, true
	default:
		key := string(r)
		return key, keypad.IsKey(key)
	}
}

func (a *App) capture(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		a.app.Stop()
		return nil
	}
	if key, ok := keyFor(ev); ok {
		a.Press(key)
		return nil
	}
	return ev
}

// Run draws the keypad until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Queued so a cancel that races startup still reaches the loop.
			a.app.QueueUpdate(a.app.Stop)
		case <-done:
		}
	}()

	observability.Logger.Debug("starting terminal keypad")
	if err := a.app.SetRoot(a.root, true).EnableMouse(true).Run(); err != nil {
		observability.Logger.Error("terminal keypad failed", zap.Error(err))
		return err
	}
	return nil
}
