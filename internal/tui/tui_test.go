package tui

import (
	"context"
	"testing"
	"time"

	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/keypad"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp runs queued UI updates inline.
func newTestApp(ev keypad.Evaluator) *App {
	a := New(ev)
	a.queue = func(f func()) { f() }
	return a
}

func waitIdle(t *testing.T, a *App) {
	t.Helper()
	require.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return !a.busy
	}, time.Second, 5*time.Millisecond)
}

func TestPressUpdatesDisplay(t *testing.T) {
	a := newTestApp(nil)

	for _, k := range []string{"1", "2", expression.Add, "8"} {
		a.Press(k)
	}

	assert.Equal(t, "12+8", a.State().Expression)
	assert.Equal(t, "12+8", a.display.GetText(false))
}

func TestEqualsEvaluatesInBackground(t *testing.T) {
	release := make(chan struct{})
	ev := keypad.EvaluatorFunc(func(_ context.Context, expr string) string {
		<-release
		return "20.0"
	})
	a := newTestApp(ev)
	a.Press("1")
	a.Press(keypad.KeyEquals)

	assert.Equal(t, evaluatingText, a.display.GetText(false))

	a.Press("5")
	a.Press(keypad.KeyClear)
	close(release)
	waitIdle(t, a)

	assert.Equal(t, keypad.State{Expression: "20.0", LastResult: "20.0", ResetPending: true}, a.State())
	assert.Equal(t, "20.0", a.display.GetText(false))
}

func TestUnknownKeyIgnored(t *testing.T) {
	a := newTestApp(nil)
	a.Press("7")
	a.Press("%")

	assert.Equal(t, "7", a.State().Expression)
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), "7", true},
		{tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone), keypad.KeyDecimal, true},
		{tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), expression.Add, true},
		{tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone), expression.Subtract, true},
		{tcell.NewEventKey(tcell.KeyRune, '*', tcell.ModNone), expression.Multiply, true},
		{tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), expression.Divide, true},
		{tcell.NewEventKey(tcell.KeyRune, '=', tcell.ModNone), keypad.KeyEquals, true},
		{tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), keypad.KeyClear, true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), keypad.KeyClear, true},
		{tcell.NewEventKey(tcell.KeyRune, '%', tcell.ModNone), "", false},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "", false},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "", false},
	}

	for _, tc := range tests {
		got, ok := keyFor(tc.ev)
		assert.Equal(t, tc.ok, ok, tc.ev.Name())
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.ev.Name())
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	a := New(nil)
	a.app.SetScreen(screen)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
