package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculator endpoint onto the given router.
func RegisterRoutes(r chi.Router) {
	r.Post("/calculate", HandleCalculate)
}
