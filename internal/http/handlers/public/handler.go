package public

import "github.com/etiquetas-qr/internal/provider"

// Handler serves the public landing and delivery capture API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
