package queue

import (
	"context"
	"errors"
	"io"
)

// viewResolver is the slice of Service the controller needs.
type viewResolver interface {
	View() ViewState
	Config() Config
}

// ControllerOptions wires the service and renderer into a controller.
type ControllerOptions struct {
	Service  viewResolver
	Renderer Renderer
	// Template is the fragment rendered by RenderTemplate (default "table").
	Template string
}

// Controller turns the service's view state into payloads and HTML for
// transports.
type Controller struct {
	service  viewResolver
	renderer Renderer
	template string
}

// NewController builds a controller with defaults applied.
func NewController(opts ControllerOptions) *Controller {
	tpl := opts.Template
	if tpl == "" {
		tpl = "table"
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: tpl,
	}
}

// ViewPayload returns the current view state for JSON transports.
func (c *Controller) ViewPayload(_ context.Context) (ViewState, error) {
	if c.service == nil {
		return ViewState{}, errors.New("queue: controller requires a service")
	}
	return c.service.View(), nil
}

// RenderTemplate renders the queue fragment into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("queue: controller requires a renderer")
	}
	view, err := c.ViewPayload(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"view":   view,
		"labels": c.service.Config().Labels,
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}

// RenderDetails renders the overlay fragment into out.
func (c *Controller) RenderDetails(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("queue: controller requires a renderer")
	}
	view, err := c.ViewPayload(ctx)
	if err != nil {
		return err
	}
	detail := view.Detail
	if detail == nil {
		detail = &DetailView{}
	}
	_, err = c.renderer.Render("details", map[string]any{"detail": detail}, out)
	return err
}
