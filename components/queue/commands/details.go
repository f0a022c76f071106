package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// OpenDetailsInput identifies the record the overlay should show. The id is
// used as supplied, including any req- prefix.
type OpenDetailsInput struct {
	ID string `json:"id"`
}

type detailOpener interface {
	OpenDetails(ctx context.Context, id string) error
	CloseDetails()
}

// OpenDetailsCommand wraps Service.OpenDetails.
type OpenDetailsCommand struct {
	service   detailOpener
	telemetry Telemetry
}

// NewOpenDetailsCommand builds a command instance.
func NewOpenDetailsCommand(service detailOpener, telemetry Telemetry) *OpenDetailsCommand {
	return &OpenDetailsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenDetailsInput] = (*OpenDetailsCommand)(nil)

// Execute opens the overlay for the record. A fetch failure is rendered
// inline in the overlay and still reported to the caller.
func (c *OpenDetailsCommand) Execute(ctx context.Context, msg OpenDetailsInput) error {
	if c.service == nil {
		return errors.New("details command requires service")
	}
	if msg.ID == "" {
		return errors.New("details command requires an id")
	}
	err := c.service.OpenDetails(ctx, msg.ID)
	c.telemetry.Record(ctx, "queue.command.details", map[string]any{"id": msg.ID})
	return err
}

// CloseDetailsInput dismisses the overlay (close control or backdrop click).
type CloseDetailsInput struct{}

// CloseDetailsCommand wraps Service.CloseDetails.
type CloseDetailsCommand struct {
	service detailOpener
}

// NewCloseDetailsCommand builds a command instance.
func NewCloseDetailsCommand(service detailOpener) *CloseDetailsCommand {
	return &CloseDetailsCommand{service: service}
}

var _ gocommand.Commander[CloseDetailsInput] = (*CloseDetailsCommand)(nil)

// Execute hides the overlay.
func (c *CloseDetailsCommand) Execute(ctx context.Context, _ CloseDetailsInput) error {
	if c.service == nil {
		return errors.New("details command requires service")
	}
	c.service.CloseDetails()
	return nil
}
