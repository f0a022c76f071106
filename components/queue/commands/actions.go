package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

// ConfirmActivationInput identifies the row to confirm.
type ConfirmActivationInput struct {
	Row queue.ActivationRow `json:"row"`
}

// CancelActivationInput identifies the row to cancel.
type CancelActivationInput struct {
	Row queue.ActivationRow `json:"row"`
}

// dispatcher is the slice of the queue service action commands need.
type dispatcher interface {
	Dispatch(ctx context.Context, action queue.Action, row queue.ActivationRow) (string, error)
}

// ConfirmActivationCommand wraps Service.Dispatch for the confirm transition
// so transports can invoke it without linking against the service.
type ConfirmActivationCommand struct {
	service   dispatcher
	telemetry Telemetry
}

// NewConfirmActivationCommand builds a command instance.
func NewConfirmActivationCommand(service dispatcher, telemetry Telemetry) *ConfirmActivationCommand {
	return &ConfirmActivationCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfirmActivationInput] = (*ConfirmActivationCommand)(nil)

// Execute confirms the activation and resynchronizes the page.
func (c *ConfirmActivationCommand) Execute(ctx context.Context, msg ConfirmActivationInput) error {
	if c.service == nil {
		return errors.New("confirm command requires service")
	}
	if _, err := c.service.Dispatch(ctx, queue.ActionConfirm, msg.Row); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "queue.command.confirm", map[string]any{"row_id": msg.Row.ID})
	return nil
}

// CancelActivationCommand wraps Service.Dispatch for the cancel transition.
type CancelActivationCommand struct {
	service   dispatcher
	telemetry Telemetry
}

// NewCancelActivationCommand builds a command instance.
func NewCancelActivationCommand(service dispatcher, telemetry Telemetry) *CancelActivationCommand {
	return &CancelActivationCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CancelActivationInput] = (*CancelActivationCommand)(nil)

// Execute cancels the activation and resynchronizes the page.
func (c *CancelActivationCommand) Execute(ctx context.Context, msg CancelActivationInput) error {
	if c.service == nil {
		return errors.New("cancel command requires service")
	}
	if _, err := c.service.Dispatch(ctx, queue.ActionCancel, msg.Row); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "queue.command.cancel", map[string]any{"row_id": msg.Row.ID})
	return nil
}
