package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-activation-queue/components/queue/commands"
)

// Executor exposes command execution to transports without tying them to the
// concrete command types.
type Executor interface {
	Confirm(ctx context.Context, input commands.ConfirmActivationInput) error
	Cancel(ctx context.Context, input commands.CancelActivationInput) error
	Refresh(ctx context.Context, input commands.RefreshQueueInput) error
	Kpis(ctx context.Context) error
	Card(ctx context.Context, input commands.ApplyKpiCardInput) error
	Details(ctx context.Context, input commands.OpenDetailsInput) error
	CloseDetails(ctx context.Context) error
}

// CommandExecutor adapts Commander instances to the Executor interface.
type CommandExecutor struct {
	ConfirmCommander gocommand.Commander[commands.ConfirmActivationInput]
	CancelCommander  gocommand.Commander[commands.CancelActivationInput]
	RefreshCommander gocommand.Commander[commands.RefreshQueueInput]
	KpisCommander    gocommand.Commander[commands.RefreshKpisInput]
	CardCommander    gocommand.Commander[commands.ApplyKpiCardInput]
	DetailsCommander gocommand.Commander[commands.OpenDetailsInput]
	CloseCommander   gocommand.Commander[commands.CloseDetailsInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Confirm(ctx context.Context, input commands.ConfirmActivationInput) error {
	if e.ConfirmCommander == nil {
		return errors.New("httpapi: confirm commander not configured")
	}
	return e.ConfirmCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Cancel(ctx context.Context, input commands.CancelActivationInput) error {
	if e.CancelCommander == nil {
		return errors.New("httpapi: cancel commander not configured")
	}
	return e.CancelCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshQueueInput) error {
	if e.RefreshCommander == nil {
		return errors.New("httpapi: refresh commander not configured")
	}
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Kpis(ctx context.Context) error {
	if e.KpisCommander == nil {
		return errors.New("httpapi: kpis commander not configured")
	}
	return e.KpisCommander.Execute(ctx, commands.RefreshKpisInput{})
}

func (e *CommandExecutor) Card(ctx context.Context, input commands.ApplyKpiCardInput) error {
	if e.CardCommander == nil {
		return errors.New("httpapi: card commander not configured")
	}
	return e.CardCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Details(ctx context.Context, input commands.OpenDetailsInput) error {
	if e.DetailsCommander == nil {
		return errors.New("httpapi: details commander not configured")
	}
	return e.DetailsCommander.Execute(ctx, input)
}

func (e *CommandExecutor) CloseDetails(ctx context.Context) error {
	if e.CloseCommander == nil {
		return errors.New("httpapi: close commander not configured")
	}
	return e.CloseCommander.Execute(ctx, commands.CloseDetailsInput{})
}
