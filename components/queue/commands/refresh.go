package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

// RefreshQueueInput requests one row page with the active filters.
type RefreshQueueInput struct {
	Page int `json:"page"`
}

type pageFetcher interface {
	FetchPage(ctx context.Context, page int) error
}

// RefreshQueueCommand wraps Service.FetchPage.
type RefreshQueueCommand struct {
	service   pageFetcher
	telemetry Telemetry
}

// NewRefreshQueueCommand builds a command instance.
func NewRefreshQueueCommand(service pageFetcher, telemetry Telemetry) *RefreshQueueCommand {
	return &RefreshQueueCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshQueueInput] = (*RefreshQueueCommand)(nil)

// Execute loads the requested page.
func (c *RefreshQueueCommand) Execute(ctx context.Context, msg RefreshQueueInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	page := msg.Page
	if page < 1 {
		page = 1
	}
	if err := c.service.FetchPage(ctx, page); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "queue.command.refresh", map[string]any{"page": page})
	return nil
}

// RefreshKpisInput requests a KPI snapshot refresh.
type RefreshKpisInput struct{}

type kpiRefresher interface {
	RefreshKpis(ctx context.Context)
}

// RefreshKpisCommand wraps Service.RefreshKpis. KPI refreshes are
// best-effort, so Execute only fails when the service is missing.
type RefreshKpisCommand struct {
	service   kpiRefresher
	telemetry Telemetry
}

// NewRefreshKpisCommand builds a command instance.
func NewRefreshKpisCommand(service kpiRefresher, telemetry Telemetry) *RefreshKpisCommand {
	return &RefreshKpisCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshKpisInput] = (*RefreshKpisCommand)(nil)

// Execute refreshes the snapshot.
func (c *RefreshKpisCommand) Execute(ctx context.Context, _ RefreshKpisInput) error {
	if c.service == nil {
		return errors.New("kpi command requires service")
	}
	c.service.RefreshKpis(ctx)
	c.telemetry.Record(ctx, "queue.command.kpis", nil)
	return nil
}

// ApplyKpiCardInput maps a card click onto its canonical filter mutation.
type ApplyKpiCardInput struct {
	Card queue.KpiCard `json:"card"`
}

type cardApplier interface {
	ApplyKpiCard(ctx context.Context, card queue.KpiCard) error
}

// ApplyKpiCardCommand wraps Service.ApplyKpiCard.
type ApplyKpiCardCommand struct {
	service   cardApplier
	telemetry Telemetry
}

// NewApplyKpiCardCommand builds a command instance.
func NewApplyKpiCardCommand(service cardApplier, telemetry Telemetry) *ApplyKpiCardCommand {
	return &ApplyKpiCardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyKpiCardInput] = (*ApplyKpiCardCommand)(nil)

// Execute applies the card filter, resets to page 1, and refetches.
func (c *ApplyKpiCardCommand) Execute(ctx context.Context, msg ApplyKpiCardInput) error {
	if c.service == nil {
		return errors.New("card command requires service")
	}
	if err := c.service.ApplyKpiCard(ctx, msg.Card); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "queue.command.card", map[string]any{"card": msg.Card.String()})
	return nil
}
