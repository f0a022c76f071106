package queue

import "context"

// KpiCard identifies one of the clickable aggregate cards.
type KpiCard int

const (
	CardPlannedToday KpiCard = iota
	CardPending
	CardInProgress
	CardCompleted
)

func (c KpiCard) String() string {
	switch c {
	case CardPlannedToday:
		return "planned_today"
	case CardPending:
		return "pending"
	case CardInProgress:
		return "in_progress"
	}
	return "completed"
}

// RefreshKpis fetches aggregate counts scoped by the active filters and
// populates the technician selector on first call. KPIs are best-effort and
// secondary to the row table: on failure the previous snapshot stays
// displayed and no error is surfaced.
func (s *Service) RefreshKpis(ctx context.Context) {
	client := s.opts.Client
	if client == nil {
		return
	}
	s.populateTechnicians(ctx, client)

	s.mu.Lock()
	filters := s.filters
	s.mu.Unlock()

	snapshot, err := client.FetchKpis(ctx, filters)
	if err != nil {
		s.record(ctx, "queue.kpi.error", map[string]any{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.view.Kpis = snapshot
	s.view.HasKpis = true
	s.mu.Unlock()
	_ = s.opts.RefreshHook.QueueUpdated(ctx, QueueEvent{Reason: "kpi"})
	s.record(ctx, "queue.kpi.loaded", map[string]any{"pending": snapshot.Pending})
}

// populateTechnicians fills the selector exactly once. An unrecognized
// response shape degrades to an empty selector; a transport error leaves the
// selector unpopulated so a later refresh can retry.
func (s *Service) populateTechnicians(ctx context.Context, client TechnicianLister) {
	s.mu.Lock()
	if s.techLoaded {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	technicians, err := client.FetchTechnicians(ctx)
	if err != nil {
		s.record(ctx, "queue.technicians.error", map[string]any{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.view.Technicians = technicians
	s.techLoaded = true
	s.mu.Unlock()
}

// ApplyKpiCard maps a card click onto its canonical filter mutation, resets
// the row view to page 1, and triggers both a KPI refresh and a row refetch.
func (s *Service) ApplyKpiCard(ctx context.Context, card KpiCard) error {
	s.mu.Lock()
	switch card {
	case CardPending:
		s.filters.Status = statusFilterPending
	case CardInProgress:
		s.filters.Status = statusFilterWorking
	case CardCompleted:
		// The server models completed activations as status "active".
		s.filters.Status = statusFilterActive
	case CardPlannedToday:
		s.filters.DateRange = plannedTodayRange
	}
	s.view.Filters = s.filters
	s.mu.Unlock()

	s.record(ctx, "queue.kpi.card", map[string]any{"card": card.String()})
	s.RefreshKpis(ctx)
	return s.fetchPage(ctx, 1, true)
}
