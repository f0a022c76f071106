package queue

import "context"

// Dispatch executes a confirm/cancel transition for a row. The row's controls
// are mutually exclusive with themselves: a second dispatch for the same row
// while one is in flight is refused. The in-flight mark is released
// unconditionally once the call settles.
//
// On reported success the entire current page is refetched rather than
// patching the single row, so status badges, affordances, and KPI-derived
// counts stay consistent. No optimistic local update is performed.
func (s *Service) Dispatch(ctx context.Context, action Action, row ActivationRow) (string, error) {
	client := s.opts.Client
	if client == nil {
		return "", errMissingClient
	}
	if !row.Allows(action) {
		return "", errActionNotAllowed
	}

	s.mu.Lock()
	if _, busy := s.inflight[row.ID]; busy {
		s.mu.Unlock()
		return "", errActionInFlight
	}
	s.inflight[row.ID] = struct{}{}
	s.setRowBusyLocked(row.ID, true)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, row.ID)
		s.setRowBusyLocked(row.ID, false)
		s.mu.Unlock()
	}()

	target := MutationTarget{Kind: row.Kind, Action: action, ID: row.BareID()}
	result, err := client.Mutate(ctx, target)
	if err != nil {
		s.SetStatus(err.Error())
		s.record(ctx, "queue.action.error", map[string]any{
			"action": action.String(),
			"row_id": row.ID,
			"error":  err.Error(),
		})
		return "", err
	}
	if result.Message != "" {
		s.SetStatus(result.Message)
	}
	s.record(ctx, "queue.action."+action.String(), map[string]any{"row_id": row.ID})
	_ = s.opts.RefreshHook.QueueUpdated(ctx, QueueEvent{Reason: action.String(), RowID: row.ID})

	// Resynchronize the visible page; a fetch failure surfaces through the
	// view state, the mutation itself already succeeded.
	_ = s.forceFetchPage(ctx)
	return result.Message, nil
}

// RowBusy reports whether a mutation for the row is in flight.
func (s *Service) RowBusy(rowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[rowID]
	return busy
}
