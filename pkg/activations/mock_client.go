package activations

import (
	"context"
	"fmt"
	"sync"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

// MockRow seeds one activation for the mock client. The embedded row carries
// the table fields; the rest feeds the KPI and detail endpoints.
type MockRow struct {
	Row          queue.ActivationRow
	TechnicianID string
	PlannedToday bool
	Detail       queue.ActivationDetail
}

// MockData seeds deterministic queue responses for tests or local demos.
type MockData struct {
	Rows        []MockRow
	Technicians []queue.Technician
	// InProgress is reported verbatim; the mock has no working state of its own.
	InProgress int
}

// MockClient implements queue.Client using in-memory fixtures. Mutations
// transition statuses in place so successive fetches observe them.
type MockClient struct {
	mu   sync.RWMutex
	data MockData
}

var _ queue.Client = (*MockClient)(nil)

// NewMockClient builds a mock queue client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// FetchPage filters and paginates the seeded rows.
func (c *MockClient) FetchPage(_ context.Context, query queue.PageQuery) (queue.PageResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := c.filtered(query.Filters)
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	rows := make([]queue.ActivationRow, 0, end-start)
	for _, seed := range matched[start:end] {
		rows = append(rows, seed.Row)
	}
	return queue.PageResult{
		Rows: rows,
		Meta: queue.PageMeta{Page: page, TotalPages: totalPages, TotalItems: len(matched)},
	}, nil
}

// FetchKpis derives counts from the seeded rows under the same filters the
// table uses, minus the status filter itself.
func (c *MockClient) FetchKpis(_ context.Context, filters queue.FilterState) (queue.KpiSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	scope := filters
	scope.Status = ""
	snapshot := queue.KpiSnapshot{InProgress: c.data.InProgress}
	for _, seed := range c.filtered(scope) {
		if seed.PlannedToday {
			snapshot.PlannedToday++
		}
		switch seed.Row.Status {
		case queue.StatusPending:
			snapshot.Pending++
		case queue.StatusConfirmed:
			snapshot.Completed++
		}
	}
	return snapshot, nil
}

// FetchTechnicians returns the seeded selector entries.
func (c *MockClient) FetchTechnicians(context.Context) ([]queue.Technician, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]queue.Technician(nil), c.data.Technicians...), nil
}

// Mutate transitions the targeted row's status.
func (c *MockClient) Mutate(_ context.Context, target queue.MutationTarget) (queue.MutationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.data.Rows {
		row := &c.data.Rows[i].Row
		if row.Kind != target.Kind || row.BareID() != target.ID {
			continue
		}
		if !row.Allows(target.Action) {
			return queue.MutationResult{}, fmt.Errorf("activations: %s not allowed from %s", target.Action, row.Status)
		}
		switch target.Action {
		case queue.ActionConfirm:
			row.Status = queue.StatusConfirmed
			row.RawStatus = "confirmed"
			return queue.MutationResult{Message: "Activation confirmed"}, nil
		case queue.ActionCancel:
			row.Status = queue.StatusCancelled
			row.RawStatus = "cancelled"
			return queue.MutationResult{Message: "Activation cancelled"}, nil
		}
	}
	return queue.MutationResult{}, fmt.Errorf("activations: no %s with id %s", target.Kind, target.ID)
}

// FetchDetail looks up a seeded detail record by canonical identifier.
func (c *MockClient) FetchDetail(_ context.Context, id string) (queue.ActivationDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, seed := range c.data.Rows {
		if seed.Row.ID == id {
			detail := seed.Detail
			if detail.Status == "" {
				detail.Status = seed.Row.RawStatus
			}
			return detail, nil
		}
	}
	return queue.ActivationDetail{}, fmt.Errorf("activations: no activation with id %s", id)
}

func (c *MockClient) filtered(filters queue.FilterState) []MockRow {
	out := make([]MockRow, 0, len(c.data.Rows))
	for _, seed := range c.data.Rows {
		if filters.Status != "" && seed.Row.RawStatus != filters.Status {
			continue
		}
		if filters.TechnicianID != "" && seed.TechnicianID != filters.TechnicianID {
			continue
		}
		if filters.DateRange == "24h" && !seed.PlannedToday {
			continue
		}
		out = append(out, seed)
	}
	return out
}
