package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	errMissingClient    = errors.New("queue: client not configured")
	errFetchInFlight    = errors.New("queue: page fetch already in flight")
	errActionInFlight   = errors.New("queue: row action already in flight")
	errActionNotAllowed = errors.New("queue: action not available for row status")
)

// Options configures the queue Service. Every collaborator is provided via
// interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	Client      Client
	Config      Config
	Filters     FilterState
	Telemetry   Telemetry
	RefreshHook RefreshHook
	Encoders    *EncoderRegistry
	// EncoderWait bounds the one-time wait for a lazily registered location
	// encoder before the first fetch.
	EncoderWait time.Duration
	// ResizeDelay is the debounce quiet period for pager re-renders on
	// viewport compactness changes.
	ResizeDelay time.Duration
}

// Service owns the dashboard view state: the row table, pager, KPI snapshot,
// technician selector, shared status line, and details overlay. All network
// completions write through a generation check so only the most recently
// issued fetch may publish rows, regardless of completion order.
type Service struct {
	opts Options
	cfg  Config

	gen atomic.Uint64

	mu         sync.Mutex
	view       ViewState
	filters    FilterState
	page       int
	fetching   bool
	techLoaded bool
	inflight   map[string]struct{}
	overlay    *DetailView

	encoderWait sync.Once
	repager     *Debouncer
}

// RowView is one rendered table row: the normalized record plus its derived
// location display and available affordances.
type RowView struct {
	ActivationRow
	Location   LocationDisplay
	CanConfirm bool
	CanCancel  bool
	// Busy marks the row's controls disabled while its mutation is in flight.
	Busy bool
}

// ViewState is a copyable snapshot of everything the dashboard renders.
type ViewState struct {
	Rows        []RowView
	Meta        PageMeta
	Pager       PagerView
	Loading     bool
	ErrorText   string
	EmptyText   string
	Kpis        KpiSnapshot
	HasKpis     bool
	Technicians []Technician
	Filters     FilterState
	Compact     bool
	StatusLine  string
	Detail      *DetailView
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Encoders == nil {
		opts.Encoders = defaultEncoders
	}
	if opts.EncoderWait == 0 {
		opts.EncoderWait = defaultEncoderWait
	}
	if opts.ResizeDelay == 0 {
		opts.ResizeDelay = defaultResizeDelay
	}
	cfg := opts.Config.Normalize()
	s := &Service{
		opts:     opts,
		cfg:      cfg,
		filters:  opts.Filters,
		page:     1,
		inflight: make(map[string]struct{}),
		repager:  NewDebouncer(opts.ResizeDelay),
	}
	s.view.Filters = opts.Filters
	s.view.Pager = BuildPager(PageMeta{Page: 1, TotalPages: 1}, false)
	s.view.EmptyText = cfg.Labels.NoPending
	return s
}

// Config returns the normalized configuration the service runs with.
func (s *Service) Config() Config { return s.cfg }

// View returns a snapshot of the current view state.
func (s *Service) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view
	view.Rows = append([]RowView(nil), s.view.Rows...)
	view.Technicians = append([]Technician(nil), s.view.Technicians...)
	view.Pager.Items = append([]PagerItem(nil), s.view.Pager.Items...)
	if s.overlay != nil {
		overlay := *s.overlay
		overlay.Fields = append([]DetailField(nil), s.overlay.Fields...)
		view.Detail = &overlay
	}
	return view
}

// RefreshBusy reports whether a page fetch is in flight; refresh affordances
// are disabled while it is.
func (s *Service) RefreshBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching
}

// FetchPage loads the requested page with the active filters and publishes
// rows, pagination, and the empty/error placeholders. It refuses to overlap
// itself; mutations trigger their resynchronization fetch through
// forceFetchPage instead.
func (s *Service) FetchPage(ctx context.Context, page int) error {
	return s.fetchPage(ctx, page, false)
}

func (s *Service) fetchPage(ctx context.Context, page int, force bool) error {
	client := s.opts.Client
	if client == nil {
		return errMissingClient
	}
	s.awaitEncoder(ctx)

	s.mu.Lock()
	if s.fetching && !force {
		s.mu.Unlock()
		return errFetchInFlight
	}
	if total := s.view.Meta.TotalPages; total > 0 {
		page = ClampPage(page, total)
	} else if page < 1 {
		page = 1
	}
	s.fetching = true
	s.view.Loading = true
	s.view.ErrorText = ""
	filters := s.filters
	pageSize := s.cfg.PageSize
	// Allocate the token before releasing the lock so token order matches
	// issue order; a forced resync issued after us must always outrank us.
	gen := s.gen.Add(1)
	s.mu.Unlock()

	requestID := uuid.NewString()
	s.record(ctx, "queue.page.fetch", map[string]any{
		"request_id": requestID,
		"page":       page,
	})

	result, err := client.FetchPage(ctx, PageQuery{Page: page, PageSize: pageSize, Filters: filters})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		// A newer fetch was issued while this one was in flight; its result
		// owns the view. Leave the loading state for the winner to clear.
		s.record(ctx, "queue.page.stale", map[string]any{"request_id": requestID})
		return nil
	}
	s.fetching = false
	s.view.Loading = false
	if err != nil {
		s.view.Rows = nil
		s.view.EmptyText = ""
		s.view.ErrorText = s.cfg.Labels.LoadError
		s.view.StatusLine = err.Error()
		s.record(ctx, "queue.page.error", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return err
	}

	meta := normalizeMeta(result.Meta, page)
	s.view.Meta = meta
	s.page = meta.Page
	s.view.Rows = s.decorateLocked(result.Rows)
	s.view.Pager = BuildPager(meta, s.view.Compact)
	s.view.EmptyText = ""
	if len(result.Rows) == 0 {
		s.view.EmptyText = s.cfg.Labels.NoPending
	}
	_ = s.opts.RefreshHook.QueueUpdated(ctx, QueueEvent{Reason: "page", Page: meta.Page})
	s.record(ctx, "queue.page.loaded", map[string]any{
		"request_id": requestID,
		"page":       meta.Page,
		"rows":       len(result.Rows),
	})
	return nil
}

// forceFetchPage issues a resynchronization fetch even while another fetch is
// in flight; the generation token guarantees the older result is discarded.
func (s *Service) forceFetchPage(ctx context.Context) error {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	return s.fetchPage(ctx, page, true)
}

// SetFilters replaces the active filter set. The same value scopes both the
// row fetch and the KPI fetch; callers refetch to apply it.
func (s *Service) SetFilters(filters FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.view.Filters = filters
}

// Filters returns the active filter set.
func (s *Service) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetCompact switches the pager rendering mode. The pager re-renders from
// the last-known metadata alone, debounced to collapse resize bursts.
func (s *Service) SetCompact(compact bool) {
	s.mu.Lock()
	if s.view.Compact == compact {
		s.mu.Unlock()
		return
	}
	s.view.Compact = compact
	s.mu.Unlock()
	s.repager.Trigger(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.view.Pager = BuildPager(s.view.Meta, s.view.Compact)
	})
}

// SetStatus replaces the shared status line.
func (s *Service) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.StatusLine = text
}

// StatusLine returns the shared status line text.
func (s *Service) StatusLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.StatusLine
}

func (s *Service) awaitEncoder(ctx context.Context) {
	s.encoderWait.Do(func() {
		s.opts.Encoders.WaitReady(ctx, s.opts.EncoderWait)
	})
}

func (s *Service) decorateLocked(rows []ActivationRow) []RowView {
	views := make([]RowView, len(rows))
	for i, row := range rows {
		_, busy := s.inflight[row.ID]
		views[i] = RowView{
			ActivationRow: row,
			Location:      s.opts.Encoders.LocationFor(row),
			CanConfirm:    row.Allows(ActionConfirm),
			CanCancel:     row.Allows(ActionCancel),
			Busy:          busy,
		}
	}
	return views
}

func (s *Service) setRowBusyLocked(rowID string, busy bool) {
	for i := range s.view.Rows {
		if s.view.Rows[i].ID == rowID {
			s.view.Rows[i].Busy = busy
		}
	}
}

func (s *Service) record(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// normalizeMeta guards against degenerate server metadata; the requested
// page is the fallback when the server omits its own.
func normalizeMeta(meta PageMeta, requested int) PageMeta {
	if meta.TotalPages < 1 {
		meta.TotalPages = 1
	}
	if meta.Page < 1 {
		meta.Page = requested
	}
	meta.Page = ClampPage(meta.Page, meta.TotalPages)
	if meta.TotalItems < 0 {
		meta.TotalItems = 0
	}
	return meta
}
