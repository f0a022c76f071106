package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Client bundles the back-office endpoints the queue component consumes.
// Implementations ensure thread safety; pkg/activations provides an HTTP one.
type Client interface {
	PageFetcher
	KpiFetcher
	TechnicianLister
	ActionClient
	DetailFetcher
}

// PageFetcher loads one filtered page of pending activations.
type PageFetcher interface {
	FetchPage(ctx context.Context, query PageQuery) (PageResult, error)
}

// KpiFetcher loads aggregate counts scoped by the same filters as the table.
type KpiFetcher interface {
	FetchKpis(ctx context.Context, filters FilterState) (KpiSnapshot, error)
}

// TechnicianLister loads the technician selector entries.
type TechnicianLister interface {
	FetchTechnicians(ctx context.Context) ([]Technician, error)
}

// ActionClient executes confirm/cancel transitions against the server.
type ActionClient interface {
	Mutate(ctx context.Context, target MutationTarget) (MutationResult, error)
}

// DetailFetcher loads a single activation record by identifier.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (ActivationDetail, error)
}

// RowKind discriminates the two entity types sharing the queue.
type RowKind int

const (
	// KindRequest is an ad-hoc activation request awaiting confirmation.
	KindRequest RowKind = iota
	// KindSubscription is a recurring subscription surfaced in the same queue.
	KindSubscription
)

func (k RowKind) String() string {
	if k == KindSubscription {
		return "subscription"
	}
	return "request"
}

// Status is the lifecycle state derived from the server's free-form string.
type Status int

const (
	// StatusUnknown covers server strings outside the known vocabulary.
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusCancelled
)

// ParseStatus maps a server status string onto the closed enumeration.
// Comparison is case-insensitive and tolerant of surrounding whitespace.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "cancelled", "canceled":
		return StatusCancelled
	}
	return StatusUnknown
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Action is a lifecycle transition a technician can trigger on a row.
type Action int

const (
	ActionConfirm Action = iota
	ActionCancel
)

func (a Action) String() string {
	if a == ActionCancel {
		return "cancel"
	}
	return "confirm"
}

// Coordinates is an optional lat/lng pair attached to a row.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// ActivationRow is the normalized row-view model. It is reconstructed on
// every fetch and never persisted client-side.
type ActivationRow struct {
	Kind      RowKind
	ID        string // canonical: request ids always carry the req- prefix
	OrderRef  string
	UserName  string
	UserEmail string
	PlanName  string
	KitID     string
	Status    Status
	RawStatus string
	Coords    *Coordinates
	PlusCode  string
}

// BareID strips the request namespace prefix for mutation URL construction.
func (r ActivationRow) BareID() string {
	return strings.TrimPrefix(r.ID, requestIDPrefix)
}

// Allows reports whether the transition is available from the row's current
// status. Cancelled rows have no available transitions in this view.
func (r ActivationRow) Allows(action Action) bool {
	switch r.Status {
	case StatusPending:
		return true
	case StatusConfirmed:
		return action == ActionCancel
	}
	return false
}

// PageQuery is the request side of a row fetch.
type PageQuery struct {
	Page     int
	PageSize int
	Filters  FilterState
}

// PageResult carries one fetched page.
type PageResult struct {
	Rows []ActivationRow
	Meta PageMeta
}

// PageMeta is the authoritative pagination metadata from the server. The
// component's current-page value is a cache of the last confirmed Meta.Page,
// never advanced speculatively.
type PageMeta struct {
	Page       int
	TotalPages int
	TotalItems int
}

// FilterState is the ephemeral filter set. The same value must scope both the
// row fetch and the KPI fetch so the two views describe the same slice.
// Values are the server's wire vocabulary (note: the "completed" KPI card maps
// to status "active").
type FilterState struct {
	Status       string
	DateRange    string
	TechnicianID string
}

// IsZero reports whether no filter field is set.
func (f FilterState) IsZero() bool {
	return f.Status == "" && f.DateRange == "" && f.TechnicianID == ""
}

// KpiSnapshot is a point-in-time aggregate. It is always re-derived by a
// fresh fetch, never reconciled incrementally from row mutations.
type KpiSnapshot struct {
	PlannedToday int
	Pending      int
	InProgress   int
	Completed    int
}

// Technician is one entry of the technician selector.
type Technician struct {
	ID   string
	Name string
}

// MutationTarget selects one of the four mutation endpoint templates.
type MutationTarget struct {
	Kind   RowKind
	Action Action
	ID     string // de-prefixed identifier substituted into the template
}

// MutationResult carries the server's reported outcome.
type MutationResult struct {
	Message string
}

// ActivationDetail is the full single-record payload shown in the overlay.
// Every field independently defaults to a placeholder when absent.
type ActivationDetail struct {
	OrderRef   string
	UserName   string
	UserEmail  string
	UserPhone  string
	PlanName   string
	KitID      string
	Status     string
	Technician string
	Address    string
	CreatedAt  string
}

// FlexID accepts both string and numeric JSON identifiers; the server emits
// either inconsistently.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
