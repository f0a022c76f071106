package queue

import (
	"math"
	"strings"
)

const requestIDPrefix = "req-"

// RawRecord is the wire shape of one pending-activation entry as returned by
// the back office. Nullable strings stay pointers so absent and empty can be
// told apart.
type RawRecord struct {
	Type      string   `json:"type"`
	ID        FlexID   `json:"id"`
	OrderRef  *string  `json:"order_ref"`
	UserName  *string  `json:"user_name"`
	UserEmail *string  `json:"user_email"`
	PlanName  *string  `json:"plan_name"`
	KitID     *string  `json:"kit_id"`
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PlusCode  *string  `json:"plus_code"`
}

// NormalizeRecord maps a server record into the row-view model. The server
// sometimes omits the req- prefix on request-typed rows; a bare numeric id is
// treated as equivalent to the prefixed form and canonicalized here so
// downstream matching never has to care.
func NormalizeRecord(rec RawRecord) ActivationRow {
	row := ActivationRow{
		Kind:      parseKind(rec.Type),
		OrderRef:  deref(rec.OrderRef),
		UserName:  deref(rec.UserName),
		UserEmail: deref(rec.UserEmail),
		PlanName:  deref(rec.PlanName),
		KitID:     deref(rec.KitID),
		Status:    ParseStatus(rec.Status),
		RawStatus: rec.Status,
	}
	row.ID = canonicalID(row.Kind, strings.TrimSpace(string(rec.ID)))
	if rec.Latitude != nil && rec.Longitude != nil &&
		isFinite(*rec.Latitude) && isFinite(*rec.Longitude) {
		row.Coords = &Coordinates{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}
	if rec.PlusCode != nil {
		row.PlusCode = strings.TrimSpace(*rec.PlusCode)
	}
	return row
}

// NormalizeRecords maps a batch preserving order.
func NormalizeRecords(recs []RawRecord) []ActivationRow {
	rows := make([]ActivationRow, len(recs))
	for i, rec := range recs {
		rows[i] = NormalizeRecord(rec)
	}
	return rows
}

func parseKind(raw string) RowKind {
	if strings.EqualFold(strings.TrimSpace(raw), "subscription") {
		return KindSubscription
	}
	return KindRequest
}

// canonicalID applies the request namespace prefix to bare numeric request
// ids. Compatibility shim for an upstream inconsistency, not a feature.
func canonicalID(kind RowKind, id string) string {
	if kind != KindRequest {
		return id
	}
	if isNumericID(id) {
		return requestIDPrefix + id
	}
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
