package queue

import (
	"encoding/json"
	"math"
	"testing"
)

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

func TestNormalizeRecordCanonicalizesRequestID(t *testing.T) {
	cases := []struct {
		name string
		rec  RawRecord
		want string
	}{
		{"bare numeric request", RawRecord{Type: "request", ID: "41"}, "req-41"},
		{"prefixed request", RawRecord{Type: "request", ID: "req-41"}, "req-41"},
		{"non-numeric request", RawRecord{Type: "request", ID: "abc"}, "abc"},
		{"numeric subscription", RawRecord{Type: "subscription", ID: "41"}, "41"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeRecord(tc.rec).ID; got != tc.want {
				t.Fatalf("expected id %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeRecordKindAndStatus(t *testing.T) {
	row := NormalizeRecord(RawRecord{Type: "Subscription", ID: "9", Status: " Confirmed "})
	if row.Kind != KindSubscription {
		t.Fatalf("expected subscription kind, got %v", row.Kind)
	}
	if row.Status != StatusConfirmed {
		t.Fatalf("expected confirmed status, got %v", row.Status)
	}
	if row.RawStatus != " Confirmed " {
		t.Fatalf("raw status must be preserved verbatim, got %q", row.RawStatus)
	}
	if got := NormalizeRecord(RawRecord{Type: "request", ID: "1", Status: "canceled"}).Status; got != StatusCancelled {
		t.Fatalf("single-l spelling must parse, got %v", got)
	}
	if got := NormalizeRecord(RawRecord{Type: "request", ID: "1", Status: "installing"}).Status; got != StatusUnknown {
		t.Fatalf("unknown vocabulary must map to unknown, got %v", got)
	}
}

func TestNormalizeRecordNullables(t *testing.T) {
	row := NormalizeRecord(RawRecord{
		Type:     "request",
		ID:       "5",
		OrderRef: strptr("  ORD-5  "),
	})
	if row.OrderRef != "ORD-5" {
		t.Fatalf("expected trimmed order ref, got %q", row.OrderRef)
	}
	if row.UserName != "" || row.PlanName != "" || row.KitID != "" {
		t.Fatalf("absent nullables must normalize to empty: %#v", row)
	}
	if row.Coords != nil {
		t.Fatal("coords must stay nil without both components")
	}
}

func TestNormalizeRecordCoordinates(t *testing.T) {
	row := NormalizeRecord(RawRecord{
		Type: "request", ID: "5",
		Latitude: f64ptr(-23.55), Longitude: f64ptr(-46.63),
	})
	if row.Coords == nil || row.Coords.Latitude != -23.55 {
		t.Fatalf("expected coordinates kept: %#v", row.Coords)
	}

	half := NormalizeRecord(RawRecord{Type: "request", ID: "5", Latitude: f64ptr(-23.55)})
	if half.Coords != nil {
		t.Fatal("latitude alone is not a coordinate pair")
	}

	bad := NormalizeRecord(RawRecord{
		Type: "request", ID: "5",
		Latitude: f64ptr(math.NaN()), Longitude: f64ptr(-46.63),
	})
	if bad.Coords != nil {
		t.Fatal("non-finite coordinates must be dropped")
	}
}

func TestFlexIDAcceptsStringAndNumber(t *testing.T) {
	var rec RawRecord
	if err := json.Unmarshal([]byte(`{"type":"request","id":41}`), &rec); err != nil {
		t.Fatalf("numeric id: %v", err)
	}
	if rec.ID != "41" {
		t.Fatalf("expected \"41\", got %q", rec.ID)
	}
	if err := json.Unmarshal([]byte(`{"type":"request","id":"req-41"}`), &rec); err != nil {
		t.Fatalf("string id: %v", err)
	}
	if rec.ID != "req-41" {
		t.Fatalf("expected \"req-41\", got %q", rec.ID)
	}
}

func TestNormalizeRecordsPreservesOrder(t *testing.T) {
	rows := NormalizeRecords([]RawRecord{
		{Type: "request", ID: "2"},
		{Type: "request", ID: "1"},
	})
	if len(rows) != 2 || rows[0].ID != "req-2" || rows[1].ID != "req-1" {
		t.Fatalf("order must be preserved: %#v", rows)
	}
}
