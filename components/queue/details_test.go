package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestOpenDetailsMapsFieldsWithPlaceholders(t *testing.T) {
	client := &fakeClient{detailFn: func(id string) (ActivationDetail, error) {
		if id != "req-12" {
			t.Fatalf("identifier must pass through unchanged, got %q", id)
		}
		return ActivationDetail{OrderRef: "ORD-12", UserName: "Ana Costa"}, nil
	}}
	service := newTestService(client)

	if err := service.OpenDetails(context.Background(), "req-12"); err != nil {
		t.Fatalf("open details: %v", err)
	}
	detail := service.View().Detail
	if detail == nil || !detail.Open {
		t.Fatal("overlay must be open")
	}
	if detail.ID != "req-12" {
		t.Fatalf("unexpected overlay id %q", detail.ID)
	}
	if len(detail.Fields) != 10 {
		t.Fatalf("expected 10 labeled fields, got %d", len(detail.Fields))
	}
	if detail.Fields[0].Value != "ORD-12" || detail.Fields[1].Value != "Ana Costa" {
		t.Fatalf("unexpected field values: %#v", detail.Fields[:2])
	}
	// Absent values each render the placeholder independently.
	if detail.Fields[2].Value != placeholderDash {
		t.Fatalf("missing email must render the placeholder, got %q", detail.Fields[2].Value)
	}
}

func TestOpenDetailsErrorRendersInline(t *testing.T) {
	client := &fakeClient{detailFn: func(string) (ActivationDetail, error) {
		return ActivationDetail{}, errors.New("not found")
	}}
	service := newTestService(client)

	if err := service.OpenDetails(context.Background(), "req-404"); err == nil {
		t.Fatal("expected detail fetch error")
	}
	detail := service.View().Detail
	if detail == nil || !detail.Open {
		t.Fatal("overlay must stay open to show the inline error")
	}
	if detail.Err != defaultLabels.DetailError {
		t.Fatalf("expected inline error label, got %q", detail.Err)
	}
	if len(detail.Fields) != 0 {
		t.Fatalf("error state must not render stale fields: %#v", detail.Fields)
	}
}

func TestOpenDetailsStaleResultDiscarded(t *testing.T) {
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	client := &fakeClient{detailFn: func(id string) (ActivationDetail, error) {
		if id == "req-1" {
			close(firstEntered)
			<-releaseFirst
			return ActivationDetail{OrderRef: "ORD-1"}, nil
		}
		return ActivationDetail{OrderRef: "ORD-2"}, nil
	}}
	service := newTestService(client)

	firstDone := make(chan error, 1)
	go func() { firstDone <- service.OpenDetails(context.Background(), "req-1") }()
	<-firstEntered

	if err := service.OpenDetails(context.Background(), "req-2"); err != nil {
		t.Fatalf("second open: %v", err)
	}
	close(releaseFirst)
	if err := <-firstDone; err != nil {
		t.Fatalf("stale open must settle without error, got %v", err)
	}

	detail := service.View().Detail
	if detail == nil || detail.ID != "req-2" {
		t.Fatalf("overlay must target the newer record: %#v", detail)
	}
	if len(detail.Fields) == 0 || detail.Fields[0].Value != "ORD-2" {
		t.Fatalf("stale fields must not overwrite the newer record's: %#v", detail.Fields)
	}
}

func TestDetailsOverlayBuiltOnceAndReused(t *testing.T) {
	telemetry := &recordingTelemetry{}
	client := &fakeClient{}
	service := NewService(Options{
		Client:      client,
		Telemetry:   telemetry,
		Encoders:    NewEncoderRegistry(),
		EncoderWait: time.Millisecond,
	})

	if err := service.OpenDetails(context.Background(), "req-1"); err != nil {
		t.Fatalf("open details: %v", err)
	}
	service.CloseDetails()
	if detail := service.View().Detail; detail == nil || detail.Open {
		t.Fatal("close must hide the overlay but keep the element")
	}
	if err := service.OpenDetails(context.Background(), "req-2"); err != nil {
		t.Fatalf("reopen details: %v", err)
	}
	if got := telemetry.count("queue.overlay.build"); got != 1 {
		t.Fatalf("overlay must be built lazily exactly once, got %d", got)
	}
	if detail := service.View().Detail; detail == nil || !detail.Open || detail.ID != "req-2" {
		t.Fatalf("reopened overlay state wrong: %#v", detail)
	}
}
