package queue

import (
	"bytes"
	"context"
	"io"
	"testing"
)

type fakeRenderer struct {
	name string
	data any
	out  string
}

func (r *fakeRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.name = name
	r.data = data
	if len(out) > 0 && out[0] != nil {
		if _, err := out[0].Write([]byte(r.out)); err != nil {
			return "", err
		}
	}
	return r.out, nil
}

func TestControllerRenderTemplate(t *testing.T) {
	service := newTestService(&fakeClient{})
	renderer := &fakeRenderer{out: "<table></table>"}
	controller := NewController(ControllerOptions{Service: service, Renderer: renderer})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "<table></table>" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if renderer.name != "table" {
		t.Fatalf("expected default template, got %q", renderer.name)
	}
	payload, ok := renderer.data.(map[string]any)
	if !ok {
		t.Fatalf("expected map payload, got %T", renderer.data)
	}
	if _, ok := payload["view"].(ViewState); !ok {
		t.Fatalf("payload must carry the view state: %#v", payload)
	}
	if _, ok := payload["labels"].(Labels); !ok {
		t.Fatalf("payload must carry the labels: %#v", payload)
	}
}

func TestControllerRenderDetailsWithoutOverlay(t *testing.T) {
	service := newTestService(&fakeClient{})
	renderer := &fakeRenderer{out: "<div></div>"}
	controller := NewController(ControllerOptions{Service: service, Renderer: renderer})

	var buf bytes.Buffer
	if err := controller.RenderDetails(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if renderer.name != "details" {
		t.Fatalf("expected details template, got %q", renderer.name)
	}
}

func TestControllerRequiresCollaborators(t *testing.T) {
	controller := NewController(ControllerOptions{})
	if _, err := controller.ViewPayload(context.Background()); err == nil {
		t.Fatal("expected error without a service")
	}
	controller = NewController(ControllerOptions{Service: newTestService(&fakeClient{})})
	if err := controller.RenderTemplate(context.Background(), io.Discard); err == nil {
		t.Fatal("expected error without a renderer")
	}
}
