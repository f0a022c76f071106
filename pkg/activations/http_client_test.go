package activations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

func TestHTTPClientFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tech/pending_activations/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("status") != "pending" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Has("technician_id") {
			t.Fatalf("empty filter must be omitted, got %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"pending_activations": []map[string]any{
				{"type": "request", "id": 41, "order_ref": "ORD-41", "status": "pending"},
				{"type": "subscription", "id": "sub-9", "status": "confirmed"},
			},
			"meta": map[string]any{"page": 2, "total_pages": 5, "total_items": 43},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	result, err := client.FetchPage(context.Background(), queue.PageQuery{
		Page:     2,
		PageSize: 10,
		Filters:  queue.FilterState{Status: "pending"},
	})
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0].ID != "req-41" {
		t.Fatalf("expected prefixed request id, got %s", result.Rows[0].ID)
	}
	if result.Meta.TotalPages != 5 || result.Meta.Page != 2 {
		t.Fatalf("unexpected meta: %#v", result.Meta)
	}
}

func TestHTTPClientFetchPageRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "database offline"})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FetchPage(context.Background(), queue.PageQuery{Page: 1, PageSize: 10}); err == nil {
		t.Fatal("expected error from success:false envelope")
	}
}

func TestHTTPClientFetchKpis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tech/activation_kpis/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("technician_id"); got != "7" {
			t.Fatalf("expected technician filter, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"kpis":    map[string]any{"planned_today": 3, "pending": 12, "in_progress": 4, "completed": 80},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	snapshot, err := client.FetchKpis(context.Background(), queue.FilterState{TechnicianID: "7"})
	if err != nil {
		t.Fatalf("fetch kpis: %v", err)
	}
	if snapshot.Pending != 12 || snapshot.Completed != 80 {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}

func TestHTTPClientFetchTechniciansShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bare list", `[{"id": 1, "full_name": "Dana Silva"}]`, 1},
		{"nested results", `{"results": [{"id_user": "9", "username": "jmoura"}]}`, 1},
		{"unknown shape", `{"count": 2}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			techs, err := client.FetchTechnicians(context.Background())
			if err != nil {
				t.Fatalf("fetch technicians: %v", err)
			}
			if len(techs) != tc.want {
				t.Fatalf("expected %d technicians, got %#v", tc.want, techs)
			}
		})
	}
}

func TestHTTPClientMutateSendsCSRFHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/tech/cancel_activation/15/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-CSRFToken"); got != "tok-123" {
			t.Fatalf("expected csrf header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Activation cancelled"})
	}))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	serverURL, _ := url.Parse(server.URL + "/")
	jar.SetCookies(serverURL, []*http.Cookie{{Name: "csrftoken", Value: "tok-123"}})

	client, err := NewHTTPClient(HTTPConfig{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Jar: jar},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	result, err := client.Mutate(context.Background(), queue.MutationTarget{
		Kind:   queue.KindSubscription,
		Action: queue.ActionCancel,
		ID:     "15",
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if result.Message != "Activation cancelled" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestHTTPClientMutateFailureSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tech/confirm_activation_request/8/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "already confirmed"})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Mutate(context.Background(), queue.MutationTarget{
		Kind:   queue.KindRequest,
		Action: queue.ActionConfirm,
		ID:     "8",
	})
	if err == nil || !strings.Contains(err.Error(), "already confirmed") {
		t.Fatalf("expected server error surfaced, got %v", err)
	}
}

func TestHTTPClientFetchDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tech/activation_detail/req-12/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"activation": map[string]any{
				"order_ref": "ORD-12",
				"user_name": "Ana Costa",
				"status":    "pending",
			},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	detail, err := client.FetchDetail(context.Background(), "req-12")
	if err != nil {
		t.Fatalf("fetch detail: %v", err)
	}
	if detail.OrderRef != "ORD-12" || detail.UserName != "Ana Costa" {
		t.Fatalf("unexpected detail: %#v", detail)
	}
}
