package activations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

const (
	defaultCSRFCookie = "csrftoken"
	defaultCSRFHeader = "X-CSRFToken"
)

// HTTPConfig configures the HTTP activations client.
type HTTPConfig struct {
	BaseURL string
	// Endpoints carries the endpoint templates supplied by the hosting page;
	// zero values fall back to the documented defaults.
	Endpoints queue.Config
	// CSRFCookie is the cookie holding the anti-forgery token (csrftoken).
	CSRFCookie string
	// CSRFHeader is the header the token is attached to on mutating calls
	// (X-CSRFToken).
	CSRFHeader string
	HTTPClient *http.Client
}

// HTTPClient talks to the back-office activation endpoints via JSON.
type HTTPClient struct {
	baseURL    string
	endpoints  queue.Config
	csrfCookie string
	csrfHeader string
	client     *http.Client
}

var _ queue.Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the live back-office API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("activations: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.CSRFCookie == "" {
		cfg.CSRFCookie = defaultCSRFCookie
	}
	if cfg.CSRFHeader == "" {
		cfg.CSRFHeader = defaultCSRFHeader
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		endpoints:  cfg.Endpoints.Normalize(),
		csrfCookie: cfg.CSRFCookie,
		csrfHeader: cfg.CSRFHeader,
		client:     httpClient,
	}, nil
}

// FetchPage implements queue.PageFetcher.
func (c *HTTPClient) FetchPage(ctx context.Context, query queue.PageQuery) (queue.PageResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("page_size", strconv.Itoa(query.PageSize))
	addFilters(params, query.Filters)

	var resp pageEnvelope
	if err := c.get(ctx, c.endpoints.PendingURL, params, &resp); err != nil {
		return queue.PageResult{}, err
	}
	if !resp.Success {
		return queue.PageResult{}, remoteFailure("pending activations", resp.Error)
	}
	return queue.PageResult{
		Rows: queue.NormalizeRecords(resp.Pending),
		Meta: queue.PageMeta{
			Page:       resp.Meta.Page,
			TotalPages: resp.Meta.TotalPages,
			TotalItems: resp.Meta.TotalItems,
		},
	}, nil
}

// FetchKpis implements queue.KpiFetcher.
func (c *HTTPClient) FetchKpis(ctx context.Context, filters queue.FilterState) (queue.KpiSnapshot, error) {
	params := url.Values{}
	addFilters(params, filters)

	var resp kpiEnvelope
	if err := c.get(ctx, c.endpoints.KpiURL, params, &resp); err != nil {
		return queue.KpiSnapshot{}, err
	}
	if !resp.Success {
		return queue.KpiSnapshot{}, remoteFailure("kpis", resp.Error)
	}
	return queue.KpiSnapshot{
		PlannedToday: resp.Kpis.PlannedToday,
		Pending:      resp.Kpis.Pending,
		InProgress:   resp.Kpis.InProgress,
		Completed:    resp.Kpis.Completed,
	}, nil
}

// FetchTechnicians implements queue.TechnicianLister. The endpoint is
// shape-tolerant: a bare list, or a list nested under one of several field
// names. An unrecognized shape degrades to an empty selector, not an error.
func (c *HTTPClient) FetchTechnicians(ctx context.Context) ([]queue.Technician, error) {
	var raw json.RawMessage
	if err := c.get(ctx, c.endpoints.TechnicianURL, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTechnicians(raw), nil
}

// Mutate implements queue.ActionClient. The anti-forgery token is read from
// the configured cookie and attached as a custom header.
func (c *HTTPClient) Mutate(ctx context.Context, target queue.MutationTarget) (queue.MutationResult, error) {
	var resp mutationEnvelope
	if err := c.post(ctx, c.endpoints.MutationURL(target), &resp); err != nil {
		return queue.MutationResult{}, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return queue.MutationResult{}, remoteFailure(target.Action.String(), msg)
	}
	return queue.MutationResult{Message: resp.Message}, nil
}

// FetchDetail implements queue.DetailFetcher. The identifier is used as
// supplied, including any req- prefix; the endpoint disambiguates by it.
func (c *HTTPClient) FetchDetail(ctx context.Context, id string) (queue.ActivationDetail, error) {
	var resp detailEnvelope
	if err := c.get(ctx, queue.ExpandTemplate(c.endpoints.DetailURL, url.PathEscape(id)), nil, &resp); err != nil {
		return queue.ActivationDetail{}, err
	}
	if !resp.Success {
		return queue.ActivationDetail{}, remoteFailure("activation detail", resp.Error)
	}
	return queue.ActivationDetail{
		OrderRef:   resp.Activation.OrderRef,
		UserName:   resp.Activation.UserName,
		UserEmail:  resp.Activation.UserEmail,
		UserPhone:  resp.Activation.UserPhone,
		PlanName:   resp.Activation.PlanName,
		KitID:      resp.Activation.KitID,
		Status:     resp.Activation.Status,
		Technician: resp.Activation.Technician,
		Address:    resp.Activation.Address,
		CreatedAt:  resp.Activation.CreatedAt,
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("activations: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, target)
}

func (c *HTTPClient) post(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("activations: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.csrfToken(); token != "" {
		req.Header.Set(c.csrfHeader, token)
	}
	return c.do(req, target)
}

func (c *HTTPClient) do(req *http.Request, target any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("activations: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("activations: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("activations: decode response: %w", err)
	}
	return nil
}

// csrfToken reads the anti-forgery token from the client's cookie jar.
func (c *HTTPClient) csrfToken() string {
	if c.client.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return ""
	}
	for _, cookie := range c.client.Jar.Cookies(u) {
		if cookie.Name == c.csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

func addFilters(params url.Values, filters queue.FilterState) {
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.DateRange != "" {
		params.Set("date_range", filters.DateRange)
	}
	if filters.TechnicianID != "" {
		params.Set("technician_id", filters.TechnicianID)
	}
}

func remoteFailure(what, detail string) error {
	if detail == "" {
		detail = "request failed"
	}
	return fmt.Errorf("activations: %s: %s", what, detail)
}

type pageEnvelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Pending []queue.RawRecord `json:"pending_activations"`
	Meta    struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

type kpiEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kpis    struct {
		PlannedToday int `json:"planned_today"`
		Pending      int `json:"pending"`
		InProgress   int `json:"in_progress"`
		Completed    int `json:"completed"`
	} `json:"kpis"`
}

type mutationEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type detailEnvelope struct {
	Success    bool         `json:"success"`
	Error      string       `json:"error"`
	Activation detailRecord `json:"activation"`
}

type detailRecord struct {
	OrderRef   string `json:"order_ref"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserPhone  string `json:"user_phone"`
	PlanName   string `json:"plan_name"`
	KitID      string `json:"kit_id"`
	Status     string `json:"status"`
	Technician string `json:"technician"`
	Address    string `json:"address"`
	CreatedAt  string `json:"created_at"`
}
