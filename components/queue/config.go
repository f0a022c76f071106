package queue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config carries everything the hosting page supplies: endpoint templates
// (with an {id} placeholder segment), the default page size, and label
// strings. Zero values fall back to DefaultConfig.
type Config struct {
	PendingURL           string `json:"pending_url" yaml:"pending_url"`
	KpiURL               string `json:"kpi_url" yaml:"kpi_url"`
	TechnicianURL        string `json:"technician_url" yaml:"technician_url"`
	ConfirmRequestURL    string `json:"confirm_request_url" yaml:"confirm_request_url"`
	CancelRequestURL     string `json:"cancel_request_url" yaml:"cancel_request_url"`
	ConfirmActivationURL string `json:"confirm_activation_url" yaml:"confirm_activation_url"`
	CancelActivationURL  string `json:"cancel_activation_url" yaml:"cancel_activation_url"`
	DetailURL            string `json:"detail_url" yaml:"detail_url"`
	PageSize             int    `json:"page_size" yaml:"page_size"`
	Labels               Labels `json:"labels" yaml:"labels"`
}

// Labels are the user-facing strings rendered by the component.
type Labels struct {
	NoPending   string `json:"no_pending" yaml:"no_pending"`
	Loading     string `json:"loading" yaml:"loading"`
	LoadError   string `json:"load_error" yaml:"load_error"`
	DetailError string `json:"detail_error" yaml:"detail_error"`
}

// Normalize fills every unset field from the documented defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	c.PendingURL = pick(c.PendingURL, def.PendingURL)
	c.KpiURL = pick(c.KpiURL, def.KpiURL)
	c.TechnicianURL = pick(c.TechnicianURL, def.TechnicianURL)
	c.ConfirmRequestURL = pick(c.ConfirmRequestURL, def.ConfirmRequestURL)
	c.CancelRequestURL = pick(c.CancelRequestURL, def.CancelRequestURL)
	c.ConfirmActivationURL = pick(c.ConfirmActivationURL, def.ConfirmActivationURL)
	c.CancelActivationURL = pick(c.CancelActivationURL, def.CancelActivationURL)
	c.DetailURL = pick(c.DetailURL, def.DetailURL)
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	c.Labels.NoPending = pick(c.Labels.NoPending, def.Labels.NoPending)
	c.Labels.Loading = pick(c.Labels.Loading, def.Labels.Loading)
	c.Labels.LoadError = pick(c.Labels.LoadError, def.Labels.LoadError)
	c.Labels.DetailError = pick(c.Labels.DetailError, def.Labels.DetailError)
	return c
}

// MutationURL resolves the endpoint template for a mutation target.
func (c Config) MutationURL(target MutationTarget) string {
	var tpl string
	switch {
	case target.Kind == KindRequest && target.Action == ActionConfirm:
		tpl = c.ConfirmRequestURL
	case target.Kind == KindRequest && target.Action == ActionCancel:
		tpl = c.CancelRequestURL
	case target.Action == ActionConfirm:
		tpl = c.ConfirmActivationURL
	default:
		tpl = c.CancelActivationURL
	}
	return ExpandTemplate(tpl, target.ID)
}

// ExpandTemplate substitutes the {id} placeholder segment.
func ExpandTemplate(tpl, id string) string {
	return strings.ReplaceAll(tpl, idPlaceholder, id)
}

// ConfigFromAttributes builds a Config from hosting-page data attributes.
// Absent or malformed attributes fall back to the documented defaults.
func ConfigFromAttributes(attrs map[string]string) Config {
	get := func(key string) string { return strings.TrimSpace(attrs[key]) }
	cfg := Config{
		PendingURL:           get("pending-url"),
		KpiURL:               get("kpi-url"),
		TechnicianURL:        get("technician-url"),
		ConfirmRequestURL:    get("confirm-request-url"),
		CancelRequestURL:     get("cancel-request-url"),
		ConfirmActivationURL: get("confirm-activation-url"),
		CancelActivationURL:  get("cancel-activation-url"),
		DetailURL:            get("detail-url"),
		Labels: Labels{
			NoPending:   get("label-no-pending"),
			Loading:     get("label-loading"),
			LoadError:   get("label-load-error"),
			DetailError: get("label-detail-error"),
		},
	}
	if raw := get("page-size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	return cfg.Normalize()
}

// LoadConfigFile reads a YAML config manifest, validates its structure, and
// applies defaults for anything it omits.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("queue: read config %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("queue: parse config %s: %w", path, err)
	}
	if err := validateConfigDocument(doc); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("queue: decode config %s: %w", path, err)
	}
	return cfg.Normalize(), nil
}

func configSchema() map[string]any {
	urlProp := map[string]any{"type": "string", "minLength": 1}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pending_url":            urlProp,
			"kpi_url":                urlProp,
			"technician_url":         urlProp,
			"confirm_request_url":    urlProp,
			"cancel_request_url":     urlProp,
			"confirm_activation_url": urlProp,
			"cancel_activation_url":  urlProp,
			"detail_url":             urlProp,
			"page_size":              map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
			"labels": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"no_pending":   map[string]any{"type": "string"},
					"loading":      map[string]any{"type": "string"},
					"load_error":   map[string]any{"type": "string"},
					"detail_error": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}
}

func validateConfigDocument(doc map[string]any) error {
	raw, err := json.Marshal(configSchema())
	if err != nil {
		return fmt.Errorf("queue: marshal config schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("queue-config.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("queue: load config schema: %w", err)
	}
	schema, err := compiler.Compile("queue-config.json")
	if err != nil {
		return fmt.Errorf("queue: compile config schema: %w", err)
	}
	// yaml.v3 decodes into map[string]any with JSON-compatible scalars,
	// which is what the validator expects.
	normalized, err := normalizeYAMLValue(doc)
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("queue: config failed validation: %w", err)
	}
	return nil
}

func normalizeYAMLValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("queue: normalize config document: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("queue: normalize config document: %w", err)
	}
	return out, nil
}
