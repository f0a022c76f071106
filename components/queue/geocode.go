package queue

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// LocationEncoder converts a coordinate pair into a compact shareable code.
// The capability is optional: the component degrades gracefully when no
// encoder is registered or an encoder fails.
type LocationEncoder interface {
	Encode(lat, lng float64) (string, error)
}

// EncoderFunc adapts a function to the LocationEncoder interface.
type EncoderFunc func(lat, lng float64) (string, error)

// Encode implements LocationEncoder.
func (f EncoderFunc) Encode(lat, lng float64) (string, error) { return f(lat, lng) }

// EncoderRegistry is the single registration point for location encoders.
// Encoders are probed in registration order; the first successful result
// wins. Registration may happen after the component starts (the provider may
// load lazily), so readiness can be awaited with a bound.
type EncoderRegistry struct {
	mu       sync.Mutex
	encoders []LocationEncoder
	ready    chan struct{}
}

// NewEncoderRegistry builds an empty registry.
func NewEncoderRegistry() *EncoderRegistry {
	return &EncoderRegistry{ready: make(chan struct{})}
}

// Register appends an encoder to the probe order. The first registration
// marks the registry ready.
func (r *EncoderRegistry) Register(enc LocationEncoder) {
	if enc == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders = append(r.encoders, enc)
	select {
	case <-r.ready:
	default:
		close(r.ready)
	}
}

// WaitReady blocks until an encoder is registered, the timeout elapses, or
// ctx is done. It never returns an error: a slow or failing provider load
// must not block the first data fetch.
func (r *EncoderRegistry) WaitReady(ctx context.Context, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-r.ready:
	case <-t.C:
	case <-ctx.Done():
	}
}

// encode probes registered encoders in order. Errors and panics in an
// individual encoder are swallowed; the capability is best-effort.
func (r *EncoderRegistry) encode(lat, lng float64) (code string, ok bool) {
	r.mu.Lock()
	encoders := make([]LocationEncoder, len(r.encoders))
	copy(encoders, r.encoders)
	r.mu.Unlock()
	for _, enc := range encoders {
		if c, err := tryEncode(enc, lat, lng); err == nil && c != "" {
			return c, true
		}
	}
	return "", false
}

func tryEncode(enc LocationEncoder, lat, lng float64) (code string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("queue: location encoder panicked: %v", rec)
		}
	}()
	return enc.Encode(lat, lng)
}

var defaultEncoders = NewEncoderRegistry()

// RegisterLocationEncoder adds an encoder to the package-level registry used
// by services that don't supply their own.
func RegisterLocationEncoder(enc LocationEncoder) {
	defaultEncoders.Register(enc)
}

// LocationDisplayKind tags how a row location is rendered.
type LocationDisplayKind int

const (
	// LocationNone renders the plain placeholder.
	LocationNone LocationDisplayKind = iota
	// LocationCode renders a short code as a map-search link.
	LocationCode
	// LocationCoordinates renders the raw "lat, lng" pair as a map-search link.
	LocationCoordinates
)

// LocationDisplay is the derived display value for a row's location.
type LocationDisplay struct {
	Kind   LocationDisplayKind
	Text   string
	MapURL string
}

const mapSearchURL = "https://www.google.com/maps/search/?api=1&query="

// LocationFor derives the display value for a row:
// a trimmed pre-computed plus code verbatim, else an encoded short code when
// the capability is available, else the raw coordinate pair, else the
// placeholder. Encoding failures degrade silently to the coordinate form.
func (r *EncoderRegistry) LocationFor(row ActivationRow) LocationDisplay {
	if code := strings.TrimSpace(row.PlusCode); code != "" {
		return codeDisplay(code)
	}
	if row.Coords == nil {
		return LocationDisplay{Kind: LocationNone, Text: placeholderDash}
	}
	if code, ok := r.encode(row.Coords.Latitude, row.Coords.Longitude); ok {
		return codeDisplay(code)
	}
	text := fmt.Sprintf("%.6f, %.6f", row.Coords.Latitude, row.Coords.Longitude)
	return LocationDisplay{
		Kind:   LocationCoordinates,
		Text:   text,
		MapURL: mapSearchURL + url.QueryEscape(fmt.Sprintf("%v,%v", row.Coords.Latitude, row.Coords.Longitude)),
	}
}

func codeDisplay(code string) LocationDisplay {
	return LocationDisplay{
		Kind:   LocationCode,
		Text:   code,
		MapURL: mapSearchURL + url.QueryEscape(code),
	}
}
