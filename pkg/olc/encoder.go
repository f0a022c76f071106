// Package olc plugs Open Location Code ("plus code") encoding into the queue
// component's location capability.
package olc

import (
	"fmt"

	olc "github.com/google/open-location-code/go"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

// Encoder produces plus codes from coordinate pairs.
type Encoder struct {
	// CodeLength controls code precision; zero selects the library default.
	CodeLength int
}

var _ queue.LocationEncoder = Encoder{}

// Encode implements queue.LocationEncoder.
func (e Encoder) Encode(lat, lng float64) (string, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", fmt.Errorf("olc: coordinates out of range: %v, %v", lat, lng)
	}
	return olc.Encode(lat, lng, e.CodeLength), nil
}

// Register adds a default-precision encoder to the package-level registry
// consumed by queue services.
func Register() {
	queue.RegisterLocationEncoder(Encoder{})
}
