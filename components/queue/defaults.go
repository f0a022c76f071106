package queue

import "time"

// placeholderDash is rendered wherever an optional display value is absent.
const placeholderDash = "—"

const (
	defaultPageSize     = 10
	defaultEncoderWait  = 2 * time.Second
	defaultResizeDelay  = 150 * time.Millisecond
	idPlaceholder       = "{id}"
	plannedTodayRange   = "24h"
	statusFilterPending = "pending"
	statusFilterActive  = "active"
	statusFilterWorking = "in_progress"
)

var defaultLabels = Labels{
	NoPending:   "No pending activations",
	Loading:     "Loading activations…",
	LoadError:   "Failed to load pending activations",
	DetailError: "Could not load activation details",
}

// DefaultConfig returns the documented defaults used when the hosting page
// omits an attribute. The component must never crash on a missing attribute.
func DefaultConfig() Config {
	return Config{
		PendingURL:           "/tech/pending_activations/",
		KpiURL:               "/tech/activation_kpis/",
		TechnicianURL:        "/tech/get_technician/",
		ConfirmRequestURL:    "/tech/confirm_activation_request/" + idPlaceholder + "/",
		CancelRequestURL:     "/tech/cancel_activation_request/" + idPlaceholder + "/",
		ConfirmActivationURL: "/tech/confirm_activation/" + idPlaceholder + "/",
		CancelActivationURL:  "/tech/cancel_activation/" + idPlaceholder + "/",
		DetailURL:            "/tech/activation_detail/" + idPlaceholder + "/",
		PageSize:             defaultPageSize,
		Labels:               defaultLabels,
	}
}
