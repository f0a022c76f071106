package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-activation-queue/components/queue/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands so embedding
// hosts can drive the queue without linking against the service.
type Handlers struct {
	Confirm gocommand.Commander[commands.ConfirmActivationInput]
	Cancel  gocommand.Commander[commands.CancelActivationInput]
	Refresh gocommand.Commander[commands.RefreshQueueInput]
	Kpis    gocommand.Commander[commands.RefreshKpisInput]
	Card    gocommand.Commander[commands.ApplyKpiCardInput]
	Details gocommand.Commander[commands.OpenDetailsInput]
}

func (h *Handlers) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var payload commands.ConfirmActivationInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Confirm.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var payload commands.CancelActivationInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Cancel.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshQueueInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleKpis(w http.ResponseWriter, r *http.Request) {
	if err := h.Kpis.Execute(r.Context(), commands.RefreshKpisInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleCard(w http.ResponseWriter, r *http.Request) {
	var payload commands.ApplyKpiCardInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Card.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleDetails(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Details.Execute(r.Context(), commands.OpenDetailsInput{ID: id}); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
}
