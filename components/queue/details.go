package queue

import "context"

// DetailField is one labeled line of the details overlay.
type DetailField struct {
	Label string
	Value string
}

// DetailView is the reusable overlay's state. The overlay element is built
// lazily on first open and reused afterwards.
type DetailView struct {
	Open   bool
	ID     string
	Err    string
	Fields []DetailField
}

// OpenDetails fetches the full record for the identifier and shows it in the
// overlay. The identifier is used as supplied, including any req- prefix; the
// detail endpoint disambiguates by that prefix itself. Fetch or parse
// failures render an inline error inside the overlay.
func (s *Service) OpenDetails(ctx context.Context, id string) error {
	client := s.opts.Client
	if client == nil {
		return errMissingClient
	}

	s.mu.Lock()
	if s.overlay == nil {
		s.overlay = &DetailView{}
		s.record(ctx, "queue.overlay.build", nil)
	}
	s.overlay.Open = true
	s.overlay.ID = id
	s.overlay.Err = ""
	s.overlay.Fields = nil
	s.mu.Unlock()

	detail, err := client.FetchDetail(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay.ID != id {
		// The overlay was retargeted while this fetch was in flight; the
		// newer open owns the rendered fields.
		s.record(ctx, "queue.detail.stale", map[string]any{"id": id})
		return nil
	}
	if err != nil {
		s.overlay.Err = s.cfg.Labels.DetailError
		s.record(ctx, "queue.detail.error", map[string]any{"id": id, "error": err.Error()})
		return err
	}
	s.overlay.Fields = detailFields(detail)
	s.record(ctx, "queue.detail.loaded", map[string]any{"id": id})
	return nil
}

// CloseDetails hides the overlay; both the explicit close control and a
// backdrop click route here. The overlay element itself is kept for reuse.
func (s *Service) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay != nil {
		s.overlay.Open = false
	}
}

func detailFields(d ActivationDetail) []DetailField {
	orDash := func(v string) string {
		if v == "" {
			return placeholderDash
		}
		return v
	}
	return []DetailField{
		{Label: "Order", Value: orDash(d.OrderRef)},
		{Label: "Customer", Value: orDash(d.UserName)},
		{Label: "Email", Value: orDash(d.UserEmail)},
		{Label: "Phone", Value: orDash(d.UserPhone)},
		{Label: "Plan", Value: orDash(d.PlanName)},
		{Label: "Kit", Value: orDash(d.KitID)},
		{Label: "Status", Value: orDash(d.Status)},
		{Label: "Technician", Value: orDash(d.Technician)},
		{Label: "Address", Value: orDash(d.Address)},
		{Label: "Created", Value: orDash(d.CreatedAt)},
	}
}
