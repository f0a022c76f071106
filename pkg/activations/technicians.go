package activations

import (
	"encoding/json"

	queue "github.com/goliatone/go-activation-queue/components/queue"
)

// techRecord tolerates the identifier and display-name variants the endpoint
// has been observed to emit.
type techRecord struct {
	ID       queue.FlexID `json:"id"`
	IDUser   queue.FlexID `json:"id_user"`
	FullName string       `json:"full_name"`
	Name     string       `json:"name"`
	Username string       `json:"username"`
}

func (t techRecord) technician() (queue.Technician, bool) {
	id := string(t.ID)
	if id == "" {
		id = string(t.IDUser)
	}
	name := t.FullName
	if name == "" {
		name = t.Name
	}
	if name == "" {
		name = t.Username
	}
	if id == "" || name == "" {
		return queue.Technician{}, false
	}
	return queue.Technician{ID: id, Name: name}, true
}

// decodeTechnicians accepts a bare list or a list nested under a handful of
// conventional field names. Anything else yields an empty slice so the
// selector degrades instead of failing the whole view.
func decodeTechnicians(raw json.RawMessage) []queue.Technician {
	var records []techRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil
		}
		for _, key := range []string{"technicians", "results", "data", "items"} {
			inner, ok := wrapped[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(inner, &records); err == nil {
				break
			}
		}
	}
	out := make([]queue.Technician, 0, len(records))
	for _, rec := range records {
		if tech, ok := rec.technician(); ok {
			out = append(out, tech)
		}
	}
	return out
}
