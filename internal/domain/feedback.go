package domain

import "encoding/json"

// Item is a single row of script filter feedback.
type Item struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Valid        bool   `json:"valid"`
	Arg          string `json:"arg,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
}

// Response mirrors the host's script filter JSON envelope. Items is never nil
// once encoded, and Rerun is only set on pending responses.
type Response struct {
	Items []Item   `json:"items"`
	Rerun *float64 `json:"rerun,omitempty"`
}

// InfoResponse builds a single non-actionable row.
func InfoResponse(title, subtitle string) Response {
	return Response{Items: []Item{{Title: title, Subtitle: subtitle, Valid: false}}}
}

// Encode renders the response as compact JSON. Non-actionable rows never carry
// an arg, regardless of what the caller put there.
func (r Response) Encode() []byte {
	items := make([]Item, 0, len(r.Items))
	for _, item := range r.Items {
		if !item.Valid {
			item.Arg = ""
		}
		items = append(items, item)
	}
	data, err := json.Marshal(Response{Items: items, Rerun: r.Rerun})
	if err != nil {
		// Item only holds strings and bools; this is unreachable in practice.
		return []byte(`{"items":[]}`)
	}
	return data
}
