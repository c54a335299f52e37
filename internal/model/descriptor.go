package model

// RequestDescriptor is the structured form of a captured HTTP request,
// source-of-truth for replaying an upstream data fetch.
//
// Body is either a decoded JSON value (map[string]any / []any) or the raw
// string when the captured data was not valid JSON. Headers keep the captured
// key casing; duplicate header flags are last-write-wins.
type RequestDescriptor struct {
	Name    string            `json:"name,omitempty"`
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`

	// Curl is the display command rebuilt from the stored fields, attached
	// when a descriptor is read back for the admin UI.
	Curl string `json:"curl,omitempty"`
}

// HasStructuredBody reports whether the body is a JSON object that accepts
// per-fetch field overrides.
func (d *RequestDescriptor) HasStructuredBody() bool {
	_, ok := d.Body.(map[string]any)
	return ok
}
