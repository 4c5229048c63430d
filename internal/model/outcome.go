package model

// DetailOK is the detail string for a reachable link.
const DetailOK = "OK"

// LinkOutcome is the reachability classification of one hyperlink reference.
// Exactly one outcome exists per auditable reference.
type LinkOutcome struct {
	// Reference is the original href value as it appeared in the document,
	// before resolution against the page's base address.
	Reference string `json:"reference"`

	// Reachable is true when the probe completed with a status below 400.
	Reachable bool `json:"reachable"`

	// Detail is "OK" for reachable links, a status-code-derived message for
	// HTTP failures, or a transport-failure description.
	Detail string `json:"detail"`
}
