// Package models defines the report document and the records collectors
// place in it. Everything here is serialized to the JSON artifact.
package models

import "encoding/json"

// Unknown is the placeholder for a field no source could provide.
const Unknown = "Unknown"

// NotAvailable is the placeholder for a version-control field whose
// command failed inside an otherwise valid repository.
const NotAvailable = "N/A"

// Section maps fact names to fact values. A value is a record, a slice, a
// scalar, Unknown, nil, or a CollectionFailed marker.
type Section map[string]interface{}

// Report is the top-level document. All three keys are always present;
// a group that was not enabled is serialized as null.
type Report struct {
	System     Section `json:"system"`
	Python     Section `json:"python"`
	JavaScript Section `json:"javascript"`
}

// CollectionFailed replaces a fact whose collector returned an error or
// panicked. Siblings in the same section are unaffected.
type CollectionFailed struct {
	Reason string
}

// MarshalJSON renders the marker as {"error": "<reason>"}.
func (c CollectionFailed) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"error": c.Reason})
}

// Failed builds a CollectionFailed marker.
func Failed(reason string) CollectionFailed {
	return CollectionFailed{Reason: reason}
}

// OrUnknown returns s, or Unknown when s is empty.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
