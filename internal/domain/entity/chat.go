package entity

import "encoding/json"

// ChatAnswer is the answer produced by the natural-language query service.
// Raw holds the upstream body exactly as received and is what gets relayed;
// SQL and Rows are filled in when the body has the usual shape. Rows are kept
// undecoded because the service decides their layout.
type ChatAnswer struct {
	SQL  string            `json:"sql"`
	Rows []json.RawMessage `json:"rows"`
	Raw  json.RawMessage   `json:"-"`
}
