package id

import "github.com/oklog/ulid/v2"

// New returns a ULID identifying one dispatch run. It is attached to every log
// line of the run so a single invocation can be traced end to end.
func New() string {
	return ulid.Make().String()
}
