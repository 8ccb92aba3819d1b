package piece

import "fmt"

// ValidationError reports a malformed piece definition. It is never retried;
// the caller surfaces it to the user and aborts the load.
type ValidationError struct {
	Piece  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Piece == "" {
		return e.Reason
	}
	return fmt.Sprintf("piece %q: %s", e.Piece, e.Reason)
}
