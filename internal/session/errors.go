package session

import (
	"fmt"

	"github.com/plateworks/wiretap/internal/capture"
)

// ModeError reports a session operation invoked outside its permitted mode,
// e.g. stopping a capture while the session is inactive.
type ModeError struct {
	Op   string
	Mode Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("cannot %s: session is %s", e.Op, e.Mode)
}

// ValidationError reports a divergence between live traffic and the loaded
// capture during replay: a payload mismatch, an action-kind mismatch, a
// device performing operations out of the recorded interleaving order, or
// traffic past the end of the recording. For payload mismatches, Diff holds
// the rendered alignment of expected against actual.
type ValidationError struct {
	DeviceID string
	Reason   string
	Diff     string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation failed for device %q: %s", e.DeviceID, e.Reason)
	if e.Diff != "" {
		msg += "\n" + e.Diff
	}
	return msg
}

// IncompleteValidationError reports that end-validation found unconsumed
// entries: the run under test issued fewer operations than were recorded.
type IncompleteValidationError struct {
	Remaining int
	Next      *capture.Entry
}

func (e *IncompleteValidationError) Error() string {
	msg := fmt.Sprintf("validation incomplete: %d recorded entries were not consumed", e.Remaining)
	if e.Next != nil {
		msg += fmt.Sprintf("; next expected: %s on device %q", e.Next.Action, e.Next.DeviceID)
	}
	return msg
}
