package reconcile

import (
	"fmt"
	"strings"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
)

// Code classifies why a batch was not applied.
type Code string

const (
	// CodeSchemaInvalid means the payload failed structural validation.
	// The whole batch is rejected; the problems should be fed back to the
	// author on retry.
	CodeSchemaInvalid Code = "SCHEMA_INVALID"
	// CodeValueInvalid means enum values stayed unrecognized after synonym
	// normalization. Rejected wholesale with feedback, like schema errors.
	CodeValueInvalid Code = "VALUE_INVALID"
	// CodeTransportFailed means a correction call failed at the transport
	// level and the batch aborted with the prior graph untouched.
	CodeTransportFailed Code = "TRANSPORT_FAILED"
)

// BatchError reports a rejected or aborted batch. Problems carries the
// human-readable strings meant for the author's next attempt.
type BatchError struct {
	Code     Code
	Problems []string
	Err      error
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "batch %s", strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	if len(e.Problems) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Problems, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether retrying the batch with feedback can help.
// Schema and value rejections always can; transport aborts only when the
// underlying failure was transient.
func (e *BatchError) Recoverable() bool {
	switch e.Code {
	case CodeSchemaInvalid, CodeValueInvalid:
		return true
	case CodeTransportFailed:
		return correction.Retryable(e.Err)
	}
	return false
}
