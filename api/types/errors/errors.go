package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorResponse is the envelope the platform wraps failed API calls in.
type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage explains why the platform rejected a request.
//
// Reason says what went wrong. Advice, when present, tells the user
// what to do about it (fix the token, shrink the batch, ...). See,
// when present, points at the relevant page of the platform docs.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Reason *string `json:"reason"`
		Advice string  `json:"advice"`
		See    string  `json:"see"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Reason == nil {
		return fmt.Errorf(`required field missing: "reason"`)
	}

	*em = ErrorMessage{Reason: *raw.Reason, Advice: raw.Advice, See: raw.See}
	return nil
}

// String renders the message for the command line, one aspect per line.
func (e ErrorMessage) String() string {
	lines := []string{e.Reason}
	if e.Advice != "" {
		lines = append(lines, e.Advice)
	}
	if e.See != "" {
		lines = append(lines, "see also: "+e.See)
	}
	if e.Cause != nil {
		lines = append(lines, "caused by: "+e.Cause.Error())
	}
	return strings.Join(lines, "\n")
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}
