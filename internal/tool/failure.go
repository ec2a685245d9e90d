package tool

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed tool call.
type Kind string

const (
	KindMissingArguments Kind = "MissingArguments"
	KindUnknownTool      Kind = "UnknownTool"
	KindValidation       Kind = "ValidationError"
	KindRemoteAPI        Kind = "RemoteAPIError"
	KindTransport        Kind = "TransportError"
	KindHandler          Kind = "HandlerError"
)

// FieldError names one argument that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Failure is the single error representation that leaves the dispatcher.
// Handlers may return one directly to pick the kind reported to the caller.
type Failure struct {
	Kind       Kind         `json:"kind"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"fields,omitempty"`
	Status     int          `json:"status,omitempty"`
	StatusText string       `json:"statusText,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// FieldNames returns the names of the offending fields, if any.
func (f *Failure) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, fe := range f.Fields {
		names = append(names, fe.Field)
	}
	return names
}

// RemoteAPIFailure reports a non-success HTTP status from the remote service.
func RemoteAPIFailure(status int, statusText string) *Failure {
	return &Failure{
		Kind:       KindRemoteAPI,
		Message:    strings.TrimSpace(fmt.Sprintf("remote API error: %d %s", status, statusText)),
		Status:     status,
		StatusText: statusText,
	}
}

// TransportFailure reports a network-level failure reaching the remote service.
func TransportFailure(err error) *Failure {
	return &Failure{Kind: KindTransport, Message: err.Error()}
}

func validationFailure(tool string, problems []FieldError) *Failure {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.Field+": "+p.Reason)
	}
	return &Failure{
		Kind:    KindValidation,
		Message: fmt.Sprintf("invalid arguments for %s: %s", tool, strings.Join(parts, "; ")),
		Fields:  problems,
	}
}

// asFailure converts a handler error into a Failure, keeping the kind of
// errors that already carry one.
func asFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindHandler, Message: err.Error()}
}
