package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
)

// FailureKind classifies why an analysis call produced no usable text.
type FailureKind string

// Failure kinds
const (
	// FailureNotConfigured means credentials are missing; no call was made.
	FailureNotConfigured FailureKind = "not_configured"
	// FailureTransport covers network errors, timeouts and cancellations.
	FailureTransport FailureKind = "transport"
	// FailureProvider is an error-shaped response carrying code/message/status.
	FailureProvider FailureKind = "provider_error"
	// FailureBlocked means the prompt or response was blocked by safety filters.
	FailureBlocked FailureKind = "blocked"
	// FailureMissingText means the response had no candidate text.
	FailureMissingText FailureKind = "missing_text"
)

// Failure is the typed error returned by every Client.Complete failure.
type Failure struct {
	Kind     FailureKind
	Provider Provider
	Code     int
	Status   string
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s analysis failed (%s)", f.Provider, f.Kind)
	if f.Code != 0 {
		msg += fmt.Sprintf(" code=%d", f.Code)
	}
	if f.Status != "" {
		msg += " status=" + f.Status
	}
	if f.Message != "" {
		msg += ": " + f.Message
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// notConfigured builds the failure returned before any network call.
func notConfigured(provider Provider) *Failure {
	return &Failure{
		Kind:     FailureNotConfigured,
		Provider: provider,
		Message:  "provider credentials are not configured",
	}
}

// classifyError maps an SDK error to a Failure. Provider-specific block
// errors are handled by the provider clients before this is reached.
func classifyError(provider Provider, err error) *Failure {
	if f, ok := AsFailure(err); ok {
		return f
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &Failure{
			Kind:     FailureProvider,
			Provider: provider,
			Code:     gerr.Code,
			Status:   http.StatusText(gerr.Code),
			Message:  gerr.Message,
			Err:      err,
		}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		st := apiErr.GRPCStatus()
		f := &Failure{
			Kind:     FailureProvider,
			Provider: provider,
			Code:     apiErr.HTTPCode(),
			Message:  st.Message(),
			Err:      err,
		}
		if f.Code > 0 {
			f.Status = http.StatusText(f.Code)
		} else {
			f.Code = int(st.Code())
			f.Status = st.Code().String()
		}
		if f.Message == "" {
			f.Message = apiErr.Error()
		}
		return f
	}

	return &Failure{
		Kind:     FailureTransport,
		Provider: provider,
		Message:  err.Error(),
		Err:      err,
	}
}
