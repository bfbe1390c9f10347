package tutor

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ServiceError is a failure reported by the remote agent service. Every
// SDK-level HTTP error is mapped to this type so the rest of the program
// classifies errors without knowing the SDK.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("service error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service error: %s", e.Message)
}

// RunFailedError is raised when a run reaches the failed terminal state.
// It carries the service's failure detail so the user sees why the turn
// did not produce a reply.
type RunFailedError struct {
	Code   string
	Detail string
}

func (e *RunFailedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("run failed (%s): %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("run failed: %s", e.Detail)
}

// IsNotFound reports whether err means the resource is already gone.
// Some deployments answer deletes for missing agents with a generic
// status and a "no assistant" message rather than a clean 404.
func IsNotFound(err error) bool {
	var se *ServiceError
	if !errors.As(err, &se) {
		return false
	}
	if se.Status == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToLower(se.Message), "no assistant")
}

// IsServiceError reports whether err originated from the remote service.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
