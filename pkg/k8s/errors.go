package k8s

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

var (
	// ErrAlreadyExists indicates a create collided with an existing object.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates the delete or poll target is absent.
	ErrNotFound = errors.New("not found")

	// ErrCreationFailed indicates the API server rejected an object.
	ErrCreationFailed = errors.New("creation failed")

	// ErrTimeout indicates a poll loop exceeded its configured bound.
	ErrTimeout = errors.New("timed out")
)

// CreateOutcome is the normalized result of a create call.
type CreateOutcome int

const (
	OutcomeCreated CreateOutcome = iota
	OutcomeAlreadyExists
	OutcomeFailed
)

func (o CreateOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already-exists"
	default:
		return "failed"
	}
}

// ResourceError carries the identity of the object an operation failed on.
type ResourceError struct {
	Kind      string
	Namespace string
	Name      string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Kind, e.Namespace, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func newResourceError(kind, namespace, name string, kindErr, cause error) *ResourceError {
	return &ResourceError{
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
		Err:       fmt.Errorf("%w: %v", kindErr, cause),
	}
}

// classifyCreate maps a client error from a create call onto an outcome.
func classifyCreate(kind, namespace, name string, err error) (CreateOutcome, error) {
	switch {
	case err == nil:
		return OutcomeCreated, nil
	case apierrors.IsAlreadyExists(err):
		return OutcomeAlreadyExists, newResourceError(kind, namespace, name, ErrAlreadyExists, err)
	default:
		return OutcomeFailed, newResourceError(kind, namespace, name, ErrCreationFailed, err)
	}
}
