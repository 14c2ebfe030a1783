package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// Step identifies the pipeline step an error originated from.
type Step string

const (
	StepPreprocess        Step = "Preprocess"
	StepUpload            Step = "Uploading"
	StepPersistCollection Step = "PersistingCollection"
	StepPersistDonations  Step = "PersistingDonations"
	StepRender            Step = "Rendering"
	StepNotify            Step = "Notifying"
)

// StepError tags an underlying failure with the pipeline step it aborted.
// Every step error terminates the remainder of its pipeline; no step is
// retried automatically.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err with the step it occurred in.
func NewStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// StepOf returns the step an error failed at, or "" if err carries no step.
func StepOf(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
