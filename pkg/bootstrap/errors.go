package bootstrap

import "fmt"

// EmptySequenceError indicates a sequence with no steps.
type EmptySequenceError string

// Error returns the error message for an EmptySequenceError.
func (e EmptySequenceError) Error() string {
	return fmt.Sprintf("empty bootstrap sequence: %q", string(e))
}

// DuplicateStepError indicates two steps registered under the same name.
type DuplicateStepError string

// Error returns the error message for a DuplicateStepError.
func (d DuplicateStepError) Error() string {
	return fmt.Sprintf("duplicate step: %q", string(d))
}

// NilFuncError indicates a step registered without a function to run.
type NilFuncError string

// Error returns the error message for a NilFuncError.
func (n NilFuncError) Error() string {
	return fmt.Sprintf("nil Func provided: %q", string(n))
}

// StepError reports the failure of one step, with its position in the
// sequence. Steps after the failed one have not been run.
type StepError struct {
	Step  string
	Index int // zero-based position in the sequence
	Total int
	Err   error
}

// Error returns the error message for a StepError.
func (s *StepError) Error() string {
	return fmt.Sprintf("step %d/%d (%s): %v", s.Index+1, s.Total, s.Step, s.Err)
}

// Unwrap returns the underlying step failure.
func (s *StepError) Unwrap() error {
	return s.Err
}

// Check that errors satisfy the error interface.
var _ error = EmptySequenceError("")
var _ error = DuplicateStepError("")
var _ error = NilFuncError("")
var _ error = &StepError{}
