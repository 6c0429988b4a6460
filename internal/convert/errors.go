package convert

import (
	"errors"
	"fmt"
)

// StepError reports the step that stopped a run. Either Err is set (the
// payload could not be built or the call could not be made) or Code holds the
// toolkit's nonzero status.
type StepError struct {
	Step State
	Op   string
	Code int
	Err  error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: rknn.%s: %v", e.Step, e.Op, e.Err)
	}
	return fmt.Sprintf("rknn.%s failed with code %d", e.Op, e.Code)
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the step a run failed in, or StateIdle when err did not
// come from a run step.
func FailedStep(err error) State {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return StateIdle
}
