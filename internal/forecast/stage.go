package forecast

import "fmt"

// Stage is a step of a simulation run. Runs only move forward; a failure in
// any stage aborts the run.
type Stage int

const (
	StageIdle Stage = iota
	StageFetching
	StageCalibrating
	StagePathGenerating
	StageSimulating
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFetching:
		return "fetching"
	case StageCalibrating:
		return "calibrating"
	case StagePathGenerating:
		return "path_generating"
	case StageSimulating:
		return "simulating"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError records which stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
