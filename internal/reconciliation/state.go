package reconciliation

import "fmt"

// RunState is the phase of a single reconciliation run.
type RunState string

const (
	StateIdle          RunState = "idle"
	StateLoadingLedger RunState = "loading_ledger"
	StateParsingFiles  RunState = "parsing_files"
	StateMatching      RunState = "matching"
	StateReporting     RunState = "reporting"
	StateCommitting    RunState = "committing"
	StateDone          RunState = "done"
	StateErrored       RunState = "errored"
)

// InvalidStateTransitionError reports a transition the run state machine
// does not allow.
type InvalidStateTransitionError struct {
	RunID     string
	FromState RunState
	ToState   RunState
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid run state transition from %s to %s for run %s", e.FromState, e.ToState, e.RunID)
}

// AllowedTransitions defines the valid run state transitions. Committing is
// optional: reporting may go straight to done when the caller did not ask
// for persistence. Errored is terminal and only reachable from loading and
// parsing, matching a failed precondition rather than a mid-run crash.
func AllowedTransitions() map[RunState][]RunState {
	return map[RunState][]RunState{
		StateIdle:          {StateLoadingLedger},
		StateLoadingLedger: {StateParsingFiles, StateErrored},
		StateParsingFiles:  {StateMatching, StateErrored},
		StateMatching:      {StateReporting},
		StateReporting:     {StateCommitting, StateDone},
		StateCommitting:    {StateDone},
		StateDone:          {},
		StateErrored:       {},
	}
}

func isValidTransition(from, to RunState) bool {
	for _, allowed := range AllowedTransitions()[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
