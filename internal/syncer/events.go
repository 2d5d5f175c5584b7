package syncer

import "fmt"

// Event is emitted by the worker for conditions the user has to act on.
type Event interface {
	isEvent()
}

// BadFolder is emitted when the measurement directory does not exist on
// the server. The target has already been cleared.
type BadFolder struct {
	Directory string
	Err       error
}

func (BadFolder) isEvent() {}

func (e BadFolder) String() string {
	return fmt.Sprintf("folder %q does not exist on server", e.Directory)
}

// Outcome summarizes one sync cycle.
type Outcome int

const (
	// OutcomeIdle means no target was set and nothing was done.
	OutcomeIdle Outcome = iota
	// OutcomeConnectFailed means the session could not be established.
	OutcomeConnectFailed
	// OutcomeBadFolder means the target directory was rejected.
	OutcomeBadFolder
	// OutcomeTransferFailed means the session broke while fetching.
	OutcomeTransferFailed
	// OutcomeSynced means both files were refreshed.
	OutcomeSynced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeConnectFailed:
		return "connect failed"
	case OutcomeBadFolder:
		return "bad folder"
	case OutcomeTransferFailed:
		return "transfer failed"
	case OutcomeSynced:
		return "synced"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}
