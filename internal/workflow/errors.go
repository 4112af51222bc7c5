package workflow

import (
	"errors"
	"fmt"
)

// ErrStepLimit is the sentinel matched by errors.Is on step-ceiling aborts.
var ErrStepLimit = errors.New("step limit exceeded")

// StepLimitError signals resource exhaustion: the traversal ran more
// steps than allowed without reaching End.
type StepLimitError struct {
	Limit  int
	NodeID string
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("workflow: step limit %d exceeded at node %q", e.Limit, e.NodeID)
}

func (e *StepLimitError) Unwrap() error {
	return ErrStepLimit
}

// NodeError wraps a handler failure with the node that raised it. The
// traversal aborts, but the last committed state remains valid.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("workflow: node %q: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
