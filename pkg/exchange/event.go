package exchange

import (
	"fmt"
	"time"
)

type State string

const (
	StateAcquired   State = "acquired"
	StateDispatched State = "dispatched"
	StateSorted     State = "sorted"
	StateMerged     State = "merged"
	StateReported   State = "reported"
)

// Event is passed to Worker.Observe on every state change.
type Event struct {
	Rank    int
	State   State
	Count   int
	Elapsed time.Duration
}

func (e Event) String() string {
	return fmt.Sprintf("rank=%d state=%s count=%d", e.Rank, e.State, e.Count)
}
