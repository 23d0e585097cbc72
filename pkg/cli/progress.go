package cli

import (
	"io"
	"sync"
	"time"

	"github.com/convox/treesort/pkg/exchange"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// ProgressMeter counts workers that have reported their partition.
type ProgressMeter struct {
	bar      *pb.ProgressBar
	finished bool
	lock     sync.Mutex
	out      io.Writer
	prefix   string
	total    int
}

func progress(prefix string, out io.Writer) *ProgressMeter {
	return &ProgressMeter{
		out:    out,
		prefix: prefix,
	}
}

func (pm *ProgressMeter) Start(total int) {
	pm.bar = pb.New(total)
	pm.bar.Prefix(pm.prefix)
	pm.bar.SetMaxWidth(70)
	pm.bar.SetRefreshRate(200 * time.Millisecond)
	pm.bar.ShowTimeLeft = false
	pm.bar.Output = pm.out
	pm.bar.Start()

	pm.total = total
}

func (pm *ProgressMeter) Observe(e exchange.Event) {
	if e.State != exchange.StateReported {
		return
	}

	if pm.bar.Increment() >= pm.total {
		pm.Finish()
	}
}

func (pm *ProgressMeter) Finish() {
	pm.lock.Lock()
	defer pm.lock.Unlock()

	if pm.finished {
		return
	}

	pm.bar.Finish()

	pm.finished = true
}
