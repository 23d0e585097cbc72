package prefix

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Writer interleaves line oriented output from several workers onto one
// stream, each line tagged with the worker it came from.
type Writer struct {
	lock     *sync.Mutex
	max      int
	prefixes map[string]string
	writer   io.Writer
}

func NewWriter(w io.Writer, prefixes map[string]string) Writer {
	max := 0

	for k := range prefixes {
		if l := len(k); l > max {
			max = l
		}
	}

	return Writer{lock: &sync.Mutex{}, max: max, prefixes: prefixes, writer: w}
}

// NewRankWriter prefixes output with "rank N"; the root is highlighted.
func NewRankWriter(w io.Writer, workers int) Writer {
	prefixes := map[string]string{}

	for rank := 0; rank < workers; rank++ {
		tag := "id"
		if rank == 0 {
			tag = "info"
		}
		prefixes[Rank(rank)] = tag
	}

	return NewWriter(w, prefixes)
}

func Rank(rank int) string {
	return fmt.Sprintf("rank %d", rank)
}

func (w Writer) Writef(prefix string, format string, args ...interface{}) {
	w.lock.Lock()
	defer w.lock.Unlock()

	io.WriteString(w.writer, w.line(prefix, fmt.Sprintf(format, args...)))
}

// Writer returns an io.Writer that prefixes every complete line written to
// it. A trailing partial line is held until its newline arrives.
func (w Writer) Writer(prefix string) io.Writer {
	return &lineWriter{parent: w, prefix: prefix}
}

func (w Writer) line(prefix, text string) string {
	ot := ""
	ct := ""

	if t := w.prefixes[prefix]; t != "" {
		ot = fmt.Sprintf("<%s>", t)
		ct = fmt.Sprintf("</%s>", t)
	}

	return fmt.Sprintf(fmt.Sprintf("%s%%-%ds%s | %%s", ot, w.max, ct), prefix, text)
}

type lineWriter struct {
	buf    bytes.Buffer
	lock   sync.Mutex
	parent Writer
	prefix string
}

func (lw *lineWriter) Write(data []byte) (int, error) {
	lw.lock.Lock()
	defer lw.lock.Unlock()

	lw.buf.Write(data)

	for {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			break
		}

		line := string(lw.buf.Next(i + 1))
		lw.parent.Writef(lw.prefix, "%s", line)
	}

	return len(data), nil
}
