package transport

import (
	"context"
	"errors"
)

const (
	// AnySource matches a message from any sender.
	AnySource = -1

	// AnyTag matches a message with any tag.
	AnyTag = -1
)

var (
	ErrAborted     = errors.New("transport aborted")
	ErrClosed      = errors.New("transport closed")
	ErrTruncated   = errors.New("message does not fit the receive buffer")
	ErrUnknownPeer = errors.New("unknown peer")
)

// Transport is a reliable point to point channel between ranked workers.
// Messages between one ordered pair of ranks arrive in the order they were
// sent; nothing is promised across different pairs.
type Transport interface {
	Rank() int
	Size() int

	// Send queues a copy of data for dst. The caller may reuse data as soon as
	// Send returns.
	Send(ctx context.Context, dst, tag int, data []int) error

	// Probe blocks until a matching message is queued and describes it
	// without consuming it.
	Probe(ctx context.Context, src, tag int) (Status, error)

	// Receive blocks until a matching message is queued and copies it into
	// buf. A message longer than buf is left queued and ErrTruncated returned.
	Receive(ctx context.Context, src, tag int, buf []int) (Status, error)

	// Abort wakes every blocked call with ErrAborted.
	Abort(err error)

	Close() error
}

// Status describes a queued or received message.
type Status struct {
	Source int
	Tag    int
	Count  int
}
