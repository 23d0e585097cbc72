package transport

import (
	"context"
	"fmt"
)

// Mesh connects a fixed number of in-process workers. Each rank gets its own
// Endpoint and mailbox; nothing else is shared between them.
type Mesh struct {
	boxes []*mailbox
}

func NewMesh(size int) *Mesh {
	m := &Mesh{boxes: make([]*mailbox, size)}

	for i := range m.boxes {
		m.boxes[i] = newMailbox()
	}

	return m
}

func (m *Mesh) Size() int {
	return len(m.boxes)
}

func (m *Mesh) Endpoint(rank int) *Endpoint {
	if rank < 0 || rank >= len(m.boxes) {
		panic(fmt.Sprintf("no endpoint for rank %d in a mesh of %d", rank, len(m.boxes)))
	}

	return &Endpoint{mesh: m, rank: rank}
}

// Abort fails every mailbox so that all blocked workers return.
func (m *Mesh) Abort(err error) {
	for _, b := range m.boxes {
		b.fail(fmt.Errorf("%w: %v", ErrAborted, err))
	}
}

// Pending reports the number of undelivered messages queued for rank.
func (m *Mesh) Pending(rank int) int {
	return m.boxes[rank].pending()
}

type Endpoint struct {
	mesh *Mesh
	rank int
}

func (e *Endpoint) Rank() int {
	return e.rank
}

func (e *Endpoint) Size() int {
	return e.mesh.Size()
}

func (e *Endpoint) Send(ctx context.Context, dst, tag int, data []int) error {
	if dst < 0 || dst >= e.mesh.Size() {
		return fmt.Errorf("%w: rank %d", ErrUnknownPeer, dst)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	out := make([]int, len(data))
	copy(out, data)

	return e.mesh.boxes[dst].deliver(message{source: e.rank, tag: tag, data: out})
}

func (e *Endpoint) Probe(ctx context.Context, src, tag int) (Status, error) {
	return e.mesh.boxes[e.rank].probe(ctx, src, tag)
}

func (e *Endpoint) Receive(ctx context.Context, src, tag int, buf []int) (Status, error) {
	return e.mesh.boxes[e.rank].receive(ctx, src, tag, buf)
}

func (e *Endpoint) Abort(err error) {
	e.mesh.Abort(err)
}

func (e *Endpoint) Close() error {
	e.mesh.boxes[e.rank].fail(ErrClosed)
	return nil
}
