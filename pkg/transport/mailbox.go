package transport

import (
	"context"
	"fmt"
	"sync"
)

type message struct {
	source int
	tag    int
	data   []int
}

func (m message) status() Status {
	return Status{Source: m.source, Tag: m.tag, Count: len(m.data)}
}

// mailbox is the receive side shared by every transport. Messages are kept in
// arrival order and matched oldest first, which preserves per sender order.
type mailbox struct {
	err    error
	lock   sync.Mutex
	notify chan struct{}
	queue  []message
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{})}
}

func (m *mailbox) deliver(msg message) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.err != nil {
		return m.err
	}

	m.queue = append(m.queue, msg)
	m.wake()

	return nil
}

// fail stops the mailbox, only the first error is kept
func (m *mailbox) fail(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.err != nil {
		return
	}

	m.err = err
	m.wake()
}

func (m *mailbox) wake() {
	close(m.notify)
	m.notify = make(chan struct{})
}

func (m *mailbox) pending() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.queue)
}

func (m *mailbox) probe(ctx context.Context, src, tag int) (Status, error) {
	msg, err := m.wait(ctx, src, tag, false, nil)
	if err != nil {
		return Status{}, err
	}

	return msg.status(), nil
}

func (m *mailbox) receive(ctx context.Context, src, tag int, buf []int) (Status, error) {
	check := func(msg message) error {
		if len(msg.data) > len(buf) {
			return fmt.Errorf("%w: %d elements from rank %d, buffer holds %d", ErrTruncated, len(msg.data), msg.source, len(buf))
		}
		return nil
	}

	msg, err := m.wait(ctx, src, tag, true, check)
	if err != nil {
		return Status{}, err
	}

	copy(buf, msg.data)

	return msg.status(), nil
}

// wait blocks until a message matches src and tag. When consume is set the
// message is removed, unless check rejects it.
func (m *mailbox) wait(ctx context.Context, src, tag int, consume bool, check func(message) error) (message, error) {
	for {
		m.lock.Lock()

		if i := m.find(src, tag); i >= 0 {
			msg := m.queue[i]

			if check != nil {
				if err := check(msg); err != nil {
					m.lock.Unlock()
					return message{}, err
				}
			}

			if consume {
				m.queue = append(m.queue[:i], m.queue[i+1:]...)
			}

			m.lock.Unlock()
			return msg, nil
		}

		if m.err != nil {
			err := m.err
			m.lock.Unlock()
			return message{}, err
		}

		ch := m.notify

		m.lock.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return message{}, ctx.Err()
		}
	}
}

func (m *mailbox) find(src, tag int) int {
	for i, msg := range m.queue {
		if (src == AnySource || msg.source == src) && (tag == AnyTag || msg.tag == tag) {
			return i
		}
	}

	return -1
}
