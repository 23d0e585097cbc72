package transport

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/convox/logger"
	"github.com/convox/treesort/pkg/helpers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	headerRank = "Treesort-Rank"
	headerRun  = "Treesort-Run"
)

type SocketOptions struct {
	Rank  int
	Peers []string
	Run   string

	// Retries and Interval bound how long Send waits for a peer that has not
	// started listening yet.
	Retries  int
	Interval time.Duration

	Logger *logger.Logger
}

// Socket is a Transport between worker processes. Every rank listens on its
// own peer address and dials the others on first send, one websocket per
// ordered pair of ranks.
type Socket struct {
	box      *mailbox
	dial     sync.Mutex
	dialer   *websocket.Dialer
	inbound  map[*websocket.Conn]bool
	interval time.Duration
	lock     sync.Mutex
	log      *logger.Logger
	outbound map[int]*peer
	peers    []string
	rank     int
	retries  int
	run      string
	server   *http.Server
	upgrader websocket.Upgrader
}

type peer struct {
	conn *websocket.Conn
	lock sync.Mutex
}

func NewSocket(opts SocketOptions) (*Socket, error) {
	if len(opts.Peers) == 0 {
		return nil, errors.WithStack(fmt.Errorf("%w: no peers", ErrUnknownPeer))
	}

	if opts.Rank < 0 || opts.Rank >= len(opts.Peers) {
		return nil, errors.WithStack(fmt.Errorf("%w: rank %d of %d", ErrUnknownPeer, opts.Rank, len(opts.Peers)))
	}

	s := &Socket{
		box:      newMailbox(),
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		inbound:  map[*websocket.Conn]bool{},
		interval: opts.Interval,
		log:      opts.Logger,
		outbound: map[int]*peer{},
		peers:    opts.Peers,
		rank:     opts.Rank,
		retries:  opts.Retries,
		run:      opts.Run,
	}

	if s.interval == 0 {
		s.interval = 500 * time.Millisecond
	}

	if s.retries == 0 {
		s.retries = 60
	}

	if s.log == nil {
		s.log = logger.NewWriter("ns=transport", ioutil.Discard)
	}

	s.log = s.log.Namespace("rank=%d", s.rank)

	return s, nil
}

func (s *Socket) Rank() int {
	return s.rank
}

func (s *Socket) Size() int {
	return len(s.peers)
}

func (s *Socket) Address() string {
	return s.peers[s.rank]
}

func (s *Socket) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok\n")
	}).Methods("GET")

	r.HandleFunc("/frames", s.frames).Methods("GET")

	return r
}

// Listen serves on this rank's peer address in the background.
func (s *Socket) Listen() error {
	l, err := net.Listen("tcp", s.Address())
	if err != nil {
		return errors.WithStack(err)
	}

	go s.Serve(l)

	return nil
}

func (s *Socket) Serve(l net.Listener) error {
	s.lock.Lock()
	s.server = &http.Server{Handler: s.Handler()}
	server := s.server
	s.lock.Unlock()

	s.log.At("listen").Logf("address=%q", l.Addr().String())

	if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
		return s.log.Error(errors.WithStack(err))
	}

	return nil
}

func (s *Socket) frames(w http.ResponseWriter, r *http.Request) {
	log := s.log.At("frames")

	if run := r.Header.Get(headerRun); run != s.run {
		log.Logf("state=rejected run=%q", run)
		http.Error(w, fmt.Sprintf("run mismatch: %s", run), http.StatusConflict)
		return
	}

	source, err := strconv.Atoi(r.Header.Get(headerRank))
	if err != nil || source < 0 || source >= len(s.peers) {
		log.Logf("state=rejected source=%q", r.Header.Get(headerRank))
		http.Error(w, "invalid source rank", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}

	s.lock.Lock()
	s.inbound[conn] = true
	s.lock.Unlock()

	defer func() {
		s.lock.Lock()
		delete(s.inbound, conn)
		s.lock.Unlock()
		conn.Close()
	}()

	log = log.Namespace("source=%d", source)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Logf("state=closed error=%q", err)
			}
			return
		}

		f, err := DecodeFrame(data)
		if err != nil {
			log.Error(err)
			continue
		}

		if f.Run != s.run || f.Source != source {
			log.Logf("state=rejected run=%q source=%d", f.Run, f.Source)
			continue
		}

		if err := s.box.deliver(message{source: f.Source, tag: f.Tag, data: f.Data}); err != nil {
			log.Error(err)
			return
		}

		log.Logf("tag=%d count=%d", f.Tag, len(f.Data))
	}
}

func (s *Socket) Send(ctx context.Context, dst, tag int, data []int) error {
	if dst < 0 || dst >= len(s.peers) {
		return errors.WithStack(fmt.Errorf("%w: rank %d", ErrUnknownPeer, dst))
	}

	if dst == s.rank {
		out := make([]int, len(data))
		copy(out, data)
		return s.box.deliver(message{source: s.rank, tag: tag, data: out})
	}

	frame, err := EncodeFrame(Frame{Run: s.run, Source: s.rank, Tag: tag, Data: data})
	if err != nil {
		return err
	}

	p, err := s.peer(ctx, dst)
	if err != nil {
		return err
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if err := p.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Socket) peer(ctx context.Context, dst int) (*peer, error) {
	s.dial.Lock()
	defer s.dial.Unlock()

	if p, ok := s.outbound[dst]; ok {
		return p, nil
	}

	h := http.Header{}
	h.Set(headerRank, strconv.Itoa(s.rank))
	h.Set(headerRun, s.run)

	url := fmt.Sprintf("ws://%s/frames", s.peers[dst])

	var conn *websocket.Conn

	err := helpers.RetryContext(ctx, s.retries, s.interval, func() error {
		c, res, err := s.dialer.DialContext(ctx, url, h)
		if err != nil {
			if res != nil && res.StatusCode == http.StatusConflict {
				return fmt.Errorf("peer %d belongs to another run", dst)
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("dial rank %d at %s: %w", dst, s.peers[dst], err))
	}

	s.log.At("dial").Logf("peer=%d address=%q", dst, s.peers[dst])

	p := &peer{conn: conn}
	s.outbound[dst] = p

	return p, nil
}

func (s *Socket) Probe(ctx context.Context, src, tag int) (Status, error) {
	return s.box.probe(ctx, src, tag)
}

func (s *Socket) Receive(ctx context.Context, src, tag int, buf []int) (Status, error) {
	return s.box.receive(ctx, src, tag, buf)
}

func (s *Socket) Abort(err error) {
	s.box.fail(fmt.Errorf("%w: %v", ErrAborted, err))
	s.shutdown(false)
}

func (s *Socket) Close() error {
	s.box.fail(ErrClosed)
	return s.shutdown(true)
}

func (s *Socket) shutdown(graceful bool) error {
	deadline := time.Now().Add(time.Second)

	s.dial.Lock()

	for dst, p := range s.outbound {
		p.lock.Lock()
		if graceful {
			p.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		}
		p.conn.Close()
		p.lock.Unlock()
		delete(s.outbound, dst)
	}

	s.dial.Unlock()

	s.lock.Lock()
	defer s.lock.Unlock()

	for conn := range s.inbound {
		conn.Close()
	}

	if s.server != nil {
		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}
