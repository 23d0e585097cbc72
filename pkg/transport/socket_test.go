package transport_test

import (
	"context"
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convox/treesort/pkg/transport"
	"github.com/stretchr/testify/require"
)

func testSockets(t *testing.T, run string, n int) []*transport.Socket {
	ls := make([]net.Listener, n)
	peers := make([]string, n)

	for i := range ls {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		ls[i] = l
		peers[i] = l.Addr().String()
	}

	ss := make([]*transport.Socket, n)

	for i := range ss {
		s, err := transport.NewSocket(transport.SocketOptions{
			Rank:     i,
			Peers:    peers,
			Run:      run,
			Retries:  20,
			Interval: 10 * time.Millisecond,
		})
		require.NoError(t, err)

		go s.Serve(ls[i])

		ss[i] = s
	}

	t.Cleanup(func() {
		for _, s := range ss {
			s.Close()
		}
	})

	return ss
}

func TestSocketSendReceive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ss := testSockets(t, "run1", 3)

	require.Equal(t, 2, ss[2].Rank())
	require.Equal(t, 3, ss[2].Size())

	require.NoError(t, ss[0].Send(ctx, 1, 0, []int{5, 4, 3}))
	require.NoError(t, ss[0].Send(ctx, 2, 0, []int{2, 1}))
	require.NoError(t, ss[0].Send(ctx, 1, 0, []int{9}))

	s, err := ss[1].Probe(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, transport.Status{Source: 0, Tag: 0, Count: 3}, s)

	buf := make([]int, 3)
	_, err = ss[1].Receive(ctx, 0, 0, buf)
	require.NoError(t, err)
	require.Equal(t, []int{5, 4, 3}, buf)

	_, err = ss[1].Receive(ctx, 0, 0, buf)
	require.NoError(t, err)
	require.Equal(t, 9, buf[0])

	buf = make([]int, 2)
	s, err = ss[2].Receive(ctx, transport.AnySource, 0, buf)
	require.NoError(t, err)
	require.Equal(t, 0, s.Source)
	require.Equal(t, []int{2, 1}, buf)
}

func TestSocketReplies(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ss := testSockets(t, "run2", 3)

	require.NoError(t, ss[2].Send(ctx, 0, 0, []int{3, 4}))
	require.NoError(t, ss[1].Send(ctx, 0, 0, []int{1}))

	seen := map[int]int{}

	for i := 0; i < 2; i++ {
		s, err := ss[0].Probe(ctx, transport.AnySource, 0)
		require.NoError(t, err)

		buf := make([]int, s.Count)
		_, err = ss[0].Receive(ctx, s.Source, 0, buf)
		require.NoError(t, err)

		seen[s.Source] = len(buf)
	}

	require.Equal(t, map[int]int{1: 1, 2: 2}, seen)
}

func TestSocketEmptyMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ss := testSockets(t, "run3", 2)

	require.NoError(t, ss[0].Send(ctx, 1, 0, []int{}))

	s, err := ss[1].Receive(ctx, 0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, s.Count)
}

func TestSocketSelfSend(t *testing.T) {
	ctx := context.Background()

	s, err := transport.NewSocket(transport.SocketOptions{Rank: 0, Peers: []string{"127.0.0.1:1"}, Run: "solo"})
	require.NoError(t, err)

	require.NoError(t, s.Send(ctx, 0, 1, []int{8}))

	buf := make([]int, 1)
	st, err := s.Receive(ctx, 0, 1, buf)
	require.NoError(t, err)
	require.Equal(t, 1, st.Tag)
	require.Equal(t, []int{8}, buf)
}

func TestSocketUnknownPeer(t *testing.T) {
	_, err := transport.NewSocket(transport.SocketOptions{Rank: 2, Peers: []string{"a:1", "b:1"}})
	require.True(t, errors.Is(err, transport.ErrUnknownPeer))

	_, err = transport.NewSocket(transport.SocketOptions{Rank: 0})
	require.True(t, errors.Is(err, transport.ErrUnknownPeer))

	s, err := transport.NewSocket(transport.SocketOptions{Rank: 0, Peers: []string{"a:1"}})
	require.NoError(t, err)

	err = s.Send(context.Background(), 1, 0, []int{1})
	require.True(t, errors.Is(err, transport.ErrUnknownPeer))
}

func TestSocketForeignRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ours := testSockets(t, "ours", 2)

	foreign, err := transport.NewSocket(transport.SocketOptions{
		Rank:     1,
		Peers:    []string{ours[0].Address(), "127.0.0.1:1"},
		Run:      "theirs",
		Retries:  1,
		Interval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	defer foreign.Close()

	err = foreign.Send(ctx, 0, 0, []int{1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "another run")
}

func TestSocketCheck(t *testing.T) {
	s, err := transport.NewSocket(transport.SocketOptions{Rank: 0, Peers: []string{"127.0.0.1:1"}, Run: "checked"})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/check")
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok\n", string(data))

	res, err = http.Get(srv.URL + "/frames")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestSocketAbort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ss := testSockets(t, "run4", 2)

	errs := make(chan error, 1)

	go func() {
		_, err := ss[1].Probe(ctx, 0, 0)
		errs <- err
	}()

	ss[1].Abort(errors.New("peer failed"))

	err := <-errs
	require.True(t, errors.Is(err, transport.ErrAborted))
}

func TestFrameCodec(t *testing.T) {
	data, err := transport.EncodeFrame(transport.Frame{Run: "r", Source: 3, Tag: 0, Data: []int{-1, 0, 1 << 40}})
	require.NoError(t, err)

	f, err := transport.DecodeFrame(data)
	require.NoError(t, err)
	require.Equal(t, "r", f.Run)
	require.Equal(t, 3, f.Source)
	require.Equal(t, []int{-1, 0, 1 << 40}, f.Data)

	_, err = transport.DecodeFrame([]byte{0xff, 0x00})
	require.Error(t, err)
}
