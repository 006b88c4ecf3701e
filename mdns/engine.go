package mdns

import (
	"net"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/meilisearch/madness/dnsmsg"
	"golang.org/x/sync/errgroup"
)

// Option applies a construction-time option to an Engine.
type Option func(*Engine)

// UseLogger sets the logger used to report non-fatal send/receive errors.
// logging.DefaultLogger is used if this option is not given.
func UseLogger(l logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine is a multicast DNS service engine: it owns the IPv4 and IPv6
// sockets, the advertised-name set, the discovery scheduler, and the send
// queues, and drives all of it from the single suspension point in Next.
//
// An Engine is not safe for concurrent use; it is intended to be driven by
// one owning goroutine, per the cooperative scheduling model.
type Engine struct {
	v4      *conn4
	v6      *conn6
	queryV4 *net.UDPConn
	queryV6 *net.UDPConn
	logger  logging.Logger

	advertised map[string]struct{}

	sendQueue      [][]byte
	querySendQueue [][]byte

	discoveryCh chan string

	buf4, buf6 []byte
	in4, in6   chan recvResult
	resume4    chan struct{}
	resume6    chan struct{}

	done      chan struct{}
	closeOnce sync.Once

	recvGroup errgroup.Group
}

type recvResult struct {
	n    int
	addr *net.UDPAddr
	err  error
}

// New creates an engine with an IPv4 socket bound to 0.0.0.0:5353 and an
// IPv6 socket bound to [::]:5353, both joined to their respective mDNS
// multicast groups on the system's default interface, plus an ephemeral
// query socket pair used only for outbound discovery questions. loopback
// controls the multicast loopback flag on both main sockets.
func New(loopback bool, options ...Option) (*Engine, error) {
	v4, err := listen4(loopback)
	if err != nil {
		return nil, &ConstructionError{Op: "join IPv4 multicast group", Err: err}
	}

	v6, err := listen6(loopback)
	if err != nil {
		v4.Close()
		return nil, &ConstructionError{Op: "join IPv6 multicast group", Err: err}
	}

	queryV4, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		v4.Close()
		v6.Close()
		return nil, &ConstructionError{Op: "open IPv4 query socket", Err: err}
	}

	queryV6, err := net.ListenUDP("udp6", &net.UDPAddr{})
	if err != nil {
		v4.Close()
		v6.Close()
		queryV4.Close()
		return nil, &ConstructionError{Op: "open IPv6 query socket", Err: err}
	}

	e := &Engine{
		v4:         v4,
		v6:         v6,
		queryV4:    queryV4,
		queryV6:    queryV6,
		logger:     logging.DefaultLogger,
		advertised: make(map[string]struct{}),

		discoveryCh: make(chan string, 100),

		buf4: make([]byte, recvBufferSize),
		buf6: make([]byte, recvBufferSize),
		in4:  make(chan recvResult),
		in6:  make(chan recvResult),

		resume4: make(chan struct{}),
		resume6: make(chan struct{}),

		done: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	e.recvGroup.Go(func() error {
		return e.recvLoop(e.v4, e.buf4, e.in4, e.resume4)
	})
	e.recvGroup.Go(func() error {
		return e.recvLoop(e.v6, e.buf6, e.in6, e.resume6)
	})

	return e, nil
}

// receiver is the subset of conn4/conn6 that recvLoop needs.
type receiver interface {
	Recv([]byte) (int, *net.UDPAddr, error)
}

// recvLoop reads datagrams into buf and reports each one on out, waiting
// for a signal on resume before reading again. This keeps buf reused across
// iterations, as the engine's resource policy requires, while still letting
// Next multiplex the read with the other event sources via select.
//
// Both the send to out and the wait on resume are raced against e.done, so
// Close can unwind this goroutine even when nothing is left calling Next to
// drain out: closing e.done's sockets unblocks an in-flight Recv, and
// closing e.done itself unblocks the channel ops around it. Without this,
// Close would deadlock in the common case where the caller stops calling
// Next before calling Close (see engine_test.go's AfterEach).
func (e *Engine) recvLoop(c receiver, buf []byte, out chan<- recvResult, resume <-chan struct{}) error {
	for {
		n, addr, err := c.Recv(buf)

		select {
		case out <- recvResult{n: n, addr: addr, err: err}:
		case <-e.done:
			return err
		}

		if err != nil {
			return err
		}

		select {
		case <-resume:
		case <-e.done:
			return nil
		}
	}
}

// Close shuts down the engine's sockets and waits for both receive
// goroutines to unwind. It first closes e.done so a recvLoop blocked trying
// to hand a result to a caller that is no longer calling Next can return
// immediately rather than waiting on a read that will never come; closing
// the sockets next unblocks any recvLoop currently inside Recv. A blocked
// Next call also watches e.done and returns net.ErrClosed; the "socket
// closed" error each recvLoop ends with is swallowed here rather than
// returned, since it is the expected result of Close itself
// rather than an operational failure. Close is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() { close(e.done) })

	err4 := e.v4.Close()
	err6 := e.v6.Close()
	errQ4 := e.queryV4.Close()
	errQ6 := e.queryV6.Close()

	_ = e.recvGroup.Wait()

	if err4 != nil {
		return err4
	}
	if err6 != nil {
		return err6
	}
	if errQ4 != nil {
		return errQ4
	}
	return errQ6
}

// Register adds name to the advertised-name set. Idempotent.
func (e *Engine) Register(name string) {
	e.advertised[name] = struct{}{}
}

// Unregister removes name from the advertised-name set. Idempotent.
func (e *Engine) Unregister(name string) {
	delete(e.advertised, name)
}

// Discover starts a ticker that enqueues a PTR question for name every
// interval, until the returned subscription is canceled.
func (e *Engine) Discover(name string, interval time.Duration) *DiscoverySubscription {
	return discover(e.discoveryCh, name, interval)
}

// EnqueueResponse appends a pre-built packet to the main send queue. It is
// sent on IPv4 and IPv6 multicast during the engine's next step.
func (e *Engine) EnqueueResponse(buf []byte) {
	e.sendQueue = append(e.sendQueue, buf)
}

// Next drives the engine until an event is ready: draining the send
// queues, then waiting on the first of an inbound IPv4 datagram, an
// inbound IPv6 datagram, or a discovery-scheduler tick. Inbound datagrams
// that fail to parse are dropped silently and do not produce an event;
// scheduler ticks enqueue a question and do not produce an event either.
// Next only returns once an inbound datagram parses successfully, once a
// socket read fails, or once the engine is closed (with net.ErrClosed).
func (e *Engine) Next() (Event, error) {
	for {
		e.drainSendQueue()
		e.drainQuerySendQueue()

		select {
		case <-e.done:
			return Event{}, net.ErrClosed

		case r := <-e.in4:
			ev, ok, err := e.handleRecv(r, e.buf4, e.resume4)
			if err != nil {
				return Event{}, err
			}
			if ok {
				return ev, nil
			}

		case r := <-e.in6:
			ev, ok, err := e.handleRecv(r, e.buf6, e.resume6)
			if err != nil {
				return Event{}, err
			}
			if ok {
				return ev, nil
			}

		case name := <-e.discoveryCh:
			b, err := dnsmsg.NewBuilder(0).
				AddQuestion(dnsmsg.Question{
					Name:          name,
					Type:          dnsmsg.TypePTR,
					Class:         dnsmsg.ClassIN,
					PreferUnicast: true,
				}).
				Build()
			if err != nil {
				e.logger.Log("mdns: failed to build discovery query for %q: %s", name, err)
				continue
			}

			e.querySendQueue = append(e.querySendQueue, b)
		}
	}
}

// handleRecv parses one received datagram and classifies it into an event.
// It signals the owning recvLoop to read again only after the buffer's
// contents have been fully consumed by Parse.
func (e *Engine) handleRecv(r recvResult, buf []byte, resume chan<- struct{}) (Event, bool, error) {
	if r.err != nil {
		return Event{}, false, r.err
	}

	pkt, err := dnsmsg.Parse(buf[:r.n])

	select {
	case resume <- struct{}{}:
	case <-e.done:
	}

	if err != nil {
		e.logger.Debug("mdns: dropping unparseable packet from %s: %s", r.addr, err)
		return Event{}, false, nil
	}

	return classify(e.advertised, r.addr, pkt.ID(), pkt), true, nil
}

// drainSendQueue sends every buffer in the main send queue to both the IPv4
// and the IPv6 multicast address; the engine always has both sockets, and
// the IPv6 send cannot be turned off. A send error on any one buffer is
// non-fatal: the remaining queue is discarded rather than retried, since
// accumulating a backlog after a transient link error is worse than
// dropping pending advertisements once.
func (e *Engine) drainSendQueue() {
	for len(e.sendQueue) > 0 {
		buf := e.sendQueue[0]
		e.sendQueue = e.sendQueue[1:]

		if err := e.v4.Send(buf, IPv4Address); err != nil {
			e.logger.Log("mdns: dropping pending responses after IPv4 send error: %s", err)
			e.sendQueue = nil
			break
		}

		if err := e.v6.Send(buf, IPv6Address); err != nil {
			e.logger.Log("mdns: dropping pending responses after IPv6 send error: %s", err)
			e.sendQueue = nil
			break
		}
	}
}

// drainQuerySendQueue sends every buffer in the discovery-query send queue
// through the query socket pair, to both multicast addresses, with the same
// drop-on-error policy as drainSendQueue.
func (e *Engine) drainQuerySendQueue() {
	for len(e.querySendQueue) > 0 {
		buf := e.querySendQueue[0]
		e.querySendQueue = e.querySendQueue[1:]

		if _, err := e.queryV4.WriteToUDP(buf, IPv4Address); err != nil {
			e.logger.Log("mdns: dropping pending queries after IPv4 send error: %s", err)
			e.querySendQueue = nil
			break
		}

		if _, err := e.queryV6.WriteToUDP(buf, IPv6Address); err != nil {
			e.logger.Log("mdns: dropping pending queries after IPv6 send error: %s", err)
			e.querySendQueue = nil
			break
		}
	}
}
