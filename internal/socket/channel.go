// Package socket implements the per-client Socket Channel: a bounded
// outbound frame queue, a dedicated worker goroutine that batches frames,
// connects, sends, and demultiplexes client responses, with
// reconnect/backoff. Frames are sent exactly as enqueued; the channel
// does not compress them. This is the hardest subsystem
// in the spec (spec.md §4.5); every timing constant below is named after
// its spec.md counterpart.
package socket

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ledserver/internal/wire"
)

// State is the Socket Channel's connection lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// MaxQueueDepth bounds the outbound queue; Enqueue sheds load past it.
	MaxQueueDepth = 100
	// maxBatchSize is the most frames drained into one send.
	maxBatchSize = 20
	// maxBatchDelay forces a send even below maxBatchSize once this much
	// time has passed since the last send.
	maxBatchDelay = 250 * time.Millisecond
	// connectTimeout bounds a single connection attempt.
	connectTimeout = 2000 * time.Millisecond
	// sendTimeout bounds a single send (and the response read that follows it).
	sendTimeout = 3000 * time.Millisecond
	// reconnectCoolDown is the minimum delay between connection attempts
	// to the same host.
	reconnectCoolDown = 1000 * time.Millisecond
	// bpsResetWindow is how often the bytes/sec counter resets.
	bpsResetWindow = 3 * time.Second
	// idleTick is the worker's safety-net wakeup; Enqueue signals sooner.
	idleTick = time.Millisecond
)

// Channel owns one TCP connection to a single client, its outbound queue,
// and its worker goroutine. Exactly one Channel exists per Feature.
type Channel struct {
	host         string
	friendlyName string
	port         uint16

	state atomic.Int32

	running    atomic.Bool
	wasStarted atomic.Bool
	cancel     context.CancelFunc
	doneCh     chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once

	queueMu sync.Mutex
	queue   [][]byte
	notify  chan struct{}

	connMu        sync.Mutex
	conn          net.Conn
	reader        *bufio.Reader
	lastSendTime  time.Time
	lastAttemptAt time.Time
	reconnectN    atomic.Uint32

	responseMu sync.Mutex
	lastResp   wire.Response
	hasResp    bool

	bytesMu    sync.Mutex
	bytesSent  uint64
	windowFrom time.Time

	log zerolog.Logger
}

// NewChannel constructs a channel in the Idle state. Call Start to begin
// its worker goroutine.
func NewChannel(host, friendlyName string, port uint16) *Channel {
	if port == 0 {
		port = 49152
	}
	c := &Channel{
		host:         host,
		friendlyName: friendlyName,
		port:         port,
		notify:       make(chan struct{}, 1),
		doneCh:       make(chan struct{}),
		log:          zerolog.Nop(),
	}
	c.windowFrom = time.Now()
	c.state.Store(int32(StateIdle))
	return c
}

// SetLogger attaches log to the channel, tagged with its host, for the
// debug-level traces the worker loop emits on transient errors (connect
// failure, send error, queue-overflow shed, response desync).
func (c *Channel) SetLogger(log zerolog.Logger) {
	c.log = log.With().Str("component", "socket").Str("host", c.host).Logger()
}

func (c *Channel) Host() string         { return c.host }
func (c *Channel) FriendlyName() string { return c.friendlyName }
func (c *Channel) Port() uint16         { return c.port }

func (c *Channel) State() State { return State(c.state.Load()) }

// IsConnected reports whether the most recent send completed successfully.
func (c *Channel) IsConnected() bool { return c.State() == StateConnected }

// ReconnectCount returns how many times this channel has connected.
func (c *Channel) ReconnectCount() uint32 { return c.reconnectN.Load() }

// LastClientResponse returns the most recently decoded client response and
// whether one has ever been received.
func (c *Channel) LastClientResponse() (wire.Response, bool) {
	c.responseMu.Lock()
	defer c.responseMu.Unlock()
	return c.lastResp, c.hasResp
}

// QueueDepth returns the current outbound queue length, mostly for tests
// and the monitor.
func (c *Channel) QueueDepth() int {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	return len(c.queue)
}

// Enqueue is non-blocking. If the queue is already at MaxQueueDepth, the
// incoming frame is dropped, the queue is cleared, and the socket is
// force-closed so the next send reconnects from a clean slate.
func (c *Channel) Enqueue(frame []byte) bool {
	c.queueMu.Lock()
	if len(c.queue) >= MaxQueueDepth {
		c.queueMu.Unlock()
		c.log.Debug().Int("depth", MaxQueueDepth).Msg("queue overflow, shedding and force-closing")
		c.closeSocket()
		return false
	}
	c.queue = append(c.queue, frame)
	c.queueMu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return true
}

// Start launches the worker goroutine. Calling Start more than once is a
// no-op.
func (c *Channel) Start() {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wasStarted.Store(true)
		c.running.Store(true)
		c.state.Store(int32(StateConnecting))
		go c.workerLoop(ctx)
	})
}

// Stop is accepted from any state and is idempotent. It returns only once
// the worker goroutine has exited (or, if Start was never called, returns
// immediately), with IsConnected()==false.
func (c *Channel) Stop() {
	c.stopOnce.Do(func() {
		c.running.Store(false)
		if c.cancel != nil {
			c.cancel()
		}
		c.closeSocket()
	})
	if c.wasStarted.Load() {
		<-c.doneCh
	}
	c.state.Store(int32(StateStopped))
}

func (c *Channel) workerLoop(ctx context.Context) {
	defer close(c.doneCh)
	ticker := time.NewTicker(idleTick)
	defer ticker.Stop()

	for c.running.Load() {
		select {
		case <-ctx.Done():
			return
		case <-c.notify:
		case <-ticker.C:
		}
		if !c.running.Load() {
			return
		}
		c.tick(ctx)
	}
}

func (c *Channel) tick(ctx context.Context) {
	batch, ok := c.drainBatch()
	if !ok {
		return
	}

	c.connMu.Lock()
	c.lastSendTime = time.Now()
	c.connMu.Unlock()

	resp, err := c.sendFrame(ctx, batch)
	if err != nil {
		c.state.Store(int32(StateFailed))
		return
	}
	if resp != nil {
		c.responseMu.Lock()
		c.lastResp = *resp
		c.hasResp = true
		c.responseMu.Unlock()
	}
}

// drainBatch removes up to maxBatchSize frames from the queue and
// concatenates them, but only once the batch threshold (size or delay)
// is met.
func (c *Channel) drainBatch() ([]byte, bool) {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()

	if len(c.queue) == 0 {
		return nil, false
	}

	c.connMu.Lock()
	timeToSend := time.Since(c.lastSendTime) >= maxBatchDelay
	c.connMu.Unlock()

	if len(c.queue) < maxBatchSize && !timeToSend {
		return nil, false
	}

	n := maxBatchSize
	if len(c.queue) < n {
		n = len(c.queue)
	}

	var combined []byte
	for i := 0; i < n; i++ {
		combined = append(combined, c.queue[i]...)
	}
	c.queue = c.queue[n:]
	return combined, true
}

func (c *Channel) sendFrame(ctx context.Context, data []byte) (*wire.Response, error) {
	c.connMu.Lock()
	conn := c.conn
	reader := c.reader
	c.connMu.Unlock()

	if conn == nil {
		var err error
		conn, err = c.connect(ctx)
		if err != nil {
			return nil, err
		}
		c.connMu.Lock()
		reader = c.reader
		c.connMu.Unlock()
	}

	conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	total := 0
	for total < len(data) {
		n, err := conn.Write(data[total:])
		if err != nil {
			c.log.Debug().Err(err).Msg("send failed, closing socket")
			c.closeSocket()
			return nil, err
		}
		total += n
	}

	c.state.Store(int32(StateConnected))
	c.bytesMu.Lock()
	c.bytesSent += uint64(total)
	c.bytesMu.Unlock()

	var last *wire.Response
	for {
		resp, progressed := c.readResponse(conn, reader)
		if !progressed {
			break
		}
		if resp != nil {
			last = resp
		}
	}
	return last, nil
}

// readResponse polls for one pending response with a near-zero readiness
// check (a 1 ms read deadline; a deadline of "now" makes Go fail the read
// without looking at bytes already received). It returns progressed=false
// once nothing more is available right now. A length-prefix byte that
// doesn't match a known response size is a protocol desync: that many
// bytes are consumed and discarded, and polling continues. reader must be
// the bufio.Reader wrapping conn, captured by the caller under connMu so
// it can never observe closeSocket's concurrent nil-out mid-read.
func (c *Channel) readResponse(conn net.Conn, reader *bufio.Reader) (resp *wire.Response, progressed bool) {
	conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	peek, err := reader.Peek(1)
	if err != nil {
		return nil, false
	}

	byteCount := int(peek[0])
	conn.SetReadDeadline(time.Now().Add(sendTimeout))

	switch byteCount {
	case wire.ResponseSize:
		buf := make([]byte, wire.ResponseSize)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, false
		}
		r, err := wire.Decode(buf)
		if err != nil {
			return nil, true
		}
		return &r, true

	case wire.LegacyResponseSize:
		buf := make([]byte, wire.LegacyResponseSize)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, false
		}
		r, err := wire.DecodeLegacy(buf)
		if err != nil {
			return nil, true
		}
		return &r, true

	default:
		c.log.Debug().Int("byteCount", byteCount).Msg("response desync, discarding")
		discard := make([]byte, byteCount)
		io.ReadFull(reader, discard) //nolint:errcheck // best-effort desync recovery
		return nil, true
	}
}

func (c *Channel) connect(ctx context.Context) (net.Conn, error) {
	c.connMu.Lock()
	since := time.Since(c.lastAttemptAt)
	c.connMu.Unlock()
	if since < reconnectCoolDown && !c.lastAttemptAt.IsZero() {
		return nil, fmt.Errorf("socket: %s cooling down before reconnect", c.host)
	}

	c.connMu.Lock()
	c.lastAttemptAt = time.Now()
	c.connMu.Unlock()

	c.state.Store(int32(StateConnecting))

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	dialer := net.Dialer{}
	addr := net.JoinHostPort(c.host, strconv.Itoa(int(c.port)))
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		c.state.Store(int32(StateFailed))
		c.log.Debug().Err(err).Str("addr", addr).Msg("connect failed")
		return nil, fmt.Errorf("socket: connecting to %s: %w", addr, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.connMu.Unlock()

	c.reconnectN.Add(1)
	c.state.Store(int32(StateConnected))
	return conn, nil
}

// closeSocket closes the connection (if any) and empties the queue. Per
// spec.md §5 deadlock-avoidance rule, this never holds the queue mutex and
// the connection mutex at the same time.
func (c *Channel) closeSocket() {
	c.queueMu.Lock()
	c.queue = nil
	c.queueMu.Unlock()

	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.reader = nil
	c.connMu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.state.Store(int32(StateFailed))
}

// BytesPerSecond returns the current send rate, resetting its window
// every bpsResetWindow.
func (c *Channel) BytesPerSecond() uint32 {
	c.bytesMu.Lock()
	defer c.bytesMu.Unlock()

	elapsed := time.Since(c.windowFrom).Seconds()
	if elapsed <= 0 {
		return 0
	}
	bps := uint32(float64(c.bytesSent) / elapsed)

	if elapsed >= bpsResetWindow.Seconds() {
		c.windowFrom = time.Now()
		c.bytesSent = 0
	}
	return bps
}
