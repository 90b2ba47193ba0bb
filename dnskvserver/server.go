// Package dnskvserver is the server side of dnskv.  It reassembles
// uploads spread across DNS query names, stores the result, and pages
// stored values back out in TXT answers.
package dnskvserver

/*
 * server.go
 * Server side of dnskv
 * Created 20250118
 * Last Modified 20250302
 */

import (
	"net"
	"sync"

	"github.com/Jeffail/tunny"
	"go.uber.org/zap"
)

// Config is used to configure a new Server.
type Config struct {
	// Store holds pending uploads and committed values.  If nil, a new
	// MemStore is used.
	Store Store

	// Workers bounds how many received datagrams are handled at once.
	Workers int

	// TTL is the Time-To-Live value, in seconds, sent in answers.
	TTL uint32

	// ReceiveBufferSize is the size of the receive buffer, which must
	// be large enough to hold an entire DNS packet.
	ReceiveBufferSize uint

	// Logger receives per-query errors and serve-loop failures.  If
	// nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultConfig holds the defaults used for unset Config fields, or when
// nil is passed to Listen.
var DefaultConfig = Config{
	Workers:           16,
	TTL:               2,
	ReceiveBufferSize: 2048,
}

// Server reads DNS queries from its underlying transport, applies them to
// its Store, and sends replies.  Queries are handled concurrently; a
// malformed query is logged and dropped without affecting any other.
type Server struct {
	pc    net.PacketConn
	store Store
	ttl   uint32
	log   *zap.Logger
	pool  *tunny.Pool

	closed bool
	cl     *sync.Mutex
	wg     *sync.WaitGroup /* Serve loop */
	hwg    *sync.WaitGroup /* In-flight handlers */
}

/* packet is one received datagram, as handed to the worker pool. */
type packet struct {
	buf  []byte
	addr net.Addr
}

// Listen serves dnskv queries arriving on pc.  It is configured by passing
// in a Config, or nil to use DefaultConfig; unset fields take their
// defaults from DefaultConfig.
func Listen(pc net.PacketConn, config *Config) *Server {
	conf := DefaultConfig
	if nil != config {
		conf = *config
	}
	if nil == conf.Store {
		conf.Store = NewMemStore()
	}
	if 0 >= conf.Workers {
		conf.Workers = DefaultConfig.Workers
	}
	if 0 == conf.TTL {
		conf.TTL = DefaultConfig.TTL
	}
	if 0 == conf.ReceiveBufferSize {
		conf.ReceiveBufferSize = DefaultConfig.ReceiveBufferSize
	}
	if nil == conf.Logger {
		conf.Logger = zap.NewNop()
	}

	s := &Server{
		pc:    pc,
		store: conf.Store,
		ttl:   conf.TTL,
		log:   conf.Logger,
		cl:    new(sync.Mutex),
		wg:    new(sync.WaitGroup),
		hwg:   new(sync.WaitGroup),
	}
	s.pool = tunny.NewFunc(conf.Workers, s.work)

	s.wg.Add(1)
	go s.process(make([]byte, conf.ReceiveBufferSize))

	return s
}

// Addr returns the address of s's underlying transport.
func (s *Server) Addr() net.Addr { return s.pc.LocalAddr() }

// Store returns the Store holding s's state.
func (s *Server) Store() Store { return s.store }

// Close stops s and closes its underlying transport.  It is safe to call
// Close more than once.
func (s *Server) Close() error {
	s.cl.Lock()
	defer s.cl.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.pc.Close()
}

// Wait returns after s's serve loop has ended, usually after a call to
// Close.
func (s *Server) Wait() { s.wg.Wait() }

/* process pops datagrams from s.pc and hands each to the worker pool.  The
pool bounds how many are handled at once; handling never blocks the read
loop. */
func (s *Server) process(buf []byte) {
	defer s.wg.Done()
	defer func() {
		/* No handler may touch the pool after it closes */
		s.hwg.Wait()
		s.pool.Close()
	}()

	for {
		n, addr, err := s.pc.ReadFrom(buf)
		if 0 < n {
			/* The read buffer is reused as soon as we loop */
			p := packet{buf: make([]byte, n), addr: addr}
			copy(p.buf, buf[:n])
			s.hwg.Add(1)
			go func() {
				defer s.hwg.Done()
				s.pool.Process(p)
			}()
		}
		if nil != err {
			/* Retry after a temporary error */
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if !s.isClosed() {
				s.log.Error("serve loop", zap.Error(err))
			}
			return
		}
	}
}

/* work is the worker pool's function.  It handles a single datagram. */
func (s *Server) work(v interface{}) interface{} {
	p := v.(packet)
	if err := s.handle(p); nil != err {
		s.log.Warn(
			"query dropped",
			zap.Stringer("addr", p.addr),
			zap.Error(err),
		)
	}
	return nil
}

/* isClosed threadsafely reports whether Close has been called. */
func (s *Server) isClosed() bool {
	s.cl.Lock()
	defer s.cl.Unlock()
	return s.closed
}
