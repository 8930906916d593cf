package control

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/thruflo/strobe/internal/engine"
	"github.com/thruflo/strobe/internal/logging"
)

// MaxClients is the connection cap. A connection accepted while the table
// is full is closed immediately.
const MaxClients = 8

// Deadlines bounding one pass of the event loop. With a full client table a
// pass takes at most acceptTimeout + MaxClients*readTimeout ≈ 100ms, which
// is how quickly the loop observes shutdown.
const (
	acceptTimeout = 20 * time.Millisecond
	readTimeout   = 10 * time.Millisecond
)

// client is one connected control client.
type client struct {
	conn          net.Conn
	handshakeDone bool
	buf           []byte // unconsumed request/frame bytes
	remove        bool
}

// Server accepts live-coding clients and applies their decoded messages to
// the player records in the snapshot. All socket state is owned by the
// single run goroutine.
type Server struct {
	log  *logging.Logger
	snap *engine.Snapshot

	ln      net.Listener
	clients []*client

	clientCount atomic.Int32

	now func() time.Time // test hook

	stop chan struct{}
	done chan struct{}
}

// Listen binds the control port on all interfaces. A bind failure is
// returned to the caller so the feature can be disabled without killing the
// process.
func Listen(port int, snap *engine.Snapshot, log *logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind control port %d: %w", port, err)
	}
	return &Server{
		log:  log,
		snap: snap,
		ln:   ln,
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// ClientCount returns the number of active connections.
func (s *Server) ClientCount() int {
	return int(s.clientCount.Load())
}

// Start launches the event loop goroutine.
func (s *Server) Start() {
	go s.run()
}

// Stop signals the loop and waits for every socket to be closed.
func (s *Server) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Server) run() {
	defer close(s.done)
	defer s.closeAll()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.acceptPending()
		s.servePass()
		s.compact()
	}
}

// acceptPending accepts at most one pending connection per pass.
func (s *Server) acceptPending() {
	type deadliner interface{ SetDeadline(time.Time) error }
	if d, ok := s.ln.(deadliner); ok {
		_ = d.SetDeadline(s.now().Add(acceptTimeout))
	}

	conn, err := s.ln.Accept()
	if err != nil {
		if !isTimeout(err) && !errors.Is(err, net.ErrClosed) {
			s.log.Warn("accept failed", "err", err)
		}
		return
	}

	if len(s.clients) >= MaxClients {
		s.log.Warn("refusing client, table full", "remote", conn.RemoteAddr().String())
		conn.Close()
		return
	}

	s.clients = append(s.clients, &client{conn: conn})
	s.clientCount.Store(int32(len(s.clients)))
	s.log.Info("client connected", "remote", conn.RemoteAddr().String(), "clients", len(s.clients))
}

// servePass reads from every client once. Failed clients are only marked
// here; the table itself is never mutated mid-iteration.
func (s *Server) servePass() {
	tmp := make([]byte, 2048)

	for _, c := range s.clients {
		_ = c.conn.SetReadDeadline(s.now().Add(readTimeout))
		n, err := c.conn.Read(tmp)
		if n > 0 {
			c.buf = append(c.buf, tmp[:n]...)
			if aerr := s.advance(c); aerr != nil {
				if aerr != io.EOF {
					s.log.Warn("dropping client", "remote", c.conn.RemoteAddr().String(), "err", aerr)
				}
				c.remove = true
				continue
			}
		}
		if err != nil && !isTimeout(err) {
			if err != io.EOF {
				s.log.Warn("read failed", "remote", c.conn.RemoteAddr().String(), "err", err)
			}
			c.remove = true
		}
	}
}

// advance consumes as much of the client's buffered data as possible:
// first the handshake, then complete frames.
func (s *Server) advance(c *client) error {
	if !c.handshakeDone {
		key, consumed, err := parseHandshake(c.buf)
		if err != nil {
			return err
		}
		if consumed == 0 {
			return nil // incomplete request
		}
		c.buf = c.buf[consumed:]

		if _, err := c.conn.Write(handshakeResponse(key)); err != nil {
			return fmt.Errorf("handshake write: %w", err)
		}
		c.handshakeDone = true
	}

	for {
		f, consumed, err := decodeFrame(c.buf)
		if err != nil {
			return err
		}
		if consumed == 0 {
			return nil // incomplete frame
		}
		c.buf = c.buf[consumed:]

		switch f.opcode {
		case opText:
			s.apply(string(f.payload))
		case opClose:
			return io.EOF
		default:
			// Binary, ping and pong payloads are ignored, not rejected.
		}
	}
}

// apply decodes one payload and updates the addressed player. Payloads
// without a valid player slot are ignored.
func (s *Server) apply(payload string) {
	m := parseMessage(payload)
	if !m.hasPlayer || m.player < 0 || m.player >= engine.NumPlayers {
		return
	}

	s.snap.UpdatePlayer(m.player, func(p *engine.Player) {
		if m.hasCode {
			p.Code = m.code
		}
		if m.hasExec {
			p.Executed = m.executed
		}
		if m.hasActive {
			p.Active = m.active
		}
		p.UpdatedAt = s.now()
	})
}

// compact removes marked clients after the pass, so a removal can never
// skip or double-visit a socket within one iteration.
func (s *Server) compact() {
	kept := s.clients[:0]
	for _, c := range s.clients {
		if c.remove {
			s.log.Info("client disconnected", "remote", c.conn.RemoteAddr().String())
			c.conn.Close()
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(s.clients); i++ {
		s.clients[i] = nil
	}
	s.clients = kept
	s.clientCount.Store(int32(len(s.clients)))
}

func (s *Server) closeAll() {
	s.ln.Close()
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.clients = nil
	s.clientCount.Store(0)
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
