package relay

import (
	"sync"
	"time"

	"drawnet/internal/core/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Conn is the transport surface the relay needs from a connection. A
// *websocket.Conn satisfies it in production; tests use in-memory fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Peer is one client's live connection to a session. It owns a bounded
// outbound queue drained by a single writer goroutine, so a slow or dead
// recipient never blocks broadcast fan-out to the rest of the session.
type Peer struct {
	sessionID domain.SessionID
	conn      Conn

	send chan []byte
	done chan struct{}

	pingInterval time.Duration
	writeTimeout time.Duration

	closeOnce sync.Once
	logger    *zap.SugaredLogger
}

func newPeer(sessionID domain.SessionID, conn Conn, queueSize int, pingInterval, writeTimeout time.Duration, logger *zap.SugaredLogger) *Peer {
	return &Peer{
		sessionID:    sessionID,
		conn:         conn,
		send:         make(chan []byte, queueSize),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// SessionID returns the session this peer belongs to for its whole lifetime.
func (p *Peer) SessionID() domain.SessionID {
	return p.sessionID
}

// enqueue hands a payload to the peer's writer goroutine without blocking.
// A full queue means the recipient stopped draining; the connection is closed
// so its read loop deregisters it, rather than stalling the broadcast path.
func (p *Peer) enqueue(payload []byte) error {
	select {
	case <-p.done:
		return domain.ErrConnectionClosed
	default:
	}

	select {
	case p.send <- payload:
		return nil
	default:
		p.logger.Warnw("peer send queue full, dropping connection",
			"session_id", p.sessionID,
		)
		p.close()
		return domain.ErrConnectionClosed
	}
}

// writePump drains the outbound queue onto the wire and keeps the connection
// alive with periodic pings. It is the connection's only writer.
func (p *Peer) writePump() {
	ticker := time.NewTicker(p.pingInterval)
	defer func() {
		ticker.Stop()
		p.close()
	}()

	for {
		select {
		case payload := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				p.logger.Debugw("write to peer failed",
					"session_id", p.sessionID,
					"error", err,
				)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-p.done:
			return
		}
	}
}

// close shuts the connection down exactly once. The read loop observes the
// closed connection and triggers deregistration.
func (p *Peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}
