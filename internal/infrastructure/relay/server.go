package relay

import (
	"net/http"
	"time"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/services"
	"drawnet/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server upgrades authenticated HTTP requests to WebSocket connections and
// drives each connection's relay loop. A connection belongs to exactly one
// session for its whole lifetime.
type Server struct {
	cfg      *config.Config
	registry *Registry
	auth     services.AuthService
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

func NewServer(cfg *config.Config, registry *Registry, auth services.AuthService, logger *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		auth:     auth,
		logger:   logger,
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Auth.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// HandleConnection is the gin handler for GET /ws/:sessionId. The bearer
// token travels in the token query parameter because browser WebSocket
// clients cannot set headers; it is checked before the upgrade so a bad
// credential gets a plain 401 instead of a broken socket.
func (s *Server) HandleConnection(c *gin.Context) {
	sessionID := domain.SessionID(c.Param("sessionId"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	claims, err := s.auth.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed",
			"session_id", sessionID,
			"error", err,
		)
		return
	}

	s.serve(conn, sessionID, claims.Username())
}

// serve runs one connection from join to deregistration. Every exit path,
// clean close, read error or slow-consumer disconnect, funnels through the
// single deferred Leave.
func (s *Server) serve(conn *websocket.Conn, sessionID domain.SessionID, username string) {
	if s.cfg.Relay.MaxMessageBytes > 0 {
		conn.SetReadLimit(s.cfg.Relay.MaxMessageBytes)
	}
	conn.SetReadDeadline(time.Now().Add(s.cfg.Relay.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.Relay.PongTimeout))
	})

	peer := newPeer(sessionID, conn, s.cfg.Relay.SendQueueSize, s.cfg.Relay.PingInterval, s.cfg.Relay.WriteTimeout, s.logger)

	if err := s.registry.Join(sessionID, peer); err != nil {
		s.logger.Errorw("failed to join session",
			"session_id", sessionID,
			"username", username,
			"error", err,
		)
		conn.Close()
		return
	}

	defer func() {
		s.registry.Leave(sessionID, peer)
		peer.close()
	}()

	go peer.writePump()

	s.readLoop(conn, peer, username)
}

func (s *Server) readLoop(conn *websocket.Conn, peer *Peer, username string) {
	var limiter *rate.Limiter
	if s.cfg.RateLimiting.Enabled {
		limiter = rate.NewLimiter(
			rate.Limit(s.cfg.RateLimiting.WebSocket.MessagesPerSecond),
			s.cfg.RateLimiting.WebSocket.Burst,
		)
	}

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("peer connection closed unexpectedly",
					"session_id", peer.SessionID(),
					"username", username,
					"error", err,
				)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		if limiter != nil && !limiter.Allow() {
			s.logger.Warnw("peer exceeded message rate limit, dropping payload",
				"session_id", peer.SessionID(),
				"username", username,
			)
			continue
		}

		s.registry.Relay(peer.SessionID(), payload, peer)
	}
}
