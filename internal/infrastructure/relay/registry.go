package relay

import (
	"sync"

	"drawnet/internal/core/domain"
	"drawnet/internal/infrastructure/monitoring"

	"go.uber.org/zap"
)

// Registry owns the mapping from session identifier to the set of peers
// currently connected to that session. It is the only shared mutable state in
// the relay; all access goes through Join, Leave and Relay.
//
// Membership sets are created lazily on first Join and pruned when the last
// peer leaves. The structural lock is held only for membership mutation and
// snapshotting, never for payload delivery.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID][]*Peer

	metrics *monitoring.Collector
	logger  *zap.SugaredLogger
}

func NewRegistry(metrics *monitoring.Collector, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID][]*Peer),
		metrics:  metrics,
		logger:   logger,
	}
}

// Join registers a peer under a session, creating the membership set if this
// is the session's first connection. A peer already present is not added
// twice.
func (r *Registry) Join(sessionID domain.SessionID, p *Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, member := range r.sessions[sessionID] {
		if member == p {
			return domain.ErrPeerAlreadyJoined
		}
	}

	r.sessions[sessionID] = append(r.sessions[sessionID], p)
	r.metrics.PeerJoined(string(sessionID), len(r.sessions))

	r.logger.Infow("peer joined session",
		"session_id", sessionID,
		"peers", len(r.sessions[sessionID]),
	)
	return nil
}

// Leave removes a peer from a session's membership set. Removing a peer that
// is not present, or from a session that was never joined, is a no-op; Leave
// is safe to call from any failure path.
func (r *Registry) Leave(sessionID domain.SessionID, p *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.sessions[sessionID]
	if !ok {
		return
	}

	for i, member := range members {
		if member == p {
			r.sessions[sessionID] = append(members[:i], members[i+1:]...)
			break
		}
	}

	if len(r.sessions[sessionID]) == 0 {
		delete(r.sessions, sessionID)
		r.metrics.SessionClosed(string(sessionID))
	}
	r.metrics.PeerLeft(string(sessionID), len(r.sessions))

	r.logger.Infow("peer left session",
		"session_id", sessionID,
		"peers", len(r.sessions[sessionID]),
	)
}

// Relay delivers payload to every peer in the session except sender. Delivery
// is a per-peer non-blocking enqueue: a stuck recipient is disconnected
// instead of delaying the others, and each healthy recipient receives
// payloads in the order they were relayed. Returns the number of peers the
// payload was handed to.
func (r *Registry) Relay(sessionID domain.SessionID, payload []byte, sender *Peer) int {
	r.mu.RLock()
	recipients := make([]*Peer, 0, len(r.sessions[sessionID]))
	for _, member := range r.sessions[sessionID] {
		if member != sender {
			recipients = append(recipients, member)
		}
	}
	r.mu.RUnlock()

	delivered := 0
	for _, member := range recipients {
		if err := member.enqueue(payload); err == nil {
			delivered++
		}
	}

	r.metrics.PayloadRelayed(string(sessionID), delivered)
	return delivered
}

// SessionCount reports how many sessions currently have at least one peer.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PeerCount reports the number of peers joined to a session.
func (r *Registry) PeerCount(sessionID domain.SessionID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[sessionID])
}

// TotalPeers reports the number of connected peers across all sessions.
func (r *Registry) TotalPeers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, members := range r.sessions {
		total += len(members)
	}
	return total
}
