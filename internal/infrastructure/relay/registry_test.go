package relay

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"drawnet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry() *Registry {
	return NewRegistry(nil, zap.NewNop().Sugar())
}

func newTestPeer(sessionID domain.SessionID) (*Peer, *fakeConn) {
	conn := &fakeConn{}
	return newPeer(sessionID, conn, 16, time.Minute, time.Second, zap.NewNop().Sugar()), conn
}

func drain(p *Peer) [][]byte {
	var payloads [][]byte
	for {
		select {
		case payload := <-p.send:
			payloads = append(payloads, payload)
		default:
			return payloads
		}
	}
}

func TestJoinCreatesSessionLazily(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, 0, r.SessionCount())

	p, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", p))

	assert.Equal(t, 1, r.SessionCount())
	assert.Equal(t, 1, r.PeerCount("SESSION1"))
}

func TestJoinSamePeerTwice(t *testing.T) {
	r := testRegistry()
	p, _ := newTestPeer("SESSION1")

	require.NoError(t, r.Join("SESSION1", p))
	err := r.Join("SESSION1", p)

	assert.ErrorIs(t, err, domain.ErrPeerAlreadyJoined)
	assert.Equal(t, 1, r.PeerCount("SESSION1"))
}

func TestLeaveRemovesPeerAndPrunesSession(t *testing.T) {
	r := testRegistry()
	p1, _ := newTestPeer("SESSION1")
	p2, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", p1))
	require.NoError(t, r.Join("SESSION1", p2))

	r.Leave("SESSION1", p1)
	assert.Equal(t, 1, r.PeerCount("SESSION1"))
	assert.Equal(t, 1, r.SessionCount())

	r.Leave("SESSION1", p2)
	assert.Equal(t, 0, r.PeerCount("SESSION1"))
	assert.Equal(t, 0, r.SessionCount())
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := testRegistry()
	p, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", p))

	r.Leave("SESSION1", p)
	r.Leave("SESSION1", p)
	r.Leave("UNKNOWN", p)

	assert.Equal(t, 0, r.SessionCount())
}

func TestRelayExcludesSender(t *testing.T) {
	r := testRegistry()
	sender, _ := newTestPeer("SESSION1")
	other1, _ := newTestPeer("SESSION1")
	other2, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", sender))
	require.NoError(t, r.Join("SESSION1", other1))
	require.NoError(t, r.Join("SESSION1", other2))

	delivered := r.Relay("SESSION1", []byte("stroke"), sender)

	assert.Equal(t, 2, delivered)
	assert.Empty(t, drain(sender))
	assert.Len(t, drain(other1), 1)
	assert.Len(t, drain(other2), 1)
}

func TestRelayIsolatedToSession(t *testing.T) {
	r := testRegistry()
	sender, _ := newTestPeer("SESSION1")
	sameSession, _ := newTestPeer("SESSION1")
	otherSession, _ := newTestPeer("SESSION2")
	require.NoError(t, r.Join("SESSION1", sender))
	require.NoError(t, r.Join("SESSION1", sameSession))
	require.NoError(t, r.Join("SESSION2", otherSession))

	delivered := r.Relay("SESSION1", []byte("stroke"), sender)

	assert.Equal(t, 1, delivered)
	assert.Len(t, drain(sameSession), 1)
	assert.Empty(t, drain(otherSession))
}

func TestRelayToEmptyOrSingletonSession(t *testing.T) {
	r := testRegistry()

	lonely, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", lonely))

	assert.Equal(t, 0, r.Relay("SESSION1", []byte("stroke"), lonely))
	assert.Equal(t, 0, r.Relay("NOSUCH", []byte("stroke"), lonely))
}

func TestRelayPreservesOrderPerRecipient(t *testing.T) {
	r := testRegistry()
	sender, _ := newTestPeer("SESSION1")
	recipient, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", sender))
	require.NoError(t, r.Join("SESSION1", recipient))

	r.Relay("SESSION1", []byte("m1"), sender)
	r.Relay("SESSION1", []byte("m2"), sender)
	r.Relay("SESSION1", []byte("m3"), sender)

	payloads := drain(recipient)
	require.Len(t, payloads, 3)
	assert.Equal(t, []byte("m1"), payloads[0])
	assert.Equal(t, []byte("m2"), payloads[1])
	assert.Equal(t, []byte("m3"), payloads[2])
}

func TestRelaySkipsSlowConsumer(t *testing.T) {
	r := testRegistry()
	sender, _ := newTestPeer("SESSION1")
	require.NoError(t, r.Join("SESSION1", sender))

	slowConn := &fakeConn{}
	slow := newPeer("SESSION1", slowConn, 1, time.Minute, time.Second, zap.NewNop().Sugar())
	require.NoError(t, r.Join("SESSION1", slow))

	// First payload fills the queue, the second overflows and drops the peer.
	assert.Equal(t, 1, r.Relay("SESSION1", []byte("a"), sender))
	assert.Equal(t, 0, r.Relay("SESSION1", []byte("b"), sender))
	assert.True(t, slowConn.isClosed())
}

func TestConcurrentJoinLeave(t *testing.T) {
	r := testRegistry()
	const peersPerSession = 50

	var wg sync.WaitGroup
	for i := 0; i < peersPerSession; i++ {
		for _, session := range []domain.SessionID{"SESSION1", "SESSION2"} {
			wg.Add(1)
			go func(session domain.SessionID, i int) {
				defer wg.Done()
				p, _ := newTestPeer(session)
				assert.NoError(t, r.Join(session, p))
				r.Relay(session, []byte(fmt.Sprintf("payload-%d", i)), p)
				r.Leave(session, p)
			}(session, i)
		}
	}
	wg.Wait()

	assert.Equal(t, 0, r.SessionCount())
	assert.Equal(t, 0, r.TotalPeers())
}
