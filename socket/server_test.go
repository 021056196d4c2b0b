package socket

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	socketio "github.com/googollee/go-socket.io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchview/middleware"
	"matchview/models"
)

const secret = "socket-test-secret"

type emitted struct {
	event string
	args  []any
}

// fakeConn records what the hub does to a connection
type fakeConn struct {
	socketio.Conn
	ctx    any
	rooms  []string
	events []emitted
}

func (c *fakeConn) ID() string       { return "conn-1" }
func (c *fakeConn) Context() any     { return c.ctx }
func (c *fakeConn) SetContext(v any) { c.ctx = v }
func (c *fakeConn) Join(room string) { c.rooms = append(c.rooms, room) }
func (c *fakeConn) Emit(event string, v ...any) {
	c.events = append(c.events, emitted{event: event, args: v})
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(middleware.NewTokenParser(secret), nil)
	t.Cleanup(func() { _ = hub.Close() })
	return hub
}

func TestJoin_ValidTokenJoinsUserRoom(t *testing.T) {
	hub := newHub(t)
	conn := &fakeConn{}

	hub.join(conn, signed(t, jwt.MapClaims{"username": "alice", "exp": time.Now().Add(time.Hour).Unix()}))

	assert.Equal(t, []string{"alice"}, conn.rooms)
	sess, ok := conn.ctx.(models.Session)
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Username)
	require.Len(t, conn.events, 1)
	assert.Equal(t, "joined", conn.events[0].event)
}

func TestJoin_InvalidTokenRejected(t *testing.T) {
	hub := newHub(t)
	conn := &fakeConn{}

	hub.join(conn, "not-a-token")

	assert.Empty(t, conn.rooms)
	assert.Nil(t, conn.ctx)
	require.Len(t, conn.events, 1)
	assert.Equal(t, "error", conn.events[0].event)
}

func TestJoin_ForeignSignatureCannotEnterRoom(t *testing.T) {
	claims := jwt.MapClaims{"username": "alice", "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("attacker-key"))
	require.NoError(t, err)

	for name, parser := range map[string]*middleware.TokenParser{
		"configured secret": middleware.NewTokenParser(secret),
		"no secret":         middleware.NewTokenParser(""),
	} {
		t.Run(name, func(t *testing.T) {
			hub := NewHub(parser, nil)
			t.Cleanup(func() { _ = hub.Close() })
			conn := &fakeConn{}
			hub.join(conn, forged)

			assert.Empty(t, conn.rooms)
			assert.Nil(t, conn.ctx)
			require.Len(t, conn.events, 1)
			assert.Equal(t, "error", conn.events[0].event)
		})
	}
}

func TestRefresh_RequiresJoin(t *testing.T) {
	hub := newHub(t)
	var refreshed []string
	hub.OnRefresh(func(username string) { refreshed = append(refreshed, username) })

	anonymous := &fakeConn{}
	hub.refresh(anonymous)
	assert.Empty(t, refreshed)
	assert.Equal(t, "error", anonymous.events[0].event)

	joined := &fakeConn{ctx: models.Session{Username: "bob", Token: "t"}}
	hub.refresh(joined)
	assert.Equal(t, []string{"bob"}, refreshed)
	assert.Equal(t, models.EventPiiChanged, joined.events[0].event)
}

func TestNotify_IgnoresEmptyUsername(t *testing.T) {
	hub := newHub(t)
	assert.NotPanics(t, func() {
		hub.Notify("", models.EventRelationshipsChanged, nil)
		hub.Notify("carol", models.EventRelationshipsChanged, map[string]string{"kind": "favorites"})
	})
}
