package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
)

// stubLifters returns a fixed current lifter for one contest
type stubLifters struct {
	contestID string
	lifter    models.CurrentLifter
}

func (s *stubLifters) GetCurrentLifter(ctx context.Context, contestID string) (*models.CurrentLifter, error) {
	if contestID != s.contestID {
		return nil, errors.New("no lifter")
	}
	l := s.lifter
	return &l, nil
}

func testLogger() logger.Logger {
	return logger.NewWithOptions(io.Discard, slog.LevelDebug, logger.FormatText)
}

func newClient(h *Hub, contestID string) *Client {
	return &Client{hub: h, send: make(chan models.WSMessage, sendBuffer), contestID: contestID}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) models.WSMessage {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return models.WSMessage{}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message %q", msg.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	lifters := &stubLifters{}
	hub := New(testLogger(), lifters)

	require.NotNil(t, hub)
	assert.NotNil(t, hub.log)
	assert.Equal(t, lifters, hub.lifters)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := New(testLogger(), nil)
	hub.Start()

	done := make(chan struct{})
	go func() {
		hub.BroadcastResultsUpdated("c1", "2025-01-01T10:00:00Z")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked with no clients")
	}
}

// TestHub_ContestFiltering tests that a client only hears its own contest, and unfiltered clients hear everything
func TestHub_ContestFiltering(t *testing.T) {
	hub := New(testLogger(), nil)
	hub.Start()

	c1 := newClient(hub, "c1")
	c2 := newClient(hub, "c2")
	all := newClient(hub, "")
	for _, c := range []*Client{c1, c2, all} {
		hub.register <- c
	}
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	hub.BroadcastAttemptUpdated("c1", models.Attempt{ID: "a1", LiftKind: "Squat", AttemptNumber: 1, WeightKg: 100})

	msg := receive(t, c1)
	assert.Equal(t, TypeAttemptUpdated, msg.Type)
	payload := msg.Payload.(map[string]interface{})
	assert.Equal(t, "c1", payload["contest_id"])
	assert.Equal(t, "a1", payload["attempt"].(models.Attempt).ID)

	assert.Equal(t, TypeAttemptUpdated, receive(t, all).Type)
	assertSilent(t, c2)

	hub.BroadcastCurrentLifter(models.CurrentLifter{ContestID: "c2", RegistrationID: "r9"})
	msg = receive(t, c2)
	assert.Equal(t, TypeCurrentLifter, msg.Type)
	assert.Equal(t, "r9", msg.Payload.(models.CurrentLifter).RegistrationID)
	assertSilent(t, c1)
}

func TestHub_Unregister(t *testing.T) {
	hub := New(testLogger(), nil)
	hub.Start()

	c := newClient(hub, "c1")
	hub.register <- c
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.unregister <- c
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	_, open := <-c.send
	assert.False(t, open, "send channel is closed on unregister")

	// a second unregister is harmless
	hub.unregister <- c
	assert.Equal(t, 0, hub.ClientCount())
}

// TestHub_FullClientIsDropped tests that a scoreboard that stops reading is disconnected
func TestHub_FullClientIsDropped(t *testing.T) {
	hub := New(testLogger(), nil)
	hub.Start()

	slow := &Client{hub: hub, send: make(chan models.WSMessage, 1), contestID: "c1"}
	hub.register <- slow
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.BroadcastResultsUpdated("c1", "t1")
	hub.BroadcastResultsUpdated("c1", "t2")

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_ServeWs(t *testing.T) {
	lifters := &stubLifters{
		contestID: "c1",
		lifter:    models.CurrentLifter{ContestID: "c1", RegistrationID: "r1", LiftKind: "Bench", AttemptNumber: 2},
	}
	hub := New(testLogger(), lifters)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?contest=c1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// the current lifter arrives first
	var msg struct {
		Type    string               `json:"type"`
		Payload models.CurrentLifter `json:"payload"`
	}
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeCurrentLifter, msg.Type)
	assert.Equal(t, "r1", msg.Payload.RegistrationID)

	hub.BroadcastResultsUpdated("c1", "2025-01-01T10:00:00Z")
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)

	var update models.WSMessage
	require.NoError(t, json.Unmarshal(data, &update))
	assert.Equal(t, TypeResultsUpdated, update.Type)
	assert.Equal(t, "2025-01-01T10:00:00Z", update.Payload.(map[string]interface{})["calculated_at"])

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_ServeWsRejectsPlainHTTP(t *testing.T) {
	hub := New(testLogger(), nil)
	hub.Start()

	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()
	hub.ServeWs(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, 0, hub.ClientCount())
}
