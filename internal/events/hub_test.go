package events

import (
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Len() == n }, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e Event
	require.NoError(t, conn.ReadJSON(&e))
	return e
}

func TestHub_FiltersByJob(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	all := dial(t, srv, "")
	jobA := dial(t, srv, "?job=a")
	waitForClients(t, hub, 2)

	hub.Publish(Event{JobID: "b", Step: StepBranding})
	hub.Publish(Event{JobID: "a", Step: StepStyling, Message: "applying colors"})

	first := readEvent(t, all)
	assert.Equal(t, "b", first.JobID)
	assert.Equal(t, 30, first.Progress)
	assert.False(t, first.Time.IsZero())
	assert.Equal(t, "a", readEvent(t, all).JobID)

	got := readEvent(t, jobA)
	assert.Equal(t, "a", got.JobID)
	assert.Equal(t, StepStyling, got.Step)
	assert.Equal(t, "applying colors", got.Message)
}

func TestHub_DropsClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, "")
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, "")
	waitForClients(t, hub, 1)

	require.NoError(t, hub.Close())
	assert.Equal(t, 0, hub.Len())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestJob(t *testing.T) {
	rec := &recorder{}
	job := NewJob(rec, "")
	require.NotEmpty(t, job.ID)

	job.Step(StepAnalyzing, "loading page")
	job.Fail(errors.New("boom"))
	job.Done(map[string]string{"id": "x"})

	require.Len(t, rec.events, 3)
	for _, e := range rec.events {
		assert.Equal(t, job.ID, e.JobID)
	}
	assert.Equal(t, StepFailed, rec.events[1].Step)
	assert.Equal(t, "boom", rec.events[1].Message)
	assert.Equal(t, StepDone, rec.events[2].Step)

	// nil publisher is safe
	NewJob(nil, "").Step(StepSaving, "")
}

func TestNewJobID(t *testing.T) {
	assert.Equal(t, "client-42", NewJob(nil, " client-42 ").ID)

	generated := NewJob(nil, "   ").ID
	assert.Len(t, generated, 36)

	long := NewJob(nil, strings.Repeat("x", MaxJobIDLen+1)).ID
	assert.Len(t, long, 36)
	assert.NotEqual(t, generated, long)
}
