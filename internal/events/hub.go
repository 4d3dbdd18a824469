// Package events streams generation progress to websocket subscribers.
package events

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Step names a stage of a long-running generation job.
type Step string

const (
	StepAnalyzing    Step = "analyzing"
	StepBranding     Step = "branding"
	StepGenerating   Step = "generating"
	StepCreatingDeck Step = "creating_deck"
	StepStyling      Step = "styling"
	StepSaving       Step = "saving"
	StepDone         Step = "done"
	StepFailed       Step = "failed"
)

var stepProgress = map[Step]int{
	StepAnalyzing:    10,
	StepBranding:     30,
	StepGenerating:   40,
	StepCreatingDeck: 50,
	StepStyling:      70,
	StepSaving:       90,
	StepDone:         100,
	StepFailed:       100,
}

// Event is one progress update.
type Event struct {
	JobID    string    `json:"jobId"`
	Step     Step      `json:"step"`
	Progress int       `json:"progress"`
	Message  string    `json:"message,omitempty"`
	Data     any       `json:"data,omitempty"`
	Time     time.Time `json:"time"`
}

// Publisher receives progress events.
type Publisher interface {
	Publish(Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

type client struct {
	conn *websocket.Conn
	job  string
	mu   sync.Mutex
}

// Hub fans events out to websocket clients. A client that connects with
// ?job=<id> only receives that job's events; others receive everything.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*client]struct{}
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		writeTimeout: 5 * time.Second,
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and holds the connection until the peer
// goes away. Inbound messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, job: r.URL.Query().Get("job")}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Debug("progress_subscribed", "job", c.job)

	defer h.remove(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends e to every matching client. Clients whose write fails are
// dropped.
func (h *Hub) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.Progress == 0 {
		e.Progress = stepProgress[e.Step]
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c.job == "" || c.job == e.JobID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		err := c.conn.WriteJSON(e)
		c.mu.Unlock()
		if err != nil {
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
	return nil
}

// Job publishes the steps of one generation run.
type Job struct {
	ID  string
	pub Publisher
}

// MaxJobIDLen bounds caller-chosen job ids.
const MaxJobIDLen = 128

// NewJob starts a job. An empty or oversized id is replaced with a fresh
// uuid. A nil publisher discards events.
func NewJob(pub Publisher, id string) *Job {
	if pub == nil {
		pub = Discard
	}
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxJobIDLen {
		id = uuid.NewString()
	}
	return &Job{ID: id, pub: pub}
}

// Step reports that the job entered step.
func (j *Job) Step(step Step, message string) {
	j.pub.Publish(Event{JobID: j.ID, Step: step, Message: message})
}

// Done reports success with an optional payload.
func (j *Job) Done(data any) {
	j.pub.Publish(Event{JobID: j.ID, Step: StepDone, Data: data})
}

// Fail reports a failure.
func (j *Job) Fail(err error) {
	j.pub.Publish(Event{JobID: j.ID, Step: StepFailed, Message: err.Error()})
}
