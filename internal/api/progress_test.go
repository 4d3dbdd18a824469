package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/slidegen/internal/events"
)

// subscribe opens a progress socket for one job on a live server.
func (e *testEnv) subscribe(t *testing.T, job string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(e.server.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress?job=" + job
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return e.progress.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

// readSteps reads events until the job finishes.
func readSteps(t *testing.T, conn *websocket.Conn, job string) []events.Step {
	t.Helper()
	var steps []events.Step
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev events.Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, job, ev.JobID)
		steps = append(steps, ev.Step)
		if ev.Step == events.StepDone || ev.Step == events.StepFailed {
			return steps
		}
	}
}

func TestGenerateTemplateProgressForChosenJob(t *testing.T) {
	env := newTestEnv(t, true)
	conn := env.subscribe(t, "brand-run-1")

	rec := env.do(t, http.MethodPost, "/generate-template", `{"url":"https://acme.test","jobId":"brand-run-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "brand-run-1", decode(t, rec)["jobId"])

	assert.Equal(t, []events.Step{
		events.StepAnalyzing,
		events.StepBranding,
		events.StepCreatingDeck,
		events.StepStyling,
		events.StepSaving,
		events.StepDone,
	}, readSteps(t, conn, "brand-run-1"))
}

func TestCreatePresentationProgressFromHeader(t *testing.T) {
	env := newTestEnv(t, true)
	conn := env.subscribe(t, "deck-run")

	req := httptest.NewRequest(http.MethodPost, "/create-presentation",
		strings.NewReader(`{"title":"Demo","slides":`+twoSlides+`}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(JobHeader, "deck-run")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "deck-run", decode(t, rec)["jobId"])

	assert.Equal(t, []events.Step{
		events.StepCreatingDeck,
		events.StepStyling,
		events.StepDone,
	}, readSteps(t, conn, "deck-run"))
}

func TestGenerateOutlineProgress(t *testing.T) {
	env := newTestEnv(t, false)
	conn := env.subscribe(t, "outline-7")

	rec := env.do(t, http.MethodPost, "/generate-outline", `{"topic":"Go","slideCount":3,"jobId":"outline-7"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []events.Step{events.StepGenerating, events.StepDone}, readSteps(t, conn, "outline-7"))
}

func TestFailedJobReportsFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.analyzer.err = errBoom
	conn := env.subscribe(t, "broken")

	rec := env.do(t, http.MethodPost, "/generate-template", `{"url":"https://acme.test","jobId":"broken"}`)
	require.NotEqual(t, http.StatusOK, rec.Code)

	assert.Equal(t, []events.Step{events.StepAnalyzing, events.StepFailed}, readSteps(t, conn, "broken"))
}
