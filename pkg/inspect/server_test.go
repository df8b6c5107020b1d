package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tween/pkg/animation"
	tweentest "github.com/go-drift/tween/pkg/testing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gauge struct {
	level float64
}

func serve(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (Response, T) {
	t.Helper()
	var env struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &data))
	}
	return env.Response, data
}

func animate(t *testing.T, sched *animation.Scheduler, g *gauge, stoppable bool) *animation.Task {
	t.Helper()
	opts := animation.DefaultOptions()
	opts.Stoppable = stoppable
	opts.Tag = "needle"
	task, err := animation.Animate(sched, animation.FieldSlot(g, "Level", &g.level), 100.0, opts)
	require.NoError(t, err)
	return task
}

func TestNewKeepsGinMode(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	New(sched)
	assert.Equal(t, gin.TestMode, gin.Mode())
}

func TestHealth(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	rec := serve(t, New(sched), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetScheduler(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	animate(t, sched, &gauge{}, true)

	rec := serve(t, New(sched), http.MethodGet, "/api/scheduler", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp, status := decode[SchedulerStatus](t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.True(t, status.Enabled)
	assert.True(t, status.Ticking)
	assert.Equal(t, 1, status.Active)
	assert.Equal(t, 22.0, status.IntervalMS)
}

func TestPatchScheduler(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	animate(t, sched, &gauge{}, true)
	srv := New(sched)

	rec := serve(t, srv, http.MethodPatch, "/api/scheduler", `{"enabled":false,"interval_ms":40,"parallel":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, status := decode[SchedulerStatus](t, rec)
	assert.False(t, status.Enabled)
	assert.Equal(t, 40.0, status.IntervalMS)
	assert.True(t, status.Parallel)
	assert.False(t, status.DontWait)

	assert.False(t, sched.Enabled())
	assert.Equal(t, 40*time.Millisecond, sched.Interval())
	assert.False(t, ticker.Active())

	rec = serve(t, srv, http.MethodPatch, "/api/scheduler", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ticker.Active())
	assert.True(t, sched.Parallel())
}

func TestPatchScheduler_Invalid(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	srv := New(sched)

	tests := []struct {
		name string
		body string
	}{
		{"zero interval", `{"interval_ms":0}`},
		{"huge interval", `{"interval_ms":600000}`},
		{"wrong type", `{"enabled":"yes"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, srv, http.MethodPatch, "/api/scheduler", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp, _ := decode[json.RawMessage](t, rec)
			assert.Equal(t, "error", resp.Status)
			assert.NotEmpty(t, resp.Error)
		})
	}
	assert.Equal(t, animation.DefaultInterval, sched.Interval())
}

func TestGetAnimations(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	task := animate(t, sched, &gauge{}, true)
	ticker.Fire()

	rec := serve(t, New(sched), http.MethodGet, "/api/animations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, list := decode[AnimationList](t, rec)
	require.Equal(t, 1, list.Total)
	info := list.Animations[0]
	assert.Equal(t, task.ID(), info.ID)
	assert.Equal(t, "*inspect.gauge.Level", info.Slot)
	assert.Equal(t, "running", info.State)
	assert.Equal(t, "needle", info.Tag)
	assert.Equal(t, 1, info.Frames)
}

func TestHaltAnimation(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	srv := New(sched)
	stoppable := animate(t, sched, &gauge{}, true)
	pinned := animate(t, sched, &gauge{}, false)

	rec := serve(t, srv, http.MethodDelete, fmt.Sprintf("/api/animations/%d", stoppable.ID()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, animation.ReasonExplicit, stoppable.Reason())

	rec = serve(t, srv, http.MethodDelete, fmt.Sprintf("/api/animations/%d", stoppable.ID()), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, srv, http.MethodDelete, fmt.Sprintf("/api/animations/%d", pinned.ID()), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, animation.StateRunning, pinned.State())

	rec = serve(t, srv, http.MethodDelete, fmt.Sprintf("/api/animations/%d?force=true", pinned.ID()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, animation.StateHalted, pinned.State())

	rec = serve(t, srv, http.MethodDelete, "/api/animations/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(t, srv, http.MethodDelete, "/api/animations/1?force=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTicks(t *testing.T) {
	sched, ticker := tweentest.NewScheduler(t)
	animate(t, sched, &gauge{}, true)
	ticker.FireN(3)

	rec := serve(t, New(sched), http.MethodGet, "/api/ticks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, tl := decode[animation.TickTimeline](t, rec)
	require.Len(t, tl.Samples, 3)
	assert.Equal(t, 1, tl.Samples[0].Tasks)
	assert.Equal(t, 22.0, tl.ThresholdMs)
}

func TestGetStrategies(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	rec := serve(t, New(sched), http.MethodGet, "/api/strategies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode[struct {
		Types []string `json:"types"`
		Total int      `json:"total"`
	}](t, rec)
	assert.Contains(t, data.Types, "float64")
	assert.Contains(t, data.Types, "graphics.Color")
	assert.Equal(t, len(data.Types), data.Total)
}

func TestGetRuntime(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	rec := serve(t, New(sched), http.MethodGet, "/api/runtime", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, sample := decode[RuntimeSample](t, rec)
	assert.Positive(t, sample.Goroutines)
	assert.Positive(t, sample.HeapAlloc)
}

func TestCORS(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/scheduler", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	New(sched).Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartStop(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	srv := New(sched)

	addr, err := srv.Start("127.0.0.1:0")
	require.NoError(t, err)
	again, err := srv.Start("127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, srv.Stop(ctx))
}

func TestStart_PortInUse(t *testing.T) {
	sched, _ := tweentest.NewScheduler(t)
	first := New(sched)
	addr, err := first.Start("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	_, err = New(sched).Start(addr)
	assert.Error(t, err)
}
