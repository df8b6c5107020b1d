package inspect

import "github.com/go-drift/tween/pkg/animation"

// Response is the envelope of every API reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// SchedulerStatus describes the scheduler's settings and load.
type SchedulerStatus struct {
	Enabled    bool    `json:"enabled"`
	IntervalMS float64 `json:"interval_ms"`
	Parallel   bool    `json:"parallel"`
	DontWait   bool    `json:"dont_wait"`
	Ticking    bool    `json:"ticking"`
	Disposed   bool    `json:"disposed"`
	Active     int     `json:"active"`
	Uptime     string  `json:"uptime"`
}

// SchedulerPatch changes scheduler settings. Absent fields are left alone.
type SchedulerPatch struct {
	Enabled    *bool `json:"enabled"`
	IntervalMS *int  `json:"interval_ms" binding:"omitempty,min=1,max=10000"`
	Parallel   *bool `json:"parallel"`
	DontWait   *bool `json:"dont_wait"`
}

// HaltQuery holds the query parameters of a halt request.
type HaltQuery struct {
	Force bool `form:"force"`
}

// AnimationList is the reply to GET /api/animations.
type AnimationList struct {
	Animations []animation.TaskInfo `json:"animations"`
	Total      int                  `json:"total"`
}
