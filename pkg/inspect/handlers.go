package inspect

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/transition"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status() SchedulerStatus {
	return SchedulerStatus{
		Enabled:    s.sched.Enabled(),
		IntervalMS: float64(s.sched.Interval()) / float64(time.Millisecond),
		Parallel:   s.sched.Parallel(),
		DontWait:   s.sched.DontWait(),
		Ticking:    s.sched.Ticking(),
		Disposed:   s.sched.Disposed(),
		Active:     s.sched.Len(),
		Uptime:     animation.Now().Sub(s.startTime).Round(time.Second).String(),
	}
}

func (s *Server) handleGetScheduler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   s.status(),
	})
}

func (s *Server) handlePatchScheduler(c *gin.Context) {
	var req SchedulerPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Status: "error",
			Error:  "invalid scheduler settings: " + err.Error(),
		})
		return
	}

	if req.IntervalMS != nil {
		s.sched.SetInterval(time.Duration(*req.IntervalMS) * time.Millisecond)
	}
	if req.Parallel != nil {
		s.sched.SetParallel(*req.Parallel)
	}
	if req.DontWait != nil {
		s.sched.SetDontWait(*req.DontWait)
	}
	// Last, so re-enabling starts ticking with the new settings.
	if req.Enabled != nil {
		s.sched.SetEnabled(*req.Enabled)
	}

	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: "scheduler updated",
		Data:    s.status(),
	})
}

func (s *Server) handleGetAnimations(c *gin.Context) {
	infos := s.sched.Snapshot()
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data: AnimationList{
			Animations: infos,
			Total:      len(infos),
		},
	})
}

func (s *Server) handleHaltAnimation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Status: "error",
			Error:  "invalid animation id: " + c.Param("id"),
		})
		return
	}
	var q HaltQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Status: "error",
			Error:  "invalid query: " + err.Error(),
		})
		return
	}

	if !s.sched.HaltID(id, q.Force) {
		c.JSON(http.StatusNotFound, Response{
			Status: "error",
			Error:  "no stoppable animation with id " + strconv.FormatUint(id, 10),
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: "animation halted",
	})
}

func (s *Server) handleGetTicks(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   s.sched.Timeline(),
	})
}

func (s *Server) handleGetStrategies(c *gin.Context) {
	types := transition.Registered()
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   gin.H{"types": types, "total": len(types)},
	})
}
