package inspect

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeSample is a snapshot of process memory and GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	Goroutines   int    `json:"goroutines"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	LastGCTime   int64  `json:"lastGCTime"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	LastPauseNs  uint64 `json:"lastPauseNs"`
}

func readRuntimeSample() RuntimeSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	lastPause := uint64(0)
	if stats.NumGC > 0 {
		lastPause = stats.PauseNs[(stats.NumGC+255)%256]
	}

	lastGC := int64(0)
	if stats.LastGC > 0 {
		lastGC = time.Unix(0, int64(stats.LastGC)).UnixMilli()
	}

	return RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		LastGCTime:   lastGC,
		PauseTotalNs: stats.PauseTotalNs,
		LastPauseNs:  lastPause,
	}
}

func (s *Server) handleGetRuntime(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   readRuntimeSample(),
	})
}
