package animation

import (
	"fmt"
	"image"
	"slices"
	"time"
)

// TaskInfo is a point-in-time description of a running task, shaped for
// JSON encoding by inspection tools.
type TaskInfo struct {
	ID        uint64    `json:"id"`
	Slot      string    `json:"slot"`
	State     string    `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	Target    string    `json:"target"`
	Last      string    `json:"last"`
	Frames    int       `json:"frames"`
	Stoppable bool      `json:"stoppable"`
	Policy    string    `json:"policy"`
	Tag       string    `json:"tag,omitempty"`
	Started   time.Time `json:"started"`
}

// Info describes t.
func (t *Task) Info() TaskInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := TaskInfo{
		ID:        t.id,
		Slot:      t.key.String(),
		State:     t.state.String(),
		Target:    describe(t.lane.targetValue()),
		Last:      describe(t.lane.lastValue()),
		Frames:    t.frames,
		Stoppable: t.stoppable,
		Policy:    t.policy.String(),
		Started:   t.started,
	}
	if t.reason != ReasonNone {
		info.Reason = t.reason.String()
	}
	if t.tag != nil {
		info.Tag = fmt.Sprint(t.tag)
	}
	return info
}

// Snapshot describes every running task, ordered by ID.
func (s *Scheduler) Snapshot() []TaskInfo {
	s.mu.Lock()
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	infos := make([]TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, t.Info())
	}
	slices.SortFunc(infos, func(a, b TaskInfo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return infos
}

// describe keeps pixel buffers from being dumped byte by byte.
func describe(v any) string {
	if img, ok := v.(*image.RGBA); ok {
		if img == nil {
			return "<nil>"
		}
		return fmt.Sprintf("RGBA%v", img.Rect)
	}
	return fmt.Sprintf("%v", v)
}
