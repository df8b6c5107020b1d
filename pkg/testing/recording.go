package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/go-drift/tween/pkg/animation"
)

// UpdateEnv names the environment variable that rewrites golden files
// instead of comparing against them.
const UpdateEnv = "TWEEN_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Probe samples one value after every tick.
type Probe struct {
	Name string
	Read func() any
}

// ProbeSlot samples a slot, named after its member.
func ProbeSlot[T any](slot animation.Slot[T]) Probe {
	return Probe{Name: slot.Member, Read: func() any { return slot.Get() }}
}

// Frame holds the probed values after one tick. Tick 0 is the state before
// the first tick.
type Frame struct {
	Tick   int               `json:"tick"`
	Values map[string]string `json:"values"`
}

// Recording is a frame-by-frame capture of animated values.
type Recording struct {
	Frames []Frame `json:"frames"`
}

// Record samples probes, then ticks until the scheduler goes idle or limit
// ticks have run, sampling after each.
func Record(ticker *ManualTicker, limit int, probes ...Probe) *Recording {
	rec := &Recording{}
	rec.sample(0, probes)
	for tick := 1; tick <= limit && ticker.Fire(); tick++ {
		rec.sample(tick, probes)
	}
	return rec
}

func (r *Recording) sample(tick int, probes []Probe) {
	f := Frame{Tick: tick, Values: make(map[string]string, len(probes))}
	for _, p := range probes {
		f.Values[p.Name] = formatValue(p.Read())
	}
	r.Frames = append(r.Frames, f)
}

// Final returns the last recorded frame.
func (r *Recording) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// MatchesFile compares this recording against a golden file. On mismatch it
// reports a diff and instructions for updating. When TWEEN_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (r *Recording) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := r.UpdateFile(path); err != nil {
			t.Fatalf("failed to update recording: %v", err)
		}
		return
	}

	expected, err := loadRecording(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("recording file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load recording: %v", err)
		return
	}

	if diff := r.Diff(expected); diff != "" {
		t.Errorf("recording mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this recording to path, creating directories as needed.
func (r *Recording) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalRecording(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff from other to r, or "" if they are equal.
func (r *Recording) Diff(other *Recording) string {
	a, _ := marshalRecording(r)
	b, _ := marshalRecording(other)
	if bytes.Equal(a, b) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(b)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func loadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("invalid recording JSON: %w", err)
	}
	return &rec, nil
}

func marshalRecording(r *Recording) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
