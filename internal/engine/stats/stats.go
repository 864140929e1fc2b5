// Package stats records per-frame engine statistics as JSON lines, so demo
// runs can be inspected or plotted after the fact.
package stats

import (
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Frame is one frame's worth of counters.
type Frame struct {
	Frame        int     `json:"frame"`
	Quads        int     `json:"quads"`
	Drawable     int     `json:"drawable"`
	CameraAlt    float64 `json:"camera_alt"`
	TilesCreated int     `json:"tiles_created"`
	TilesEvicted int     `json:"tiles_evicted"`
	TilesUsed    int     `json:"tiles_used"`
	TilesUnused  int     `json:"tiles_unused"`
	SlotsFree    int     `json:"slots_free"`
	FrameMillis  float64 `json:"frame_ms"`
}

// Recorder appends frames to a JSONL file.
type Recorder struct {
	f *os.File
}

// NewRecorder opens (truncating) the stats file at path.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Recorder{f: f}, nil
}

// Record appends one frame line.
func (r *Recorder) Record(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = r.f.Write(data)
	return err
}

// Close flushes and closes the stats file.
func (r *Recorder) Close() error {
	return r.f.Close()
}
