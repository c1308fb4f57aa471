// Package replay records generated tracks to disk and reads them back.
//
// A bundle is a directory holding manifest.json, a snappy-compressed JSON
// lines log of segments and a zstd-compressed stream of fixed-size
// placement records.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/track"
)

const (
	ManifestVersion = 1
	ManifestFile    = "manifest.json"
	SegmentsFile    = "segments.jsonl.sz"
	PlacementsFile  = "placements.bin.zst"

	// index u32, kind u8, reset u8, position 3xf64, scale 3xf64
	placementRecordSize = 4 + 1 + 1 + 6*8
)

// Manifest describes a recorded bundle.
type Manifest struct {
	Version        int     `json:"version"`
	CreatedAt      string  `json:"created_at"`
	Seed           int64   `json:"seed"`
	Driver         string  `json:"driver"`
	SegmentLength  float64 `json:"segment_length"`
	Segments       int     `json:"segments"`
	SegmentsPath   string  `json:"segments_path"`
	PlacementsPath string  `json:"placements_path"`
}

// SegmentRecord is one line of the segment log.
type SegmentRecord struct {
	Index      int          `json:"index"`
	Kind       string       `json:"kind"`
	Level      int          `json:"level"`
	Position   [3]float64   `json:"position"`
	Rise       float64      `json:"rise,omitempty"`
	Tower      *TowerRecord `json:"tower,omitempty"`
	Placements int          `json:"placements"`
}

// TowerRecord is the layout of a tower segment.
type TowerRecord struct {
	Type   int      `json:"type"`
	Height int      `json:"height"`
	Depth  int      `json:"depth"`
	Slots  []string `json:"slots"`
}

// Recorder writes every spawned segment to a bundle. It implements
// track.SegmentObserver; write failures are kept and reported by Err and Close.
type Recorder struct {
	mu          sync.Mutex
	dir         string
	manifest    Manifest
	segFile     *os.File
	segStream   *snappy.Writer
	placeFile   *os.File
	placeStream *zstd.Encoder
	err         error
	closed      bool
}

// NewRecorder creates a bundle directory under root and opens its streams.
func NewRecorder(root string, seed int64, driver string, cfg config.TrackConfig, clock func() time.Time) (*Recorder, error) {
	if root == "" {
		return nil, fmt.Errorf("replay: root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("run-%d-%s", seed, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	segFile, err := os.Create(filepath.Join(dir, SegmentsFile))
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	placeFile, err := os.Create(filepath.Join(dir, PlacementsFile))
	if err != nil {
		segFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}
	placeStream, err := zstd.NewWriter(placeFile)
	if err != nil {
		segFile.Close()
		placeFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}

	r := &Recorder{
		dir: dir,
		manifest: Manifest{
			Version:        ManifestVersion,
			CreatedAt:      created.Format(time.RFC3339Nano),
			Seed:           seed,
			Driver:         driver,
			SegmentLength:  cfg.Spawn.SegmentLength,
			SegmentsPath:   SegmentsFile,
			PlacementsPath: PlacementsFile,
		},
		segFile:     segFile,
		segStream:   snappy.NewBufferedWriter(segFile),
		placeFile:   placeFile,
		placeStream: placeStream,
	}
	if err := r.writeManifest(); err != nil {
		r.closeStreams()
		return nil, err
	}
	return r, nil
}

// Directory returns the bundle directory.
func (r *Recorder) Directory() string {
	return r.dir
}

// SegmentSpawned appends seg to the bundle.
func (r *Recorder) SegmentSpawned(seg track.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil || r.closed {
		return
	}
	if err := r.writeSegment(seg); err != nil {
		r.err = fmt.Errorf("replay: segment %d: %w", seg.Index, err)
		return
	}
	r.manifest.Segments++
}

func (r *Recorder) writeSegment(seg track.Segment) error {
	rec := SegmentRecord{
		Index:      seg.Index,
		Kind:       seg.Kind.String(),
		Level:      int(seg.Level),
		Position:   [3]float64{seg.Position.X, seg.Position.Y, seg.Position.Z},
		Rise:       seg.Rise,
		Placements: len(seg.Placements),
	}
	if seg.Tower != nil {
		slots := make([]string, len(seg.Tower.Slots))
		for i, s := range seg.Tower.Slots {
			slots[i] = s.Variant.String()
		}
		rec.Tower = &TowerRecord{
			Type:   int(seg.Tower.Type),
			Height: seg.Tower.Height,
			Depth:  seg.Tower.Depth,
			Slots:  slots,
		}
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := r.segStream.Write(append(line, '\n')); err != nil {
		return err
	}

	buf := make([]byte, placementRecordSize)
	for _, p := range seg.Placements {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(seg.Index))
		buf[4] = byte(p.Kind)
		buf[5] = 0
		if p.ResetRotation {
			buf[5] = 1
		}
		vals := [6]float64{p.Position.X, p.Position.Y, p.Position.Z, p.Scale.X, p.Scale.Y, p.Scale.Z}
		for i, v := range vals {
			binary.LittleEndian.PutUint64(buf[6+i*8:14+i*8], math.Float64bits(v))
		}
		if _, err := r.placeStream.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close flushes the streams and rewrites the manifest with the final
// segment count. It returns the first error seen while recording or closing.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.err
	}
	r.closed = true

	firstErr := r.err
	if err := r.closeStreams(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.writeManifest(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Discard closes the streams and deletes the bundle directory. Use it when
// the run being recorded never started.
func (r *Recorder) Discard() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.closed = true
		//nolint:errcheck // The files are removed below
		r.closeStreams()
	}
	if err := os.RemoveAll(r.dir); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}

func (r *Recorder) closeStreams() error {
	var firstErr error
	if err := r.segStream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.segFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.placeStream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.placeFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return fmt.Errorf("replay: %w", firstErr)
	}
	return nil
}

func (r *Recorder) writeManifest() error {
	data, err := json.MarshalIndent(r.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}
