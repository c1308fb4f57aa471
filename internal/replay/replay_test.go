package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/track"
)

type stubPositions struct{ z float64 }

func (p *stubPositions) ForwardPosition() (float64, bool) { return p.z, true }

type stubTransform struct{}

func (stubTransform) SetPosition(core.Vec3) {}
func (stubTransform) SetScale(core.Vec3) {}
func (stubTransform) ResetRotation() {}

type stubPool struct{}

func (stubPool) Acquire(track.Placeable) track.Transform { return stubTransform{} }

type stubProgress struct{}

func (stubProgress) SetClearedCount(int) {}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func recordRun(t *testing.T, root string, cfg config.TrackConfig) (*Recorder, []track.Segment) {
	t.Helper()
	rec, err := NewRecorder(root, 42, "cruise", cfg, fixedClock)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	var segments []track.Segment
	positions := &stubPositions{}
	s, err := track.NewScheduler(cfg, positions, stubPool{}, stubProgress{},
		track.WithSeed(42),
		track.WithObserver(rec),
		track.WithObserver(track.ObserverFunc(func(seg track.Segment) { segments = append(segments, seg) })),
	)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	s.Start()
	positions.z = 75 * 40
	s.Tick()

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return rec, segments
}

func TestRecordAndLoad(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	cfg.Coins.Enabled = true
	rec, segments := recordRun(t, t.TempDir(), cfg)

	if filepath.Base(rec.Directory()) != "run-42-20250301T120000Z" {
		t.Errorf("Directory() = %q", rec.Directory())
	}

	bundle, err := Load(rec.Directory())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if bundle.Manifest.Seed != 42 || bundle.Manifest.Driver != "cruise" {
		t.Errorf("Manifest = %+v", bundle.Manifest)
	}
	if bundle.Manifest.Segments != len(segments) {
		t.Errorf("Manifest.Segments = %d, expected %d", bundle.Manifest.Segments, len(segments))
	}
	if len(bundle.Segments) != len(segments) {
		t.Fatalf("loaded %d segments, expected %d", len(bundle.Segments), len(segments))
	}

	placements := 0
	for i, seg := range segments {
		got := bundle.Segments[i]
		if got.Index != seg.Index || got.Kind != seg.Kind.String() || got.Level != int(seg.Level) {
			t.Errorf("segment %d = %+v, expected %s at level %d", i, got, seg.Kind, seg.Level)
		}
		if got.Position != [3]float64{seg.Position.X, seg.Position.Y, seg.Position.Z} {
			t.Errorf("segment %d position = %v, expected %v", i, got.Position, seg.Position)
		}
		if (got.Tower != nil) != (seg.Tower != nil) {
			t.Errorf("segment %d tower presence mismatch", i)
		} else if seg.Tower != nil && len(got.Tower.Slots) != len(seg.Tower.Slots) {
			t.Errorf("segment %d has %d slots, expected %d", i, len(got.Tower.Slots), len(seg.Tower.Slots))
		}

		for _, p := range seg.Placements {
			lp := bundle.Placements[placements]
			if lp.Segment != seg.Index || lp.Kind != p.Kind || lp.Position != p.Position || lp.Scale != p.Scale || lp.ResetRotation != p.ResetRotation {
				t.Fatalf("placement %d = %+v, expected %+v", placements, lp, p)
			}
			placements++
		}
	}
	if len(bundle.Placements) != placements {
		t.Errorf("loaded %d placements, expected %d", len(bundle.Placements), placements)
	}
}

func TestLoadFromManifestPath(t *testing.T) {
	rec, _ := recordRun(t, t.TempDir(), config.DefaultTrackConfig())

	if _, err := Load(filepath.Join(rec.Directory(), ManifestFile)); err != nil {
		t.Errorf("Load(manifest) error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load(\"\") should fail")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Load(missing) should fail")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`{"version": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load() with unsupported version should fail")
	}
}

func TestSummarize(t *testing.T) {
	rec, segments := recordRun(t, t.TempDir(), config.DefaultTrackConfig())
	bundle, err := Load(rec.Directory())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	sum := Summarize(bundle)
	if sum.Segments != len(segments) {
		t.Errorf("Segments = %d, expected %d", sum.Segments, len(segments))
	}
	if sum.Kinds["start"] != 1 {
		t.Errorf("start segments = %d, expected 1", sum.Kinds["start"])
	}
	if sum.Kinds["checkpoint"] != sum.Kinds["transition"] {
		t.Errorf("checkpoints = %d, transitions = %d", sum.Kinds["checkpoint"], sum.Kinds["transition"])
	}
	if sum.Elevation != 5*float64(sum.Kinds["transition"]) {
		t.Errorf("Elevation = %f for %d transitions", sum.Elevation, sum.Kinds["transition"])
	}
	towers := 0
	for _, n := range sum.Towers {
		towers += n
	}
	if towers != sum.Kinds["tower"] {
		t.Errorf("tower histogram totals %d, expected %d", towers, sum.Kinds["tower"])
	}
	if sum.MaxLevel != 7 {
		t.Errorf("MaxLevel = %d, expected 7", sum.MaxLevel)
	}
	if sum.Objects[track.PlaceTransitionRoad] != sum.Kinds["transition"] {
		t.Errorf("transition roads = %d, expected %d", sum.Objects[track.PlaceTransitionRoad], sum.Kinds["transition"])
	}
}

func TestRecorderCloseTwice(t *testing.T) {
	rec, _ := recordRun(t, t.TempDir(), config.DefaultTrackConfig())
	if err := rec.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	// Segments after close are dropped.
	rec.SegmentSpawned(track.Segment{Index: 99})
	if err := rec.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestNewRecorderRequiresRoot(t *testing.T) {
	if _, err := NewRecorder("", 1, "cruise", config.DefaultTrackConfig(), nil); err == nil {
		t.Error("NewRecorder(\"\") should fail")
	}
}

func TestRecorderDiscard(t *testing.T) {
	root := t.TempDir()
	rec, err := NewRecorder(root, 7, "cruise", config.DefaultTrackConfig(), fixedClock)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	if err := rec.Discard(); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if _, err := os.Stat(rec.Directory()); !os.IsNotExist(err) {
		t.Errorf("bundle directory still exists after Discard(), stat error = %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root has %d entries after Discard(), expected 0", len(entries))
	}

	// Segments after discard are dropped.
	rec.SegmentSpawned(track.Segment{Index: 1})
	if err := rec.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestRecorderDiscardAfterClose(t *testing.T) {
	rec, _ := recordRun(t, t.TempDir(), config.DefaultTrackConfig())
	if err := rec.Discard(); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(rec.Directory(), ManifestFile)); !os.IsNotExist(err) {
		t.Errorf("manifest still exists after Discard(), stat error = %v", err)
	}
}
