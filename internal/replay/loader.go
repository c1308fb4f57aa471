package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/track"
)

// PlacementRecord is one decoded placement.
type PlacementRecord struct {
	Segment       int
	Kind          track.Placeable
	Position      core.Vec3
	Scale         core.Vec3
	ResetRotation bool
}

// Bundle is a fully loaded recording.
type Bundle struct {
	Manifest   Manifest
	Segments   []SegmentRecord
	Placements []PlacementRecord
}

// Load reads a bundle from its directory or its manifest path.
func Load(path string) (Bundle, error) {
	if path == "" {
		return Bundle{}, fmt.Errorf("replay: path is required")
	}

	manifestPath := path
	info, err := os.Stat(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("replay: %w", err)
	}
	if info.IsDir() {
		manifestPath = filepath.Join(path, ManifestFile)
	}
	dir := filepath.Dir(manifestPath)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Bundle{}, fmt.Errorf("replay: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Bundle{}, fmt.Errorf("replay: manifest: %w", err)
	}
	if manifest.Version != ManifestVersion {
		return Bundle{}, fmt.Errorf("replay: unsupported manifest version %d", manifest.Version)
	}

	segments, err := loadSegments(filepath.Join(dir, manifest.SegmentsPath))
	if err != nil {
		return Bundle{}, fmt.Errorf("replay: segments: %w", err)
	}
	placements, err := loadPlacements(filepath.Join(dir, manifest.PlacementsPath))
	if err != nil {
		return Bundle{}, fmt.Errorf("replay: placements: %w", err)
	}

	return Bundle{Manifest: manifest, Segments: segments, Placements: placements}, nil
}

func loadSegments(path string) ([]SegmentRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(snappy.NewReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var segments []SegmentRecord
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec SegmentRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		segments = append(segments, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

func loadPlacements(path string) ([]PlacementRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := zstd.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(payload)%placementRecordSize != 0 {
		return nil, fmt.Errorf("truncated stream of %d bytes", len(payload))
	}

	placements := make([]PlacementRecord, 0, len(payload)/placementRecordSize)
	for off := 0; off < len(payload); off += placementRecordSize {
		buf := payload[off : off+placementRecordSize]
		var vals [6]float64
		for i := range vals {
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[6+i*8 : 14+i*8]))
		}
		placements = append(placements, PlacementRecord{
			Segment:       int(binary.LittleEndian.Uint32(buf[0:4])),
			Kind:          track.Placeable(buf[4]),
			ResetRotation: buf[5] == 1,
			Position:      core.V3(vals[0], vals[1], vals[2]),
			Scale:         core.V3(vals[3], vals[4], vals[5]),
		})
	}
	return placements, nil
}
