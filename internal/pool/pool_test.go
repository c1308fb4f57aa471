package pool

import (
	"sync"
	"testing"

	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/track"
)

func TestAcquireCreates(t *testing.T) {
	p := New()

	a := p.Acquire(track.PlaceBuilding)
	b := p.Acquire(track.PlaceBuilding)
	a.SetPosition(core.V3(1, 2, 3))
	b.SetScale(core.V3(8, 10, 8))

	stats := p.Stats()
	if stats.Created != 2 || stats.Active != 2 || stats.Free != 0 {
		t.Errorf("Stats() = %+v, expected 2 created and active", stats)
	}
	if stats.ByKind[track.PlaceBuilding] != 2 {
		t.Errorf("active buildings = %d, expected 2", stats.ByKind[track.PlaceBuilding])
	}
}

func TestRecycleAndReuse(t *testing.T) {
	p := New()

	for z := 0.0; z < 300; z += 75 {
		p.Acquire(track.PlaceStraightRoad).SetPosition(core.V3(0, 0, z))
	}
	coin := p.Acquire(track.PlaceCoin)
	coin.SetPosition(core.V3(0, 0, 10))
	coin.ResetRotation()

	if n := p.Recycle(150); n != 3 {
		t.Fatalf("Recycle(150) = %d, expected 3", n)
	}
	if n := p.Recycle(150); n != 0 {
		t.Errorf("second Recycle(150) = %d, expected 0", n)
	}

	// A road comes back from the free list with its state cleared.
	reused := p.Acquire(track.PlaceStraightRoad).(*Object)
	if reused.Uses != 2 {
		t.Errorf("reused object Uses = %d, expected 2", reused.Uses)
	}
	if !reused.Position.IsZero() {
		t.Errorf("reused object position = %v, expected zero", reused.Position)
	}

	// Coins come back from their own free list.
	reusedCoin := p.Acquire(track.PlaceCoin).(*Object)
	if reusedCoin.RotationReset {
		t.Error("reused coin should have its rotation flag cleared")
	}

	stats := p.Stats()
	if stats.Created != 5 {
		t.Errorf("Created = %d, expected 5", stats.Created)
	}
	if stats.Reused != 2 || stats.Recycled != 3 {
		t.Errorf("Reused = %d, Recycled = %d, expected 2 and 3", stats.Reused, stats.Recycled)
	}
	if stats.Free != 1 {
		t.Errorf("Free = %d, expected 1", stats.Free)
	}
}

func TestActiveOrdered(t *testing.T) {
	p := New()
	for _, z := range []float64{150, 0, 75} {
		p.Acquire(track.PlaceStraightRoad).SetPosition(core.V3(0, 0, z))
	}
	p.Recycle(50)

	active := p.Active()
	if len(active) != 2 {
		t.Fatalf("Active() has %d objects, expected 2", len(active))
	}
	if active[0].Position.Z != 75 || active[1].Position.Z != 150 {
		t.Errorf("Active() order = %v, %v", active[0].Position.Z, active[1].Position.Z)
	}
}

func TestReset(t *testing.T) {
	p := New()
	p.Acquire(track.PlaceArch1)
	p.Reset()

	if stats := p.Stats(); stats.Created != 0 || stats.Active != 0 {
		t.Errorf("Stats() after Reset() = %+v", stats)
	}
}

func TestConcurrentAcquire(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Acquire(track.PlaceArch3)
			}
		}()
	}
	wg.Wait()

	if got := p.Stats().Active; got != 800 {
		t.Errorf("Active = %d, expected 800", got)
	}
}
