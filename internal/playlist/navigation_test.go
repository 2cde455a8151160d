package playlist

import (
	"testing"
)

func TestEmptyPlaylistNavigation(t *testing.T) {
	p := New("Empty")
	if p.Next() != nil {
		t.Error("Next() on empty playlist should be nil")
	}
	if p.Previous() != nil {
		t.Error("Previous() on empty playlist should be nil")
	}
	if p.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", p.CurrentIndex())
	}
	if p.Current() != nil {
		t.Error("Current() on empty playlist should be nil")
	}
	if p.SetCurrentIndex(0) {
		t.Error("SetCurrentIndex(0) on empty playlist should fail")
	}
}

func TestNextWithoutRepeatSignalsEndOnce(t *testing.T) {
	for _, shuffle := range []bool{false, true} {
		tracks := makeTracks(4)
		p := New("Mix", WithTracks(tracks...), WithSeed(42))
		p.SetShuffle(shuffle)

		ends := 0
		for i := 0; i < 3; i++ {
			if p.Next() == nil {
				ends++
			}
		}
		if ends != 0 {
			t.Fatalf("shuffle=%v: Next() returned nil before the end", shuffle)
		}
		if p.CurrentIndex() != 3 {
			t.Fatalf("shuffle=%v: CurrentIndex() = %d, want 3", shuffle, p.CurrentIndex())
		}

		if p.Next() != nil {
			t.Errorf("shuffle=%v: Next() at the end should return nil", shuffle)
		}
		if p.CurrentIndex() != 3 {
			t.Errorf("shuffle=%v: CurrentIndex() = %d after end, want 3", shuffle, p.CurrentIndex())
		}

		// further calls keep the cursor on the last index
		p.Next()
		if p.CurrentIndex() != 3 {
			t.Errorf("shuffle=%v: CurrentIndex() = %d after extra Next, want 3", shuffle, p.CurrentIndex())
		}

		// previous behaves naturally after the end signal
		if got := p.Previous(); got == nil {
			t.Errorf("shuffle=%v: Previous() after end = nil", shuffle)
		}
		if p.CurrentIndex() != 2 {
			t.Errorf("shuffle=%v: CurrentIndex() = %d after Previous, want 2", shuffle, p.CurrentIndex())
		}
	}
}

func TestNextWithRepeatWrapsExactly(t *testing.T) {
	for _, shuffle := range []bool{false, true} {
		p := New("Mix", WithTracks(makeTracks(5)...), WithSeed(3))
		p.SetShuffle(shuffle)
		p.SetRepeat(true)
		p.SetCurrentIndex(2)

		start := p.Current()
		for i := 0; i < 5; i++ {
			if p.Next() == nil {
				t.Fatalf("shuffle=%v: Next() returned nil with repeat on", shuffle)
			}
		}
		if p.Current() != start {
			t.Errorf("shuffle=%v: after a full cycle Current() = %v, want %v", shuffle, p.Current(), start)
		}
		if p.CurrentIndex() != 2 {
			t.Errorf("shuffle=%v: CurrentIndex() = %d, want 2", shuffle, p.CurrentIndex())
		}
	}
}

func TestPrevious(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))

	// at 0 without repeat: stays
	if got := p.Previous(); got != tracks[0] {
		t.Errorf("Previous() at 0 = %v, want first track", got)
	}
	if p.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", p.CurrentIndex())
	}

	// at 0 with repeat: wraps
	p.SetRepeat(true)
	if got := p.Previous(); got != tracks[2] {
		t.Errorf("Previous() with repeat = %v, want last track", got)
	}
	if p.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", p.CurrentIndex())
	}

	if got := p.Previous(); got != tracks[1] {
		t.Errorf("Previous() = %v, want middle track", got)
	}
}

func TestSetCurrentIndex(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))

	if !p.SetCurrentIndex(2) || p.Current() != tracks[2] {
		t.Error("SetCurrentIndex(2) should select the last track")
	}
	for _, bad := range []int{-1, 3, 100} {
		if p.SetCurrentIndex(bad) {
			t.Errorf("SetCurrentIndex(%d) = true, want false", bad)
		}
		if p.CurrentIndex() != 2 {
			t.Errorf("CurrentIndex() = %d after failed set, want 2", p.CurrentIndex())
		}
	}
}

func TestShuffleToggleRestoresCanonicalOrder(t *testing.T) {
	tracks := makeTracks(6)
	p := New("Mix", WithTracks(tracks...), WithSeed(99))

	p.SetShuffle(true)
	if !p.Shuffle() {
		t.Fatal("Shuffle() = false after enabling")
	}
	if !isPermutation(p.ShuffleOrder(), len(tracks)) {
		t.Fatalf("ShuffleOrder() = %v, want permutation", p.ShuffleOrder())
	}
	p.SetShuffle(false)

	if len(p.ShuffleOrder()) != 0 {
		t.Error("ShuffleOrder() should be empty with shuffle off")
	}
	for i, tr := range tracks {
		if p.Track(i) != tr {
			t.Errorf("Track(%d) changed by shuffle toggle", i)
		}
	}

	// navigation follows canonical order again
	p.SetCurrentIndex(0)
	for i := 1; i < len(tracks); i++ {
		if got := p.Next(); got != tracks[i] {
			t.Errorf("Next() = %v, want %v", got, tracks[i])
		}
	}
}

func TestShuffleKeepsCursorIndex(t *testing.T) {
	tracks := makeTracks(5)
	p := New("Mix", WithTracks(tracks...), WithSeed(5))
	p.SetCurrentIndex(3)

	p.SetShuffle(true)
	if p.CurrentIndex() != 3 {
		t.Errorf("CurrentIndex() = %d after enabling shuffle, want 3", p.CurrentIndex())
	}
	order := p.ShuffleOrder()
	if p.Current() != tracks[order[3]] {
		t.Error("Current() should read through the permutation at the same index")
	}

	p.SetShuffle(false)
	if p.CurrentIndex() != 3 || p.Current() != tracks[3] {
		t.Error("disabling shuffle should keep the cursor index, not the track")
	}
}

func TestShuffleIsReproducibleWithSeed(t *testing.T) {
	a := New("A", WithTracks(makeTracks(10)...), WithSeed(1234))
	b := New("B", WithTracks(makeTracks(10)...), WithSeed(1234))
	a.SetShuffle(true)
	b.SetShuffle(true)

	oa, ob := a.ShuffleOrder(), b.ShuffleOrder()
	for i := range oa {
		if oa[i] != ob[i] {
			t.Fatalf("orders differ with the same seed: %v vs %v", oa, ob)
		}
	}
}

func TestShuffleOnEmptyPlaylist(t *testing.T) {
	p := New("Empty")
	p.SetShuffle(true)
	if p.Next() != nil || p.Current() != nil {
		t.Error("shuffled empty playlist should yield nothing")
	}
	tracks := makeTracks(2)
	p.AddTracks(tracks)
	if !isPermutation(p.ShuffleOrder(), 2) {
		t.Errorf("ShuffleOrder() = %v, want permutation of 2", p.ShuffleOrder())
	}
}

func TestRepeatIsPureFlag(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))
	p.SetCurrentIndex(1)
	p.SetRepeat(true)
	if p.CurrentIndex() != 1 {
		t.Error("SetRepeat() moved the cursor")
	}
	for i, tr := range tracks {
		if p.Track(i) != tr {
			t.Error("SetRepeat() changed track order")
		}
	}
}

func TestQueueFollowsEffectiveOrder(t *testing.T) {
	tracks := makeTracks(4)
	p := New("Mix", WithTracks(tracks...), WithSeed(8))
	p.SetCurrentIndex(1)

	q := p.Queue()
	if q.Len() != 4 || q.Current() != tracks[1] || q.Name != "Mix" {
		t.Errorf("Queue() = %+v, want canonical view with cursor 1", q)
	}

	p.SetShuffle(true)
	q = p.Queue()
	order := p.ShuffleOrder()
	for pos, idx := range order {
		if q.Tracks[pos] != tracks[idx] {
			t.Errorf("Queue().Tracks[%d] does not follow the permutation", pos)
		}
		canon, ok := p.CanonicalIndex(pos)
		if !ok || canon != idx {
			t.Errorf("CanonicalIndex(%d) = %d, %v; want %d", pos, canon, ok, idx)
		}
	}
	if q.Current() != p.Current() {
		t.Error("Queue().Current() should match Current()")
	}
	if _, ok := p.CanonicalIndex(4); ok {
		t.Error("CanonicalIndex() out of range should fail")
	}
}

func TestPositionInvertsCanonicalIndex(t *testing.T) {
	for _, shuffle := range []bool{false, true} {
		p := New("Mix", WithTracks(makeTracks(6)...), WithSeed(7))
		p.SetShuffle(shuffle)

		for i := 0; i < p.Len(); i++ {
			pos, ok := p.Position(i)
			if !ok {
				t.Fatalf("shuffle=%v: Position(%d) not found", shuffle, i)
			}
			if c, _ := p.CanonicalIndex(pos); c != i {
				t.Errorf("shuffle=%v: CanonicalIndex(Position(%d)) = %d", shuffle, i, c)
			}
		}
		if _, ok := p.Position(p.Len()); ok {
			t.Errorf("shuffle=%v: Position(Len()) should fail", shuffle)
		}
		if _, ok := p.Position(-1); ok {
			t.Errorf("shuffle=%v: Position(-1) should fail", shuffle)
		}
	}
}
