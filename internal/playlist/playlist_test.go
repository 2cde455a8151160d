package playlist

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

func makeTracks(n int) []*core.Track {
	tracks := make([]*core.Track, n)
	for i := range tracks {
		tracks[i] = &core.Track{
			Path:     fmt.Sprintf("/music/%02d.mp3", i),
			Title:    fmt.Sprintf("Track %02d", i),
			Artist:   "Artist",
			Duration: time.Duration(i+1) * time.Minute,
		}
	}
	return tracks
}

func TestNewDefaults(t *testing.T) {
	p := New("")
	if p.Name() != DefaultName {
		t.Errorf("Name() = %q, want %q", p.Name(), DefaultName)
	}
	if p.ID() == "" {
		t.Error("ID() is empty")
	}
	if !p.IsEmpty() || p.Len() != 0 {
		t.Error("new playlist should be empty")
	}
	if p.CurrentIndex() != 0 || p.Shuffle() || p.Repeat() {
		t.Error("new playlist should start at 0 with modes off")
	}
}

func TestNewWithTracksSkipsNil(t *testing.T) {
	tracks := makeTracks(2)
	p := New("Mix", WithTracks(tracks[0], nil, tracks[1]))
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestSetName(t *testing.T) {
	p := New("Old")
	if err := p.SetName(""); !errors.Is(err, crerrors.ErrInvalidName) {
		t.Errorf("SetName(\"\") error = %v, want ErrInvalidName", err)
	}
	if p.Name() != "Old" {
		t.Errorf("Name() = %q after rejected rename, want %q", p.Name(), "Old")
	}
	if err := p.SetName("New"); err != nil {
		t.Fatalf("SetName() error = %v", err)
	}
	if p.Name() != "New" {
		t.Errorf("Name() = %q, want %q", p.Name(), "New")
	}
}

func TestAddTrack(t *testing.T) {
	p := New("Mix")
	if err := p.AddTrack(nil); !errors.Is(err, crerrors.ErrInvalidArgument) {
		t.Errorf("AddTrack(nil) error = %v, want ErrInvalidArgument", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after rejected add, want 0", p.Len())
	}

	tracks := makeTracks(2)
	for _, tr := range tracks {
		if err := p.AddTrack(tr); err != nil {
			t.Fatalf("AddTrack() error = %v", err)
		}
	}
	// duplicates are allowed
	if err := p.AddTrack(tracks[0]); err != nil {
		t.Fatalf("AddTrack() duplicate error = %v", err)
	}

	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
	if p.Track(2) != tracks[0] {
		t.Error("Track(2) should be the duplicate of track 0")
	}
}

func TestAddTracksSkipsNil(t *testing.T) {
	p := New("Mix")
	tracks := makeTracks(3)
	added := p.AddTracks([]*core.Track{tracks[0], nil, tracks[1], nil, tracks[2]})
	if added != 3 {
		t.Errorf("AddTracks() = %d, want 3", added)
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
}

func TestAddWhileShuffledRegeneratesOrder(t *testing.T) {
	p := New("Mix", WithTracks(makeTracks(3)...), WithSeed(1))
	p.SetShuffle(true)

	extra := &core.Track{Path: "/music/extra.mp3", Title: "Extra", Artist: "X"}
	if err := p.AddTrack(extra); err != nil {
		t.Fatalf("AddTrack() error = %v", err)
	}

	order := p.ShuffleOrder()
	if !isPermutation(order, 4) {
		t.Errorf("ShuffleOrder() = %v, want permutation of 4", order)
	}

	p.AddTracks(makeTracks(2))
	if !isPermutation(p.ShuffleOrder(), 6) {
		t.Errorf("ShuffleOrder() = %v, want permutation of 6", p.ShuffleOrder())
	}
}

func TestRemoveAt(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))

	if p.RemoveAt(-1) || p.RemoveAt(3) {
		t.Error("RemoveAt() out of range should return false")
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d after failed removes, want 3", p.Len())
	}

	if !p.RemoveAt(1) {
		t.Fatal("RemoveAt(1) = false, want true")
	}
	if p.Len() != 2 || p.Track(1) != tracks[2] {
		t.Error("RemoveAt(1) should shift later tracks down")
	}
}

func TestRemoveAtClampsCursor(t *testing.T) {
	for removed := 0; removed < 4; removed++ {
		t.Run(fmt.Sprintf("remove %d", removed), func(t *testing.T) {
			p := New("Mix", WithTracks(makeTracks(4)...))
			if !p.SetCurrentIndex(3) {
				t.Fatal("SetCurrentIndex(3) = false")
			}
			p.RemoveAt(removed)
			if p.CurrentIndex() != 2 {
				t.Errorf("CurrentIndex() = %d, want 2", p.CurrentIndex())
			}
		})
	}
}

func TestRemoveLastTrackResetsCursor(t *testing.T) {
	p := New("Mix", WithTracks(makeTracks(1)...))
	p.RemoveAt(0)
	if p.CurrentIndex() != 0 || !p.IsEmpty() {
		t.Errorf("CurrentIndex() = %d, IsEmpty() = %v; want 0, true", p.CurrentIndex(), p.IsEmpty())
	}
}

func TestRemoveByTrackUsesPathIdentity(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))

	lookalike := &core.Track{Path: tracks[1].Path, Title: "different metadata"}
	if !p.Remove(lookalike) {
		t.Fatal("Remove() with same path = false, want true")
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}

	stranger := &core.Track{Path: "/elsewhere.mp3", Title: tracks[0].Title, Artist: tracks[0].Artist}
	if p.Remove(stranger) {
		t.Error("Remove() of track with unknown path should return false")
	}
	if p.Remove(nil) {
		t.Error("Remove(nil) should return false")
	}
}

func TestRemoveFirstOccurrence(t *testing.T) {
	tracks := makeTracks(2)
	p := New("Mix", WithTracks(tracks[0], tracks[1], tracks[0]))
	p.Remove(tracks[0])
	if p.Track(0) != tracks[1] || p.Track(1) != tracks[0] {
		t.Error("Remove() should drop only the first occurrence")
	}
}

func TestClear(t *testing.T) {
	p := New("Mix", WithTracks(makeTracks(3)...), WithSeed(7))
	p.SetShuffle(true)
	p.SetCurrentIndex(2)
	p.Clear()

	if !p.IsEmpty() || p.CurrentIndex() != 0 || len(p.ShuffleOrder()) != 0 {
		t.Error("Clear() should empty tracks, order and cursor")
	}
	if p.Current() != nil {
		t.Error("Current() after Clear() should be nil")
	}
}

func TestTrackAccess(t *testing.T) {
	tracks := makeTracks(2)
	p := New("Mix", WithTracks(tracks...))

	if p.Track(0) != tracks[0] || p.At(1) != tracks[1] {
		t.Error("Track()/At() returned wrong track")
	}
	if p.Track(-1) != nil || p.Track(2) != nil || p.At(5) != nil {
		t.Error("out-of-range access should return nil")
	}
}

func TestFind(t *testing.T) {
	tracks := makeTracks(3)
	p := New("Mix", WithTracks(tracks...))

	idx, ok := p.Find(&core.Track{Path: tracks[2].Path})
	if !ok || idx != 2 {
		t.Errorf("Find() = %d, %v; want 2, true", idx, ok)
	}
	if _, ok := p.Find(&core.Track{Path: "/nope"}); ok {
		t.Error("Find() of unknown track should fail")
	}
	if _, ok := p.Find(nil); ok {
		t.Error("Find(nil) should fail")
	}
}

func TestTracksReturnsCopy(t *testing.T) {
	p := New("Mix", WithTracks(makeTracks(2)...))
	out := p.Tracks()
	out[0] = nil
	if p.Track(0) == nil {
		t.Error("mutating Tracks() result changed the playlist")
	}
}

func TestAppend(t *testing.T) {
	a := New("A", WithTracks(makeTracks(2)...))
	b := New("B", WithTracks(makeTracks(3)...))
	if n := a.Append(b); n != 3 {
		t.Errorf("Append() = %d, want 3", n)
	}
	if a.Len() != 5 {
		t.Errorf("Len() = %d, want 5", a.Len())
	}
	if a.Append(nil) != 0 {
		t.Error("Append(nil) should add nothing")
	}
}
