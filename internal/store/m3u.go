package store

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
)

const m3uExt = ".m3u"

// Extended M3U directives. #EXTCRATE carries playlist state that plain M3U
// has no place for; other players ignore it.
const (
	m3uHeader   = "#EXTM3U"
	m3uPlaylist = "#PLAYLIST:"
	m3uInfo     = "#EXTINF:"
	m3uArtist   = "#EXTART:"
	m3uAlbum    = "#EXTALB:"
	m3uGenre    = "#EXTGENRE:"
	m3uYear     = "#EXTYEAR:"
	m3uBytes    = "#EXTBYT:"
	m3uState    = "#EXTCRATE:"
	m3uNoPath   = "#EXTCRATE-NOPATH"
)

// M3UStore keeps one extended M3U file per playlist.
type M3UStore struct {
	fileStore
}

// NewM3UStore creates an M3U store rooted at dir.
func NewM3UStore(dir string, log *zap.Logger) *M3UStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &M3UStore{fileStore{dir: dir, ext: m3uExt, log: log}}
}

// IsValidFormat also accepts .m3u8 files.
func (s *M3UStore) IsValidFormat(location string) bool {
	return s.fileStore.IsValidFormat(location) || strings.EqualFold(filepath.Ext(location), ".m3u8")
}

func (s *M3UStore) resolve(location string) (string, error) {
	if strings.EqualFold(filepath.Ext(location), ".m3u8") {
		return location, nil
	}
	return s.path(location)
}

// Save writes pl as extended M3U.
func (s *M3UStore) Save(pl *playlist.Playlist, location string) error {
	path, err := s.resolve(location)
	if err != nil {
		return err
	}
	return s.write(path, encodeM3U(pl.Snapshot()))
}

// Load reads an M3U playlist. Plain M3U files without crate directives load
// with modes off and the cursor at 0. Relative entries are resolved against
// the file's directory.
func (s *M3UStore) Load(location string) (*playlist.Playlist, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	data, err := s.readPath(path)
	if err != nil || data == nil {
		return nil, err
	}

	state, err := decodeM3U(data, filepath.Dir(path), s.log)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist file %s: %w", path, err)
	}
	if state.Name == "" {
		state.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return playlist.FromState(state)
}

func encodeM3U(st playlist.State) []byte {
	var b bytes.Buffer
	b.WriteString(m3uHeader + "\n")
	b.WriteString(m3uPlaylist + oneLine(st.Name) + "\n")

	fields := []string{
		"id=" + st.ID,
		"cursor=" + strconv.Itoa(st.CurrentIndex),
		"shuffle=" + strconv.FormatBool(st.Shuffle),
		"repeat=" + strconv.FormatBool(st.Repeat),
	}
	if len(st.ShuffleOrder) > 0 {
		order := make([]string, len(st.ShuffleOrder))
		for i, idx := range st.ShuffleOrder {
			order[i] = strconv.Itoa(idx)
		}
		fields = append(fields, "order="+strings.Join(order, ","))
	}
	b.WriteString(m3uState + strings.Join(fields, ";") + "\n")

	for _, t := range st.Tracks {
		artist, title := oneLine(t.Artist), oneLine(t.Title)
		if artist != "" {
			b.WriteString(m3uArtist + artist + "\n")
		}
		fmt.Fprintf(&b, "%s%d,%s - %s\n", m3uInfo, int(t.Duration/time.Second), artist, title)
		if t.Album != "" {
			b.WriteString(m3uAlbum + oneLine(t.Album) + "\n")
		}
		if t.Genre != "" {
			b.WriteString(m3uGenre + oneLine(t.Genre) + "\n")
		}
		if t.Year != 0 {
			b.WriteString(m3uYear + strconv.Itoa(t.Year) + "\n")
		}
		if t.Size > 0 {
			b.WriteString(m3uBytes + strconv.FormatInt(t.Size, 10) + "\n")
		}
		if t.Path == "" {
			b.WriteString(m3uNoPath + "\n")
			continue
		}
		b.WriteString(t.Path + "\n")
	}
	return b.Bytes()
}

// oneLine keeps a value on a single line so it cannot break the entry
// structure.
func oneLine(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " ")
}

func decodeM3U(data []byte, baseDir string, log *zap.Logger) (playlist.State, error) {
	var st playlist.State
	pending := &core.Track{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}

		switch {
		case text == "" || text == m3uHeader:
		case strings.HasPrefix(text, m3uPlaylist):
			st.Name = strings.TrimPrefix(text, m3uPlaylist)
		case strings.HasPrefix(text, m3uState):
			if err := decodeState(&st, strings.TrimPrefix(text, m3uState)); err != nil {
				log.Debug("ignoring playlist state",
					zap.Int("line", line),
					zap.Error(err))
				st.CurrentIndex, st.Shuffle, st.Repeat, st.ShuffleOrder = 0, false, false, nil
			}
		case text == m3uNoPath:
			pending.Format = core.FormatMP3
			st.Tracks = append(st.Tracks, pending)
			pending = &core.Track{}
		case strings.HasPrefix(text, m3uArtist):
			pending.Artist = strings.TrimPrefix(text, m3uArtist)
		case strings.HasPrefix(text, m3uInfo):
			decodeInfo(pending, strings.TrimPrefix(text, m3uInfo))
		case strings.HasPrefix(text, m3uAlbum):
			pending.Album = strings.TrimPrefix(text, m3uAlbum)
		case strings.HasPrefix(text, m3uGenre):
			pending.Genre = strings.TrimPrefix(text, m3uGenre)
		case strings.HasPrefix(text, m3uYear):
			if y, err := strconv.Atoi(strings.TrimPrefix(text, m3uYear)); err == nil {
				pending.Year = y
			}
		case strings.HasPrefix(text, m3uBytes):
			if n, err := strconv.ParseInt(strings.TrimPrefix(text, m3uBytes), 10, 64); err == nil {
				pending.Size = n
			}
		case strings.HasPrefix(text, "#"):
			// unknown directive or comment
		default:
			st.Tracks = append(st.Tracks, finishTrack(pending, text, baseDir))
			pending = &core.Track{}
		}
	}
	if err := sc.Err(); err != nil {
		return st, err
	}

	// Hand-edited files may no longer match their recorded state: redraw the
	// permutation and pull the cursor back into range.
	if len(st.ShuffleOrder) != len(st.Tracks) {
		st.ShuffleOrder = nil
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= max(1, len(st.Tracks)) {
		st.CurrentIndex = 0
	}
	return st, nil
}

// decodeInfo parses "<seconds>,<artist> - <title>". An artist already read
// from #EXTART wins over splitting the display text, which is ambiguous
// when the artist itself contains " - ".
func decodeInfo(t *core.Track, info string) {
	secs, display, ok := strings.Cut(info, ",")
	if !ok {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(secs)); err == nil && n > 0 {
		t.Duration = time.Duration(n) * time.Second
	}
	if t.Artist != "" {
		if title, ok := strings.CutPrefix(display, t.Artist+" - "); ok {
			t.Title = title
			return
		}
	}
	artist, title, ok := strings.Cut(display, " - ")
	if !ok {
		t.Title = display
		return
	}
	if t.Artist == "" {
		t.Artist = artist
	}
	t.Title = title
}

func finishTrack(t *core.Track, entry, baseDir string) *core.Track {
	path := entry
	if !filepath.IsAbs(path) && !strings.Contains(path, "://") {
		path = filepath.Join(baseDir, filepath.FromSlash(path))
	}
	t.SetPath(path)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if t.Title == "" {
		t.Title = stem
	}
	if t.Artist == "" {
		t.Artist = core.DefaultArtist
	}
	return t
}

func decodeState(st *playlist.State, raw string) error {
	for _, field := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		var err error
		switch key {
		case "id":
			st.ID = value
		case "cursor":
			st.CurrentIndex, err = strconv.Atoi(value)
		case "shuffle":
			st.Shuffle, err = strconv.ParseBool(value)
		case "repeat":
			st.Repeat, err = strconv.ParseBool(value)
		case "order":
			for _, part := range strings.Split(value, ",") {
				var idx int
				if idx, err = strconv.Atoi(part); err != nil {
					break
				}
				st.ShuffleOrder = append(st.ShuffleOrder, idx)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
