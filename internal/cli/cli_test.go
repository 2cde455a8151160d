package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tessro/crate/internal/config"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/store"
)

// setup writes a config pointing at a fresh library and playlist directory.
func setup(t *testing.T, files ...string) (cfgPath, libDir, plDir string) {
	t.Helper()
	t.Chdir(t.TempDir())

	base := t.TempDir()
	libDir = filepath.Join(base, "music")
	plDir = filepath.Join(base, "playlists")
	if err := os.MkdirAll(libDir, 0700); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(libDir, f), make([]byte, 512), 0600); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath = filepath.Join(base, "config.toml")
	content := "[library]\nroot = '" + libDir + "'\n\n" +
		"[playlists]\ndir = '" + plDir + "'\nformat = 'json'\ndefault = 'Mix'\n\n" +
		"[log]\nlevel = 'error'\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return cfgPath, libDir, plDir
}

func runCLI(t *testing.T, cfgPath string, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func mustLoad(t *testing.T, dir, name string) *playlist.Playlist {
	t.Helper()
	pl, err := store.NewJSONStore(dir, nil).Load(name)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", name, err)
	}
	if pl == nil {
		t.Fatalf("Load(%q) = nil, want a stored playlist", name)
	}
	return pl
}

func TestPlaylistWorkflow(t *testing.T) {
	cfgPath, _, plDir := setup(t, "a.mp3", "b.mp3", "c.wav", "notes.txt")

	if err := runCLI(t, cfgPath, "scan", "--playlist", "Mix", "--no-progress"); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if got := mustLoad(t, plDir, "Mix").Len(); got != 3 {
		t.Fatalf("Mix has %d tracks after scan, want 3", got)
	}

	// a second scan only adds what is missing
	if err := runCLI(t, cfgPath, "scan", "--playlist", "Mix", "--no-progress"); err != nil {
		t.Fatalf("second scan error = %v", err)
	}
	if got := mustLoad(t, plDir, "Mix").Len(); got != 3 {
		t.Errorf("Mix has %d tracks after rescan, want 3", got)
	}

	if err := runCLI(t, cfgPath, "next"); err != nil {
		t.Fatalf("next error = %v", err)
	}
	if got := mustLoad(t, plDir, "Mix").CurrentIndex(); got != 1 {
		t.Errorf("CurrentIndex() after next = %d, want 1", got)
	}

	if err := runCLI(t, cfgPath, "goto", "3"); err != nil {
		t.Fatalf("goto error = %v", err)
	}
	if err := runCLI(t, cfgPath, "next"); err != nil {
		t.Fatalf("next at end error = %v", err)
	}
	if got := mustLoad(t, plDir, "Mix").CurrentIndex(); got != 2 {
		t.Errorf("CurrentIndex() after end = %d, want 2", got)
	}

	if err := runCLI(t, cfgPath, "goto", "9"); !crerrors.Is(err, crerrors.ErrIndexOutOfRange) {
		t.Errorf("goto 9 error = %v, want ErrIndexOutOfRange", err)
	}

	if err := runCLI(t, cfgPath, "playlist", "remove", "Mix", "1"); err != nil {
		t.Fatalf("remove error = %v", err)
	}
	mix := mustLoad(t, plDir, "Mix")
	if mix.Len() != 2 || mix.Track(0).Title != "b" {
		t.Errorf("after remove: %d tracks, first %q; want 2, %q", mix.Len(), mix.Track(0).Title, "b")
	}

	if err := runCLI(t, cfgPath, "playlist", "create", "Mix"); !crerrors.Is(err, crerrors.ErrPlaylistExists) {
		t.Errorf("create existing error = %v, want ErrPlaylistExists", err)
	}

	if err := runCLI(t, cfgPath, "playlist", "rename", "Mix", "Road"); err != nil {
		t.Fatalf("rename error = %v", err)
	}
	if pl, _ := store.NewJSONStore(plDir, nil).Load("Mix"); pl != nil {
		t.Error("Mix still stored after rename")
	}
	if got := mustLoad(t, plDir, "Road").Name(); got != "Road" {
		t.Errorf("renamed playlist Name() = %q, want %q", got, "Road")
	}

	exported := filepath.Join(t.TempDir(), "road.m3u")
	if err := runCLI(t, cfgPath, "playlist", "export", "Road", exported); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if err := runCLI(t, cfgPath, "playlist", "import", exported, "--name", "Copy"); err != nil {
		t.Fatalf("import error = %v", err)
	}
	imported := mustLoad(t, plDir, "Copy")
	if imported.Len() != 2 {
		t.Errorf("imported Len() = %d, want 2", imported.Len())
	}
	if imported.ID() == mustLoad(t, plDir, "Road").ID() {
		t.Error("imported playlist shares the original's ID")
	}

	if err := runCLI(t, cfgPath, "playlist", "shuffle", "Road", "on"); err != nil {
		t.Fatalf("shuffle error = %v", err)
	}
	if !mustLoad(t, plDir, "Road").Shuffle() {
		t.Error("Shuffle() = false after 'shuffle on'")
	}

	if err := runCLI(t, cfgPath, "play", "Road"); err != nil {
		t.Fatalf("simulated play error = %v", err)
	}

	if err := runCLI(t, cfgPath, "playlist", "delete", "Copy", "--force"); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if err := runCLI(t, cfgPath, "playlist", "delete", "Copy", "--force"); !crerrors.Is(err, crerrors.ErrPlaylistNotFound) {
		t.Errorf("second delete error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestNavigateEmptyPlaylist(t *testing.T) {
	cfgPath, _, _ := setup(t)

	if err := runCLI(t, cfgPath, "playlist", "create", "Empty"); err != nil {
		t.Fatalf("create error = %v", err)
	}
	if err := runCLI(t, cfgPath, "current", "-p", "Empty"); !crerrors.Is(err, crerrors.ErrEmptyPlaylist) {
		t.Errorf("current error = %v, want ErrEmptyPlaylist", err)
	}
	if err := runCLI(t, cfgPath, "current", "-p", "Nope"); !crerrors.Is(err, crerrors.ErrPlaylistNotFound) {
		t.Errorf("current on missing playlist error = %v, want ErrPlaylistNotFound", err)
	}
	navPlaylist = ""
}

func TestScanMissingRoot(t *testing.T) {
	cfgPath, libDir, _ := setup(t)

	err := runCLI(t, cfgPath, "scan", filepath.Join(libDir, "missing"), "--no-progress")
	if !crerrors.Is(err, crerrors.ErrScanRoot) {
		t.Errorf("scan error = %v, want ErrScanRoot", err)
	}
}

func TestConfigSet(t *testing.T) {
	cfgPath, _, _ := setup(t)

	if err := runCLI(t, cfgPath, "config", "set", "library.max_depth", "4"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Library.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", loaded.Library.MaxDepth)
	}
	if loaded.Playlists.Default != "Mix" {
		t.Errorf("Playlists.Default = %q, want other settings kept", loaded.Playlists.Default)
	}

	if err := runCLI(t, cfgPath, "config", "set", "playlists.format", "xml"); !crerrors.Is(err, crerrors.ErrInvalidConfig) {
		t.Errorf("invalid value error = %v, want ErrInvalidConfig", err)
	}
	if err := runCLI(t, cfgPath, "config", "set", "nope.key", "1"); !crerrors.Is(err, crerrors.ErrInvalidConfig) {
		t.Errorf("unknown key error = %v, want ErrInvalidConfig", err)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"12", 11, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePosition(tt.arg)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parsePosition(%q) = %d, %v; want %d, error %v", tt.arg, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		args    []string
		current bool
		want    bool
		wantErr bool
	}{
		{nil, false, true, false},
		{nil, true, false, false},
		{[]string{"on"}, false, true, false},
		{[]string{"OFF"}, true, false, false},
		{[]string{"toggle"}, true, false, false},
		{[]string{"sometimes"}, false, false, true},
	}
	for _, tt := range tests {
		got, err := parseToggle(tt.args, tt.current)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseToggle(%v, %v) = %v, %v; want %v, error %v", tt.args, tt.current, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSplitModeArgs(t *testing.T) {
	tests := []struct {
		args     []string
		wantName int
		wantMode int
	}{
		{nil, 0, 0},
		{[]string{"on"}, 0, 1},
		{[]string{"Road"}, 1, 0},
		{[]string{"Road", "off"}, 1, 1},
	}
	for _, tt := range tests {
		name, mode := splitModeArgs(tt.args)
		if len(name) != tt.wantName || len(mode) != tt.wantMode {
			t.Errorf("splitModeArgs(%v) = %v, %v", tt.args, name, mode)
		}
	}
}

func TestGlobFilter(t *testing.T) {
	filter, err := globFilter("*live*")
	if err != nil {
		t.Fatalf("globFilter() error = %v", err)
	}
	if !filter("/music/live at leeds.mp3") || filter("/live/studio.mp3") {
		t.Error("filter should match the base name only")
	}

	if _, err := globFilter("[unclosed"); err == nil {
		t.Error("globFilter() with a bad pattern should fail")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a long title", 8, "a lon..."},
		{"abcdef", 3, "abc"},
		{"日本語のタイトル", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
