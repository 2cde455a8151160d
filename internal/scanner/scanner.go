// Package scanner discovers audio files under a directory tree and turns
// them into tracks.
//
// A Scanner's configuration is not guarded by a lock. Configure it before
// scanning and do not change it while a scan is in flight.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

// DefaultMaxDepth bounds recursive scans when no depth is given.
const DefaultMaxDepth = 10

// DefaultExtensions are the formats an audio scanner accepts.
var DefaultExtensions = []string{".mp3", ".wav", ".ogg"}

// Filter is an extra predicate over a candidate path. Files must pass both
// the extension check and the filter to be accepted.
type Filter func(path string) bool

// ProgressFunc receives each accepted path as it is discovered.
type ProgressFunc func(path string)

// ScanError reports a scan that could not start because its root is missing
// or is not a directory.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner walks directories and collects supported files.
type Scanner struct {
	extensions map[string]struct{}
	recursive  bool
	maxDepth   int
	filter     Filter
	progress   ProgressFunc
	log        *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtensions replaces the accepted extension set.
func WithExtensions(exts ...string) Option {
	return func(s *Scanner) {
		s.SetExtensions(exts...)
	}
}

// WithRecursive enables descent into subdirectories up to maxDepth levels
// below the root.
func WithRecursive(enable bool, maxDepth int) Option {
	return func(s *Scanner) {
		s.SetRecursive(enable, maxDepth)
	}
}

// WithFilter sets an additional path predicate.
func WithFilter(f Filter) Option {
	return func(s *Scanner) {
		s.filter = f
	}
}

// WithProgress sets the per-file progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) {
		s.progress = fn
	}
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a scanner. Without options it accepts .mp3, .wav and .ogg in
// the root directory only.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		maxDepth: DefaultMaxDepth,
		log:      zap.NewNop(),
	}
	s.SetExtensions(DefaultExtensions...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMP3Scanner returns a scanner that accepts only .mp3 files.
func NewMP3Scanner() *Scanner {
	return New(WithExtensions(".mp3"))
}

// NewAudioScanner returns a scanner for all default audio formats.
func NewAudioScanner() *Scanner {
	return New()
}

// NewCustomScanner returns a scanner with its own extensions and filter.
func NewCustomScanner(exts []string, filter Filter) *Scanner {
	return New(WithExtensions(exts...), WithFilter(filter))
}

// normalizeExt lowercases ext and makes sure it starts with a dot.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SetExtensions replaces the accepted extensions.
func (s *Scanner) SetExtensions(exts ...string) {
	s.extensions = make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		s.AddExtension(ext)
	}
}

// AddExtension accepts one more extension.
func (s *Scanner) AddExtension(ext string) {
	if ext = normalizeExt(ext); ext != "" {
		s.extensions[ext] = struct{}{}
	}
}

// Extensions returns the accepted extensions in sorted order.
func (s *Scanner) Extensions() []string {
	exts := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// SetRecursive toggles recursion. A negative maxDepth is treated as 0.
func (s *Scanner) SetRecursive(enable bool, maxDepth int) {
	s.recursive = enable
	s.maxDepth = max(maxDepth, 0)
}

// Recursive reports whether subdirectories are visited.
func (s *Scanner) Recursive() bool {
	return s.recursive
}

// MaxDepth returns the recursion limit.
func (s *Scanner) MaxDepth() int {
	return s.maxDepth
}

// SetFilter sets or clears the path predicate.
func (s *Scanner) SetFilter(f Filter) {
	s.filter = f
}

// SetProgressCallback sets or clears the progress callback.
func (s *Scanner) SetProgressCallback(fn ProgressFunc) {
	s.progress = fn
}

// SetLogger replaces the logger. Nil restores the no-op logger.
func (s *Scanner) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// IsSupported reports whether path has an accepted extension. The filter is
// not consulted.
func (s *Scanner) IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

func (s *Scanner) accepts(path string) bool {
	if !s.IsSupported(path) {
		return false
	}
	return s.filter == nil || s.filter(path)
}

// depth returns how many levels dir sits below root.
func depth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// checkRoot verifies that root exists and is a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &ScanError{Root: root, Err: fmt.Errorf("%w: %w", crerrors.ErrScanRoot, err)}
	}
	if !info.IsDir() {
		return &ScanError{Root: root, Err: crerrors.ErrNotDirectory}
	}
	return nil
}

// ScanDirectory returns the accepted files under root, sorted by path.
//
// Only a missing or non-directory root is an error. Unreadable entries below
// the root are skipped. The progress callback runs on the calling goroutine
// once per accepted file, in discovery order.
func (s *Scanner) ScanDirectory(root string) ([]string, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name the caller gave.
	walkRoot := root
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}
	}

	var files []string
	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return &ScanError{Root: root, Err: fmt.Errorf("%w: %w", crerrors.ErrScanRoot, err)}
			}
			s.log.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			if !s.recursive || depth(walkRoot, path) > s.maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !s.isRegular(path, d) {
			return nil
		}
		if walkRoot != root {
			if rel, err := filepath.Rel(walkRoot, path); err == nil {
				path = filepath.Join(root, rel)
			}
		}
		if !s.accepts(path) {
			return nil
		}

		files = append(files, path)
		if s.progress != nil {
			s.progress(path)
		}
		return nil
	})
	if walkErr != nil {
		var scanErr *ScanError
		if errors.As(walkErr, &scanErr) {
			return nil, scanErr
		}
		return nil, &ScanError{Root: root, Err: walkErr}
	}

	sortPaths(files)
	return files, nil
}

// isRegular reports whether the entry is a regular file. Symlinks are
// resolved, but only links to files count; directory links are not followed.
func (s *Scanner) isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		s.log.Debug("skipping broken symlink", zap.String("path", path), zap.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}

// sortPaths orders paths alphabetically ignoring case, falling back to byte
// order for paths that differ only in case.
func sortPaths(paths []string) {
	slices.SortFunc(paths, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

// ScanForTracks scans root and builds a track for every accepted file.
// Files that cannot be turned into tracks are dropped.
func (s *Scanner) ScanForTracks(root string) ([]*core.Track, error) {
	paths, err := s.ScanDirectory(root)
	if err != nil {
		return nil, err
	}

	tracks := make([]*core.Track, 0, len(paths))
	for _, path := range paths {
		t, err := core.TrackFromFile(path)
		if err != nil {
			s.log.Debug("dropping file", zap.String("path", path), zap.Error(err))
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// CountSupportedFiles returns how many files ScanDirectory would accept, or
// 0 if the scan fails.
func (s *Scanner) CountSupportedFiles(root string) int {
	files, err := s.ScanDirectory(root)
	if err != nil {
		return 0
	}
	return len(files)
}

// Clone copies the configuration. Later setter calls on s do not affect the
// copy, which makes it safe to hand to another goroutine.
func (s *Scanner) Clone() *Scanner {
	c := *s
	c.extensions = make(map[string]struct{}, len(s.extensions))
	for ext := range s.extensions {
		c.extensions[ext] = struct{}{}
	}
	return &c
}
