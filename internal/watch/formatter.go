package watch

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An unparsable template is
// ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Path:      e.Path,
	}
	if e.Track != nil {
		data.Title = e.Track.Title
		data.Artist = e.Track.Artist
		data.Album = e.Track.Album
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Path      string
	Title     string
	Artist    string
	Album     string
	Error     string
}

// kind describes how an event type is named and shown.
type kind struct {
	name  string
	emoji string
	verb  string
}

var kinds = map[EventType]kind{
	EventTrackAdded:   {"track_added", "➕", "Added"},
	EventTrackRemoved: {"track_removed", "➖", "Removed"},
	EventScanFailed:   {"scan_failed", "⚠️", "Scan failed"},
}

var unknownKind = kind{"unknown", "❓", "Unknown event"}

func kindOf(t EventType) kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return unknownKind
}

func eventDescription(e Event) string {
	k := kindOf(e.Type)
	switch {
	case e.Type == EventScanFailed && e.Err != nil:
		return fmt.Sprintf("%s: %v", k.verb, e.Err)
	case e.Type == EventScanFailed, k == unknownKind:
		return k.verb
	case e.Track != nil:
		return fmt.Sprintf("%s: %s (%s)", k.verb, e.Track.DisplayName(), filepath.Base(e.Path))
	default:
		return k.verb + ": " + e.Path
	}
}

func eventEmoji(t EventType) string {
	return kindOf(t).emoji
}

// String returns the event type's name, as used in JSON and templates.
func (t EventType) String() string {
	return kindOf(t).name
}
