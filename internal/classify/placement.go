package classify

import (
	"regexp"
	"strings"
)

// Category identifies the hierarchy a file was filed under.
type Category string

const (
	CategoryAudiobook   Category = "audiobook"
	CategoryAlbum       Category = "album"
	CategoryCompilation Category = "compilation"
	CategorySingle      Category = "single"
)

// Segment is one raw (unsanitized) path label. Only the leaf carries an
// extension.
type Segment struct {
	Label     string
	Leaf      bool
	Extension string
}

// Placement is the classification result for one file.
type Placement struct {
	Category Category
	Segments []Segment
}

// Labels returns the raw labels in order.
func (p Placement) Labels() []string {
	labels := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		labels = append(labels, s.Label)
	}
	return labels
}

var extensionPattern = regexp.MustCompile(`\.(\w+)$`)

// Extension returns the extension of path without the dot, or "" when the
// file name has none.
func Extension(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	m := extensionPattern.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	return m[1]
}

func folders(labels ...string) []Segment {
	out := make([]Segment, 0, len(labels)+1)
	for _, label := range labels {
		out = append(out, Segment{Label: label})
	}
	return out
}

func withLeaf(segments []Segment, label, ext string) []Segment {
	return append(segments, Segment{Label: label, Leaf: true, Extension: ext})
}
