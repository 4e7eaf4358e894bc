package tags

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
)

// AudioType selects the top-level hierarchy a file is filed under.
type AudioType int

const (
	AudioTypeUnknown AudioType = iota
	AudioTypeMusic
	AudioTypeAudiobook
)

func (t AudioType) String() string {
	switch t {
	case AudioTypeMusic:
		return "music"
	case AudioTypeAudiobook:
		return "audiobook"
	default:
		return "unknown"
	}
}

// Custom field keys with special meaning.
const (
	CustomAudiobook        = "AUDIOBOOK"
	CustomSingle           = "SINGLE"
	CustomNoYear           = "NOYEAR"
	CustomCompilationGroup = "COMPILATIONGROUP"
	CustomCompilationName  = "COMPILATIONNAME"
)

// variousArtists marks a release without a single artist.
const variousArtists = "Various Artists"

// ErrUnreadableTag reports a file whose tag container is missing or malformed.
var ErrUnreadableTag = errors.New("unreadable tag")

// Reader produces Metadata for a file.
type Reader interface {
	Read(ctx context.Context, path string) (Metadata, error)
}

// Fields carries raw tag values before normalization.
type Fields struct {
	Artist      Field[string]
	AlbumArtist Field[string]
	Album       Field[string]
	Title       Field[string]
	Year        Field[int]
	Disk        Field[int]
	Track       Field[int]
	Compilation bool
	Custom      map[string]string
	SourcePath  string
}

// Metadata is the immutable view of one file's tags.
type Metadata struct {
	audioType   AudioType
	artist      Field[string]
	albumArtist Field[string]
	album       Field[string]
	title       Field[string]
	year        Field[int]
	disk        Field[int]
	track       Field[int]
	compilation bool
	custom      map[string]string
	sourcePath  string
}

// NewMetadata normalizes f into a Metadata record. The audio type is
// Audiobook when the AUDIOBOOK custom field is present and Music otherwise.
// Custom keys differing only in case fold to the lexically smallest key.
func NewMetadata(f Fields) Metadata {
	custom := make(map[string]string, len(f.Custom))
	for _, key := range slices.Sorted(maps.Keys(f.Custom)) {
		value := f.Custom[key]
		upper := strings.ToUpper(strings.TrimSpace(key))
		if upper == "" {
			continue
		}
		if _, exists := custom[upper]; exists {
			continue
		}
		custom[upper] = value
	}
	m := Metadata{
		artist:      dropVariousArtists(f.Artist),
		albumArtist: dropVariousArtists(f.AlbumArtist),
		album:       f.Album,
		title:       f.Title,
		year:        f.Year,
		disk:        f.Disk,
		track:       f.Track,
		compilation: f.Compilation,
		custom:      custom,
		sourcePath:  f.SourcePath,
	}
	m.audioType = AudioTypeMusic
	if _, ok := custom[CustomAudiobook]; ok {
		m.audioType = AudioTypeAudiobook
	}
	return m
}

// WithAudioType returns a copy of m with the audio type overridden. Readers
// for containers that cannot tell music from audiobooks use AudioTypeUnknown.
func (m Metadata) WithAudioType(t AudioType) Metadata {
	m.audioType = t
	return m
}

func dropVariousArtists(f Field[string]) Field[string] {
	if v, ok := f.Get(); ok && strings.EqualFold(v, variousArtists) {
		return None[string]()
	}
	return f
}

// AudioType reports the hierarchy family fixed at construction.
func (m Metadata) AudioType() AudioType { return m.audioType }
func (m Metadata) Artist() Field[string] { return m.artist }
func (m Metadata) AlbumArtist() Field[string] { return m.albumArtist }
func (m Metadata) Album() Field[string] { return m.album }
func (m Metadata) Title() Field[string] { return m.title }
func (m Metadata) Year() Field[int] { return m.year }
func (m Metadata) Disk() Field[int] { return m.disk }
func (m Metadata) Track() Field[int] { return m.track }
func (m Metadata) IsCompilation() bool { return m.compilation }
func (m Metadata) SourcePath() string { return m.sourcePath }

// Custom returns the custom field stored under key, matched case-insensitively.
func (m Metadata) Custom(key string) (string, bool) {
	v, ok := m.custom[strings.ToUpper(key)]
	return v, ok
}

// HasCustom reports whether the custom field key is present.
func (m Metadata) HasCustom(key string) bool {
	_, ok := m.Custom(key)
	return ok
}
