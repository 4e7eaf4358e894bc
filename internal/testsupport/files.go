package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

// Track describes the ID3v2 frames written by WriteTaggedMP3. Empty fields
// are omitted from the tag.
type Track struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Year        string
	Track       string
	Disk        string
	Compilation bool
	Custom      map[string]string
}

// WriteTaggedMP3 writes an ID3v2.4 tag followed by a few bytes of fake audio.
func WriteTaggedMP3(t testing.TB, path string, track Track) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	frames := []struct{ id, value string }{
		{"TPE1", track.Artist},
		{"TPE2", track.AlbumArtist},
		{"TALB", track.Album},
		{"TIT2", track.Title},
		{"TYER", track.Year},
		{"TRCK", track.Track},
		{"TPOS", track.Disk},
	}
	for _, f := range frames {
		if f.value != "" {
			tag.AddTextFrame(f.id, id3v2.EncodingUTF8, f.value)
		}
	}
	if track.Compilation {
		tag.AddTextFrame("TCMP", id3v2.EncodingUTF8, "1")
	}
	for key, value := range track.Custom {
		tag.AddFrame("TXXX", id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: key,
			Value:       value,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("write tag %s: %v", path, err)
	}
	if _, err := f.Write(make([]byte, 512)); err != nil {
		t.Fatalf("write audio %s: %v", path, err)
	}
}

// WriteFile writes size bytes of filler to path, creating parent directories.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
