package tags

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
)

// numberPattern matches "N" and "N/M" positional values (TRCK, TPOS, TYER).
var numberPattern = regexp.MustCompile(`^(\d+)(/\d+)?$`)

// leadingYearPattern matches the year prefix of an ID3v2.4 timestamp (TDRC).
var leadingYearPattern = regexp.MustCompile(`^(\d{4})(-|T|$)`)

// ID3Reader reads ID3v2 tags via github.com/bogem/id3v2.
type ID3Reader struct{}

// NewID3Reader returns a reader for ID3v2-tagged files.
func NewID3Reader() ID3Reader {
	return ID3Reader{}
}

// Read parses the ID3v2 tag of path. Files without ID3v2 frames fail with
// ErrUnreadableTag.
func (ID3Reader) Read(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrUnreadableTag, path, err)
	}
	defer tag.Close()

	if tag.Count() == 0 {
		return Metadata{}, fmt.Errorf("%w: %s: missing id3v2 tag", ErrUnreadableTag, path)
	}

	fields := Fields{
		Artist:      textField(tag, "TPE1"),
		AlbumArtist: textField(tag, "TPE2"),
		Album:       textField(tag, "TALB"),
		Title:       textField(tag, "TIT2"),
		Year:        yearField(tag),
		Disk:        numberField(tag, "TPOS"),
		Track:       numberField(tag, "TRCK"),
		Compilation: frameText(tag, "TCMP") == "1",
		Custom:      userDefinedFields(tag),
		SourcePath:  path,
	}
	return NewMetadata(fields), nil
}

func frameText(tag *id3v2.Tag, id string) string {
	text := tag.GetTextFrame(id).Text
	return strings.TrimSpace(strings.Trim(text, "\x00"))
}

func textField(tag *id3v2.Tag, id string) Field[string] {
	text := frameText(tag, id)
	if text == "" {
		return None[string]()
	}
	return Some(text)
}

func numberField(tag *id3v2.Tag, id string) Field[int] {
	return parseNumber(frameText(tag, id))
}

func yearField(tag *id3v2.Tag) Field[int] {
	if year := parseNumber(frameText(tag, "TYER")); year.Present() {
		return year
	}
	recorded := frameText(tag, "TDRC")
	if year := parseNumber(recorded); year.Present() {
		return year
	}
	if m := leadingYearPattern.FindStringSubmatch(recorded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Some(n)
		}
	}
	return None[int]()
}

// parseNumber accepts "N" and "N/M"; anything else is absent.
func parseNumber(value string) Field[int] {
	m := numberPattern.FindStringSubmatch(value)
	if m == nil {
		return None[int]()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return None[int]()
	}
	return Some(n)
}

// userDefinedFields collects TXXX frames keyed by description. The first
// frame wins when a description repeats.
func userDefinedFields(tag *id3v2.Tag) map[string]string {
	frames := tag.GetFrames("TXXX")
	custom := make(map[string]string, len(frames))
	for _, f := range frames {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(strings.Trim(udtf.Description, "\x00")))
		if key == "" {
			continue
		}
		if _, exists := custom[key]; exists {
			continue
		}
		custom[key] = strings.Trim(udtf.Value, "\x00")
	}
	return custom
}
