package classify

import (
	"fmt"

	"audiosort/internal/tags"
)

// Root folder and fixed folder labels.
const (
	LabelAudiobooks   = "Audiobooks"
	LabelMusic        = "Music"
	LabelArtists      = "Artists"
	LabelCompilations = "Compilations"
	LabelSingles      = "Singles"
	LabelOtherGroup   = "Other"
)

// rule is one guarded branch of the music hierarchy.
type rule struct {
	category Category
	matches  func(tags.Metadata) bool
	build    func(tags.Metadata, string) ([]Segment, error)
}

// musicRules are evaluated top to bottom; the first match wins.
var musicRules = []rule{
	{
		category: CategoryCompilation,
		matches:  tags.Metadata.IsCompilation,
		build:    compilationSegments,
	},
	{
		category: CategorySingle,
		matches:  func(m tags.Metadata) bool { return m.HasCustom(tags.CustomSingle) },
		build:    singleSegments,
	},
	{
		category: CategoryAlbum,
		matches:  func(tags.Metadata) bool { return true },
		build:    albumSegments,
	},
}

// Classify returns the placement of meta. The leaf extension is taken from
// the record's source path.
func Classify(meta tags.Metadata) (Placement, error) {
	ext := Extension(meta.SourcePath())
	switch meta.AudioType() {
	case tags.AudioTypeAudiobook:
		segments, err := audiobookSegments(meta, ext)
		if err != nil {
			return Placement{}, err
		}
		return Placement{Category: CategoryAudiobook, Segments: segments}, nil
	case tags.AudioTypeMusic:
		for _, r := range musicRules {
			if !r.matches(meta) {
				continue
			}
			segments, err := r.build(meta, ext)
			if err != nil {
				return Placement{}, err
			}
			return Placement{Category: r.category, Segments: segments}, nil
		}
		return Placement{}, fmt.Errorf("%w: no music rule matched", ErrUnknownAudioType)
	default:
		return Placement{}, fmt.Errorf("%w: %s", ErrUnknownAudioType, meta.AudioType())
	}
}

func audiobookSegments(meta tags.Metadata, ext string) ([]Segment, error) {
	if _, err := require(meta.Artist(), FieldArtist); err != nil {
		return nil, err
	}
	albumArtist, err := require(meta.AlbumArtist(), FieldAlbumArtist)
	if err != nil {
		return nil, err
	}
	number, err := numberLabel(meta, 3)
	if err != nil {
		return nil, err
	}
	album, err := albumLabel(meta)
	if err != nil {
		return nil, err
	}
	return withLeaf(folders(LabelAudiobooks, albumArtist, album), number, ext), nil
}

func compilationSegments(meta tags.Metadata, ext string) ([]Segment, error) {
	if _, err := require(meta.Artist(), FieldArtist); err != nil {
		return nil, err
	}
	group, ok := meta.Custom(tags.CustomCompilationGroup)
	if !ok {
		group = LabelOtherGroup
	}
	var (
		folder string
		err    error
	)
	if name, ok := meta.Custom(tags.CustomCompilationName); ok {
		// Intentionally stricter than a bare "<year> <name>" join, which turns
		// a missing year into a "null_<name>" folder: without a year this is
		// MissingField(year) unless NOYEAR is set, same as album labels.
		folder, err = yearPrefixed(meta, name)
	} else {
		folder, err = albumLabel(meta)
	}
	if err != nil {
		return nil, err
	}
	title, err := numberedTitleLabel(meta)
	if err != nil {
		return nil, err
	}
	return withLeaf(folders(LabelMusic, LabelCompilations, group, folder), title, ext), nil
}

func singleSegments(meta tags.Metadata, ext string) ([]Segment, error) {
	artist, err := require(meta.Artist(), FieldArtist)
	if err != nil {
		return nil, err
	}
	title, err := require(meta.Title(), FieldTitle)
	if err != nil {
		return nil, err
	}
	return withLeaf(folders(LabelMusic, LabelSingles, artist), title, ext), nil
}

func albumSegments(meta tags.Metadata, ext string) ([]Segment, error) {
	if _, err := require(meta.Artist(), FieldArtist); err != nil {
		return nil, err
	}
	albumArtist, err := require(meta.AlbumArtist(), FieldAlbumArtist)
	if err != nil {
		return nil, err
	}
	album, err := albumLabel(meta)
	if err != nil {
		return nil, err
	}
	title, err := numberedTitleLabel(meta)
	if err != nil {
		return nil, err
	}
	return withLeaf(folders(LabelMusic, LabelArtists, albumArtist, album), title, ext), nil
}

// albumLabel renders "<year> <album>", or the bare album under NOYEAR.
func albumLabel(meta tags.Metadata) (string, error) {
	year, hasYear := meta.Year().Get()
	if !hasYear && !meta.HasCustom(tags.CustomNoYear) {
		return "", missing(FieldYear)
	}
	album, err := require(meta.Album(), FieldAlbum)
	if err != nil {
		return "", err
	}
	if !hasYear {
		return album, nil
	}
	return fmt.Sprintf("%d %s", year, album), nil
}

// yearPrefixed applies the album label year policy to an arbitrary name.
func yearPrefixed(meta tags.Metadata, name string) (string, error) {
	year, hasYear := meta.Year().Get()
	if !hasYear {
		if !meta.HasCustom(tags.CustomNoYear) {
			return "", missing(FieldYear)
		}
		return name, nil
	}
	return fmt.Sprintf("%d %s", year, name), nil
}

// numberedTitleLabel renders "<number> <title>" with two-digit tracks.
func numberedTitleLabel(meta tags.Metadata) (string, error) {
	title, err := require(meta.Title(), FieldTitle)
	if err != nil {
		return "", err
	}
	number, err := numberLabel(meta, 2)
	if err != nil {
		return "", err
	}
	return number + " " + title, nil
}

// numberLabel zero-pads the track to width digits and prefixes "<disk>-"
// when a disk number is present.
func numberLabel(meta tags.Metadata, width int) (string, error) {
	track, ok := meta.Track().Get()
	if !ok {
		return "", missing(FieldTrack)
	}
	if disk, ok := meta.Disk().Get(); ok {
		return fmt.Sprintf("%d-%0*d", disk, width, track), nil
	}
	return fmt.Sprintf("%0*d", width, track), nil
}

func require(f tags.Field[string], name string) (string, error) {
	v, ok := f.Get()
	if !ok {
		return "", missing(name)
	}
	return v, nil
}
