package organizer

import (
	"context"
	"log/slog"

	"audiosort/internal/classify"
	"audiosort/internal/config"
	"audiosort/internal/history"
	"audiosort/internal/layout"
	"audiosort/internal/logging"
	"audiosort/internal/tags"
	"audiosort/internal/textutil"
)

// Journal records applied runs. *history.Store satisfies it.
type Journal interface {
	BeginRun(ctx context.Context, inputDir, outputDir string) (*history.Run, error)
	RecordMove(ctx context.Context, move history.Move) error
	FinishRun(ctx context.Context, runID string, status history.RunStatus) error
}

// Organizer turns tagged files into destination paths and moves them there.
type Organizer struct {
	cfg     *config.Config
	reader  tags.Reader
	builder layout.Builder
	journal Journal
	logger  *slog.Logger
}

// New constructs an organizer reading ID3v2 tags.
func New(cfg *config.Config, journal Journal, logger *slog.Logger) *Organizer {
	return NewWithDependencies(cfg, tags.NewID3Reader(), journal, logger)
}

// NewWithDependencies allows injecting collaborators (used in tests). A nil
// journal disables Apply.
func NewWithDependencies(cfg *config.Config, reader tags.Reader, journal Journal, logger *slog.Logger) *Organizer {
	return &Organizer{
		cfg:     cfg,
		reader:  reader,
		builder: layout.NewBuilder(textutil.NewSanitizer(cfg.Sorter.MaxNameLength)),
		journal: journal,
		logger:  logging.NewComponentLogger(logger, "organizer"),
	}
}

// Locate reads path and returns where it belongs below outputDir. An empty
// outputDir yields a relative destination.
func (o *Organizer) Locate(ctx context.Context, path, outputDir string) (Mapping, error) {
	meta, err := o.reader.Read(ctx, path)
	if err != nil {
		return Mapping{}, err
	}
	placement, err := classify.Classify(meta)
	if err != nil {
		return Mapping{}, err
	}
	dest, err := o.builder.Destination(outputDir, placement)
	if err != nil {
		return Mapping{}, err
	}
	return Mapping{Source: path, Destination: dest, Category: placement.Category}, nil
}
