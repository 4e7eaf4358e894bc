package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"audiosort/internal/classify"
	"audiosort/internal/config"
	"audiosort/internal/history"
	"audiosort/internal/logging"
	"audiosort/internal/organizer"
	"audiosort/internal/services"
	"audiosort/internal/testsupport"
)

func albumTrack(title, track string) testsupport.Track {
	return testsupport.Track{
		Artist:      "Q",
		AlbumArtist: "Q",
		Album:       "R",
		Year:        "2001",
		Track:       track,
		Title:       title,
	}
}

func newOrganizer(t *testing.T, cfg *config.Config) (*organizer.Organizer, *history.Store) {
	t.Helper()
	store := testsupport.MustOpenJournal(t, cfg)
	return organizer.New(cfg, store, logging.NewNop()), store
}

func TestPlanMapsTaggedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in, out := cfg.Paths.InputDir, cfg.Paths.OutputDir

	testsupport.WriteTaggedMP3(t, filepath.Join(in, "b", "track.mp3"), albumTrack("S", "3"))
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "a", "single.MP3"), testsupport.Track{
		Artist: "Solo",
		Title:  "Hit Song",
		Custom: map[string]string{"SINGLE": "1"},
	})
	testsupport.WriteFile(t, filepath.Join(in, "c", "untagged.mp3"), 128)
	testsupport.WriteFile(t, filepath.Join(in, "c", "cover.jpg"), 128)

	o, _ := newOrganizer(t, cfg)
	plan, err := o.Plan(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	if len(plan.Mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %+v", plan.Mappings)
	}
	want := []organizer.Mapping{
		{Source: filepath.Join(in, "a", "single.MP3"), Destination: filepath.Join(out, "music", "singles", "solo", "hit_song.MP3"), Category: classify.CategorySingle},
		{Source: filepath.Join(in, "b", "track.mp3"), Destination: filepath.Join(out, "music", "artists", "q", "2001_r", "03_s.mp3"), Category: classify.CategoryAlbum},
	}
	for i, m := range plan.Mappings {
		if m != want[i] {
			t.Errorf("mapping %d = %+v, want %+v", i, m, want[i])
		}
	}

	if len(plan.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", plan.Failures)
	}
	failure := plan.Failures[0]
	if failure.Source != filepath.Join(in, "c", "untagged.mp3") {
		t.Fatalf("unexpected failure source %q", failure.Source)
	}
	if failure.Outcome() != history.OutcomeSkipped {
		t.Fatalf("failure outcome = %q, want skipped", failure.Outcome())
	}
	if plan.Empty() {
		t.Fatal("plan should not be empty")
	}
}

func TestPlanReportsMissingField(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	track := albumTrack("S", "3")
	track.Year = ""
	testsupport.WriteTaggedMP3(t, filepath.Join(cfg.Paths.InputDir, "x.mp3"), track)

	o, _ := newOrganizer(t, cfg)
	plan, err := o.Plan(context.Background(), cfg.Paths.InputDir, cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", plan)
	}
	if field, ok := classify.MissingField(plan.Failures[0].Err); !ok || field != classify.FieldYear {
		t.Fatalf("expected missing year, got %v", plan.Failures[0].Err)
	}
}

func TestPlanDetectsDuplicateDestination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in := cfg.Paths.InputDir
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "1.mp3"), albumTrack("S", "3"))
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "2.mp3"), albumTrack("S", "3/12"))

	o, _ := newOrganizer(t, cfg)
	plan, err := o.Plan(context.Background(), in, cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Mappings) != 1 || plan.Mappings[0].Source != filepath.Join(in, "1.mp3") {
		t.Fatalf("expected first file to keep the destination, got %+v", plan.Mappings)
	}
	if len(plan.Failures) != 1 {
		t.Fatalf("expected one conflict, got %+v", plan.Failures)
	}
	if !errors.Is(plan.Failures[0].Err, services.ErrConflict) || plan.Failures[0].Outcome() != history.OutcomeConflict {
		t.Fatalf("expected conflict failure, got %v", plan.Failures[0].Err)
	}
}

func TestPlanExistingDestination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in, out := cfg.Paths.InputDir, cfg.Paths.OutputDir
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "1.mp3"), albumTrack("S", "3"))
	testsupport.WriteFile(t, filepath.Join(out, "music", "artists", "q", "2001_r", "03_s.mp3"), 4)

	o, _ := newOrganizer(t, cfg)
	plan, err := o.Plan(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Mappings) != 0 || len(plan.Failures) != 1 || plan.Failures[0].Outcome() != history.OutcomeConflict {
		t.Fatalf("expected existing destination conflict, got %+v", plan)
	}

	cfg.Library.OverwriteExisting = true
	plan, err = o.Plan(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Mappings) != 1 {
		t.Fatalf("expected overwrite to allow the mapping, got %+v", plan)
	}
}

func TestPlanRejectsInvalidDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	o, _ := newOrganizer(t, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		in, out string
	}{
		{"missing input", filepath.Join(cfg.Paths.InputDir, "nope"), cfg.Paths.OutputDir},
		{"missing output", cfg.Paths.InputDir, filepath.Join(cfg.Paths.OutputDir, "nope")},
		{"same directory", cfg.Paths.InputDir, cfg.Paths.InputDir},
		{"empty input", "", cfg.Paths.OutputDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Plan(ctx, tt.in, tt.out)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestPlanSkipsNestedOutputDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in := cfg.Paths.InputDir
	out := filepath.Join(in, "sorted")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteTaggedMP3(t, filepath.Join(out, "music", "already.mp3"), albumTrack("Other", "9"))
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "new.mp3"), albumTrack("S", "3"))

	o, _ := newOrganizer(t, cfg)
	plan, err := o.Plan(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Mappings) != 1 || plan.Mappings[0].Source != filepath.Join(in, "new.mp3") {
		t.Fatalf("expected only the new file to be planned, got %+v", plan)
	}
}

func TestPlanHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTaggedMP3(t, filepath.Join(cfg.Paths.InputDir, "1.mp3"), albumTrack("S", "3"))
	o, _ := newOrganizer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Plan(ctx, cfg.Paths.InputDir, cfg.Paths.OutputDir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestApplyMovesFilesAndJournals(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in, out := cfg.Paths.InputDir, cfg.Paths.OutputDir
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "1.mp3"), albumTrack("S", "3"))
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "2.mp3"), albumTrack("T", "4"))
	testsupport.WriteFile(t, filepath.Join(in, "broken.mp3"), 16)

	o, store := newOrganizer(t, cfg)
	ctx := context.Background()
	plan, err := o.Plan(ctx, in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	result, err := o.Apply(ctx, plan)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(result.Moved) != 2 || len(result.Failures) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, m := range result.Moved {
		if _, err := os.Stat(m.Destination); err != nil {
			t.Fatalf("expected %s to exist: %v", m.Destination, err)
		}
		if _, err := os.Stat(m.Source); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected %s to be moved away, got %v", m.Source, err)
		}
	}
	if _, err := os.Stat(filepath.Join(in, "broken.mp3")); err != nil {
		t.Fatalf("failed file should stay in place: %v", err)
	}

	run, err := store.GetRun(ctx, result.RunID)
	if err != nil || run == nil {
		t.Fatalf("expected journaled run, got %+v, %v", run, err)
	}
	if run.Status != history.RunCompleted || run.MovedCount != 2 || run.FailedCount != 1 {
		t.Fatalf("unexpected run summary: %+v", run)
	}
	moves, err := store.ListMoves(ctx, result.RunID)
	if err != nil {
		t.Fatalf("ListMoves failed: %v", err)
	}
	if len(moves) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(moves))
	}
	if moves[0].Outcome != history.OutcomeSkipped || moves[0].Source != filepath.Join(in, "broken.mp3") {
		t.Fatalf("expected the skipped file first, got %+v", moves[0])
	}
}

func TestApplyContinuesAfterMoveFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	in, out := cfg.Paths.InputDir, cfg.Paths.OutputDir
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "1.mp3"), albumTrack("S", "3"))
	testsupport.WriteTaggedMP3(t, filepath.Join(in, "2.mp3"), albumTrack("T", "4"))

	o, store := newOrganizer(t, cfg)
	ctx := context.Background()
	plan, err := o.Plan(ctx, in, out)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	// the first source disappears between planning and applying
	if err := os.Remove(filepath.Join(in, "1.mp3")); err != nil {
		t.Fatal(err)
	}

	result, err := o.Apply(ctx, plan)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].Source != filepath.Join(in, "1.mp3") {
		t.Fatalf("expected first file to fail, got %+v", result.Failures)
	}
	if result.Failures[0].Outcome() != history.OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", result.Failures[0].Outcome())
	}
	if len(result.Moved) != 1 || result.Moved[0].Source != filepath.Join(in, "2.mp3") {
		t.Fatalf("expected second file to move, got %+v", result.Moved)
	}

	run, err := store.GetRun(ctx, result.RunID)
	if err != nil || run == nil {
		t.Fatalf("GetRun: %+v, %v", run, err)
	}
	if run.MovedCount != 1 || run.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", run)
	}
}

func TestApplyRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	held := flock.New(cfg.LockPath())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock: %v", err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	o, _ := newOrganizer(t, cfg)
	_, err = o.Apply(context.Background(), &organizer.Plan{InputDir: cfg.Paths.InputDir, OutputDir: cfg.Paths.OutputDir})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestApplyWithoutJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	o := organizer.New(cfg, nil, logging.NewNop())
	if _, err := o.Apply(context.Background(), &organizer.Plan{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLocateRelativeDestination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InputDir, "book.mp3")
	testsupport.WriteTaggedMP3(t, path, testsupport.Track{
		Artist:      "Reader",
		AlbumArtist: "Author",
		Album:       "Book",
		Year:        "2015",
		Track:       "7",
		Custom:      map[string]string{"AUDIOBOOK": "1"},
	})

	o := organizer.New(cfg, nil, logging.NewNop())
	m, err := o.Locate(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	want := filepath.Join("audiobooks", "author", "2015_book", "007.mp3")
	if m.Destination != want || m.Category != classify.CategoryAudiobook {
		t.Fatalf("Locate = %+v, want destination %q", m, want)
	}
}
