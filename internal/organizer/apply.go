package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"audiosort/internal/fileutil"
	"audiosort/internal/history"
	"audiosort/internal/logging"
	"audiosort/internal/services"
)

// Result summarizes an applied plan.
type Result struct {
	RunID    string
	Moved    []Mapping
	Failures []Failure
}

// Apply moves every mapping of plan into place. Plan failures are journaled
// alongside the moves. Per-file move errors are logged and collected; only
// lock and journal problems or cancellation abort the run.
func (o *Organizer) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	if o.journal == nil {
		return nil, services.Wrap(services.ErrConfiguration, "applying", "open journal", "no journal configured", nil)
	}
	if plan == nil {
		return nil, services.Wrap(services.ErrValidation, "applying", "validate plan", "plan is nil", nil)
	}
	if err := o.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "applying", "ensure state dir", "", err)
	}

	lock := flock.New(o.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "applying", "acquire lock", o.cfg.LockPath(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "applying", "acquire lock",
			"another audiosort sort is running against this state directory", nil)
	}
	defer func() { _ = lock.Unlock() }()

	run, err := o.journal.BeginRun(ctx, plan.InputDir, plan.OutputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "applying", "begin run", "", err)
	}
	ctx = services.WithStage(services.WithRunID(ctx, run.ID), "applying")
	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()
	logger.Info("applying plan", logging.Int("mappings", len(plan.Mappings)), logging.Int("failures", len(plan.Failures)))

	result := &Result{RunID: run.ID}
	for _, failure := range plan.Failures {
		if err := o.record(ctx, run.ID, failure.Source, failure.Destination, "", failure.Outcome(), failure.Err); err != nil {
			return o.abort(ctx, run.ID, result, err)
		}
		result.Failures = append(result.Failures, failure)
	}

	for _, mapping := range plan.Mappings {
		if err := ctx.Err(); err != nil {
			return o.abort(ctx, run.ID, result, err)
		}
		fileCtx := services.WithSource(ctx, mapping.Source)
		if err := o.move(mapping); err != nil {
			failure := Failure{Source: mapping.Source, Destination: mapping.Destination, Err: err}
			logging.WarnWithContext(logging.WithContext(fileCtx, o.logger), "move failed", "move_failed",
				logging.String("destination", mapping.Destination),
				logging.Error(err),
			)
			result.Failures = append(result.Failures, failure)
			if err := o.record(ctx, run.ID, mapping.Source, mapping.Destination, string(mapping.Category), failure.Outcome(), err); err != nil {
				return o.abort(ctx, run.ID, result, err)
			}
			continue
		}
		logging.WithContext(fileCtx, o.logger).Debug("moved", logging.String("destination", mapping.Destination))
		result.Moved = append(result.Moved, mapping)
		if err := o.record(ctx, run.ID, mapping.Source, mapping.Destination, string(mapping.Category), history.OutcomeMoved, nil); err != nil {
			return o.abort(ctx, run.ID, result, err)
		}
	}

	if err := o.journal.FinishRun(ctx, run.ID, history.RunCompleted); err != nil {
		return result, services.Wrap(services.ErrTransient, "applying", "finish run", "", err)
	}
	logger.Info("run completed",
		logging.Int("moved", len(result.Moved)),
		logging.Int("failed", len(result.Failures)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// move re-checks the destination, since the plan may be stale, then moves
// the file into a freshly created parent directory.
func (o *Organizer) move(m Mapping) error {
	if !o.cfg.Library.OverwriteExisting {
		exists, err := fileutil.Exists(m.Destination)
		if err != nil {
			return services.Wrap(services.ErrTransient, "applying", "check destination", "stat destination", err)
		}
		if exists {
			return services.Wrap(services.ErrConflict, "applying", "check destination", "destination exists", nil)
		}
	}
	if err := os.MkdirAll(filepath.Dir(m.Destination), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "applying", "create directories", filepath.Dir(m.Destination), err)
	}
	if err := fileutil.MoveFile(m.Source, m.Destination); err != nil {
		return services.Wrap(services.ErrTransient, "applying", "move file", "", err)
	}
	return nil
}

func (o *Organizer) record(ctx context.Context, runID, source, dest, category string, outcome history.Outcome, cause error) error {
	move := history.Move{
		RunID:       runID,
		Source:      source,
		Destination: dest,
		Category:    category,
		Outcome:     outcome,
	}
	if cause != nil {
		move.Error = cause.Error()
	}
	if err := o.journal.RecordMove(ctx, move); err != nil {
		return services.Wrap(services.ErrTransient, "applying", "record move", source, err)
	}
	return nil
}

// abort closes the run as aborted. The journal write uses a fresh context so
// cancellation still gets recorded.
func (o *Organizer) abort(ctx context.Context, runID string, result *Result, cause error) (*Result, error) {
	if err := o.journal.FinishRun(context.WithoutCancel(ctx), runID, history.RunAborted); err != nil {
		cause = errors.Join(cause, err)
	}
	logging.WarnWithContext(logging.WithContext(ctx, o.logger), "run aborted", "run_aborted", logging.Error(cause))
	return result, cause
}
