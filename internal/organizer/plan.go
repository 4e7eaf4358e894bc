package organizer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"audiosort/internal/fileutil"
	"audiosort/internal/logging"
	"audiosort/internal/services"
)

// Plan is the dry-run result of a sort: what would move where, and what
// cannot be sorted.
type Plan struct {
	InputDir  string
	OutputDir string
	Mappings  []Mapping
	Failures  []Failure
}

// Empty reports whether the plan found no candidate files at all.
func (p *Plan) Empty() bool {
	return p == nil || len(p.Mappings)+len(p.Failures) == 0
}

type planned struct {
	mapping Mapping
	err     error
}

// Plan walks inputDir and resolves a destination below outputDir for every
// accepted file. Only invalid directories and cancellation are fatal.
func (o *Organizer) Plan(ctx context.Context, inputDir, outputDir string) (*Plan, error) {
	ctx = services.WithStage(ctx, "planning")
	logger := logging.WithContext(ctx, o.logger)

	in, out, err := resolveDirs(inputDir, outputDir)
	if err != nil {
		return nil, err
	}

	files, err := o.collect(ctx, in, out)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected candidate files", logging.Int("count", len(files)), logging.String("input_dir", in))

	results := make([]planned, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Sorter.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileCtx := services.WithSource(gctx, path)
			mapping, err := o.Locate(fileCtx, path, out)
			if err != nil && fileCtx.Err() != nil {
				return fileCtx.Err()
			}
			results[i] = planned{mapping: mapping, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &Plan{InputDir: in, OutputDir: out}
	claimed := make(map[string]string, len(results))
	for i, res := range results {
		source := files[i]
		if res.err != nil {
			plan.Failures = append(plan.Failures, Failure{Source: source, Err: res.err})
			continue
		}
		if err := o.checkDestination(res.mapping, claimed); err != nil {
			plan.Failures = append(plan.Failures, Failure{Source: source, Destination: res.mapping.Destination, Err: err})
			continue
		}
		claimed[res.mapping.Destination] = source
		plan.Mappings = append(plan.Mappings, res.mapping)
	}

	for _, failure := range plan.Failures {
		logging.WithContext(services.WithSource(ctx, failure.Source), o.logger).Debug(
			"file not sortable",
			logging.String("outcome", string(failure.Outcome())),
			logging.Error(failure.Err),
		)
	}
	logger.Info(
		"plan ready",
		logging.Int("mappings", len(plan.Mappings)),
		logging.Int("failures", len(plan.Failures)),
		logging.Bool("overwrite_existing", o.cfg.Library.OverwriteExisting),
	)
	return plan, nil
}

// checkDestination rejects a second source for one destination and, unless
// overwriting is enabled, files that already exist.
func (o *Organizer) checkDestination(m Mapping, claimed map[string]string) error {
	if first, ok := claimed[m.Destination]; ok {
		return services.Wrap(services.ErrConflict, "planning", "check destination",
			fmt.Sprintf("destination already planned for %s", first), nil)
	}
	if o.cfg.Library.OverwriteExisting {
		return nil
	}
	exists, err := fileutil.Exists(m.Destination)
	if err != nil {
		return services.Wrap(services.ErrTransient, "planning", "check destination", "stat destination", err)
	}
	if exists {
		return services.Wrap(services.ErrConflict, "planning", "check destination", "destination exists", nil)
	}
	return nil
}

func resolveDirs(inputDir, outputDir string) (string, string, error) {
	if strings.TrimSpace(inputDir) == "" || strings.TrimSpace(outputDir) == "" {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "resolve directories",
			"input and output directories are required (set -i/-o or paths.input_dir/paths.output_dir)", nil)
	}
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "resolve input", inputDir, err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "resolve output", outputDir, err)
	}
	if in == out {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "resolve directories",
			"input and output directories must differ", nil)
	}
	if err := fileutil.RequireDir(in, false); err != nil {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "validate input", "input directory is not usable", err)
	}
	if err := fileutil.RequireDir(out, true); err != nil {
		return "", "", services.Wrap(services.ErrConfiguration, "planning", "validate output", "output directory is not writable", err)
	}
	return in, out, nil
}

// collect lists accepted regular files below in, lexically sorted. An output
// directory nested inside the input tree is not descended into.
func (o *Organizer) collect(ctx context.Context, in, out string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path == out {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if o.cfg.AcceptsExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrTransient, "planning", "walk input", in, err)
	}
	return files, nil
}
