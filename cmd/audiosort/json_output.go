package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"audiosort/internal/history"
	"audiosort/internal/organizer"
)

type mappingJSON struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Category    string `json:"category"`
}

type failureJSON struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Outcome     string `json:"outcome"`
	Error       string `json:"error"`
}

type applyJSON struct {
	RunID    string        `json:"run_id"`
	Moved    int           `json:"moved"`
	Failures []failureJSON `json:"failures"`
}

type planJSON struct {
	InputDir  string        `json:"input_dir"`
	OutputDir string        `json:"output_dir"`
	Mappings  []mappingJSON `json:"mappings"`
	Failures  []failureJSON `json:"failures"`
	Applied   *applyJSON    `json:"applied,omitempty"`
}

type runJSON struct {
	ID         string     `json:"id"`
	InputDir   string     `json:"input_dir"`
	OutputDir  string     `json:"output_dir"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Moved      int        `json:"moved"`
	Failed     int        `json:"failed"`
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPlanJSON(plan *organizer.Plan) planJSON {
	out := planJSON{
		InputDir:  plan.InputDir,
		OutputDir: plan.OutputDir,
		Mappings:  make([]mappingJSON, 0, len(plan.Mappings)),
		Failures:  failuresJSON(plan.Failures),
	}
	for _, m := range plan.Mappings {
		out.Mappings = append(out.Mappings, mappingJSON{
			Source:      m.Source,
			Destination: m.Destination,
			Category:    string(m.Category),
		})
	}
	return out
}

func newApplyJSON(result *organizer.Result) *applyJSON {
	if result == nil {
		return nil
	}
	return &applyJSON{
		RunID:    result.RunID,
		Moved:    len(result.Moved),
		Failures: failuresJSON(result.Failures),
	}
}

func failuresJSON(failures []organizer.Failure) []failureJSON {
	out := make([]failureJSON, 0, len(failures))
	for _, f := range failures {
		out = append(out, failureJSON{
			Source:      f.Source,
			Destination: f.Destination,
			Outcome:     string(f.Outcome()),
			Error:       f.Err.Error(),
		})
	}
	return out
}

func newRunJSON(run history.Run) runJSON {
	return runJSON{
		ID:         run.ID,
		InputDir:   run.InputDir,
		OutputDir:  run.OutputDir,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Moved:      run.MovedCount,
		Failed:     run.FailedCount,
	}
}
