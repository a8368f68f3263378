package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/tasks"
)

// ExportSlip writes the registration slip of one student to the export directory.
func (r *Runner) ExportSlip(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: student id", shared.ErrMissingArgument)
	}
	format, err := tasks.ParseSlipFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	key, err := session.ExportSlip(ctx, id, format)
	if err != nil {
		return err
	}
	r.writeNotification(session.Notification())
	return r.writePlain("%s\n", r.exportPath(key))
}

// ExportAll renders every slip through the bulk export worker pool.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := tasks.ParseSlipFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	engine, err := r.slipEngine()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		NumWorkers: r.config.Export.Workers,
		RateLimit:  r.config.Export.RateLimit,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}
	if cmd.IsSet("rate-limit") {
		opts.RateLimit = cmd.Float("rate-limit")
	}

	students := session.Students()
	r.logger.Info("starting bulk export", "students", len(students), "format", format, "workers", opts.NumWorkers)

	asJSON := cmd.Bool("json")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON {
				continue
			}
			switch update.Phase {
			case tasks.RenderSlip:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.BulkExport(ctx, progressCh, students, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}
	if asJSON {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Slips: %d/%d\n", result.Successful, result.Total)
	r.writePlain("Manifest: %s\n", r.exportPath(result.ManifestKey))
	if result.Failed > 0 {
		r.writePlain("\nFailed to export %d slips:\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s (%s): %s\n", res.Name, res.StudentID, res.ErrorText)
			}
		}
	}
	return nil
}

// ExportRoster writes the student list as CSV, Markdown or text.
func (r *Runner) ExportRoster(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	data, err := formatter.Roster(session.Students(), format)
	if err != nil {
		return fmt.Errorf("failed to render roster: %w", err)
	}

	path := cmd.String("output")
	if path == "" {
		_, err := r.output.Write(data)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	r.logger.Info("roster exported", "path", path, "students", len(session.Students()))
	return r.writePlain("✓ Roster saved to %s\n", path)
}

// exportPath describes where key was written.
func (r *Runner) exportPath(key string) string {
	if dir, ok := r.sink.(interface{ Root() string }); ok {
		return filepath.Join(dir.Root(), key)
	}
	return key
}
