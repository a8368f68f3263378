package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/siswa/internal/app"
	"github.com/desertthunder/siswa/internal/form"
	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/views"
)

// StudentAdd registers a new student from flags.
func (r *Runner) StudentAdd(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	st, err := session.Create(ctx, form.Input{
		Name:       cmd.String("name"),
		Birthplace: cmd.String("birthplace"),
		Birthdate:  cmd.String("birthdate"),
		Class:      cmd.String("class"),
		Track:      cmd.String("track"),
		Address:    cmd.String("address"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(st, cmd.Bool("pretty"))
	}
	r.writeNotification(session.Notification())
	r.writePlain("ID: %s\n", st.ID)
	r.writePlain("Nomor Pendaftaran: %s\n", formatter.RegistrationNumber(st.ID))
	r.writePlain("Usia: %s\n", st.Age)
	return nil
}

// StudentEdit changes the fields given as flags and keeps the rest.
func (r *Runner) StudentEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: student id", shared.ErrMissingArgument)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	st, err := session.Update(ctx, id, func(in *form.Input) {
		for flag, dst := range map[string]*string{
			"name":       &in.Name,
			"birthplace": &in.Birthplace,
			"birthdate":  &in.Birthdate,
			"class":      &in.Class,
			"track":      &in.Track,
			"address":    &in.Address,
		} {
			if cmd.IsSet(flag) {
				*dst = cmd.String(flag)
			}
		}
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(st, cmd.Bool("pretty"))
	}
	r.writeNotification(session.Notification())
	return r.writeStudent(st)
}

// StudentList prints every student in registration order.
func (r *Runner) StudentList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	table := session.Snapshot().Table
	if cmd.Bool("json") {
		return r.writeJSON(table, cmd.Bool("pretty"))
	}
	if table.Empty {
		return r.writePlain("%s\n", table.Message)
	}
	r.writeRows(table.Rows)
	return r.writePlainln("Total: %d siswa", len(table.Rows))
}

// StudentShow prints one student.
func (r *Runner) StudentShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: student id", shared.ErrMissingArgument)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	st, ok := session.Student(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}
	if cmd.Bool("json") {
		return r.writeJSON(st, cmd.Bool("pretty"))
	}
	return r.writeStudent(st)
}

// StudentSearch runs a case-insensitive search over name, class and track.
func (r *Runner) StudentSearch(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	result := session.Search(cmd.StringArg("query"))
	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}
	if result.State != views.SearchMatches {
		return r.writePlain("%s\n", result.Message)
	}
	r.writePlain("%d hasil untuk %q\n\n", len(result.Rows), result.Query)
	r.writeRows(result.Rows)
	return nil
}

// StudentDelete removes a student after confirmation.
func (r *Runner) StudentDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: student id", shared.ErrMissingArgument)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	if st, ok := session.Student(id); ok {
		r.writePlain("%s (%s, kelas %s %s)\n", st.Name, st.ID, st.Class, st.Track)
	}
	confirmed := cmd.Bool("yes") || r.confirm(app.PromptDelete)
	if err := session.Delete(ctx, id, confirmed); err != nil {
		return err
	}
	return r.writeNotification(session.Notification())
}

// StudentClear removes every student after two confirmations.
func (r *Runner) StudentClear(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	first := cmd.Bool("yes") || r.confirm(app.PromptClear)
	second := first && (cmd.Bool("yes-again") || r.confirm(app.PromptClearAgain))
	if err := session.Clear(ctx, first, second); err != nil {
		return err
	}
	return r.writeNotification(session.Notification())
}

func (r *Runner) writeStudent(st models.Student) error {
	r.writePlainHeader(st.Name)
	r.writePlain("ID:                %s\n", st.ID)
	r.writePlain("Nomor Pendaftaran: %s\n", formatter.RegistrationNumber(st.ID))
	r.writePlain("Tempat Lahir:      %s\n", st.Birthplace)
	r.writePlain("Tanggal Lahir:     %s\n", st.Birthdate)
	r.writePlain("Usia:              %s\n", st.Age)
	r.writePlain("Kelas:             %s\n", st.Class)
	r.writePlain("Jurusan:           %s\n", st.Track)
	r.writePlain("Alamat:            %s\n", st.Address)
	return r.writePlain("Terdaftar:         %s\n", formatter.LongDate(st.RegisteredAt.Local()))
}

func (r *Runner) writeRows(rows []views.Row) {
	for _, row := range rows {
		r.writePlain("%3d. %-24s %-5s %-10s %s\n", row.No, row.Name, row.Class, row.Track, row.ID)
		r.writePlain("     %s • %s\n", row.BirthInfo(), strings.TrimSpace(row.Age))
	}
}

// Dashboard prints totals per class and per track.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	d := session.Snapshot().Dashboard
	if cmd.Bool("json") {
		return r.writeJSON(d, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Dashboard")
	r.writePlain("Total Siswa: %d\n", d.Total)
	for _, c := range d.Classes {
		r.writePlain("Kelas %-4s   %d\n", c.Label, c.Count)
	}
	r.writePlainln("Statistik per Jurusan")
	if d.Empty {
		return r.writePlain("%s\n", d.Message)
	}
	for _, t := range d.Tracks {
		r.writePlain("  %-12s %d siswa\n", t.Label, t.Count)
	}
	return nil
}
