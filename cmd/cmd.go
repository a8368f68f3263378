// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func studentFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name", Required: required},
		&cli.StringFlag{Name: "birthplace", Usage: "Place of birth", Required: required},
		&cli.StringFlag{Name: "birthdate", Aliases: []string{"b"}, Usage: "Date of birth (DD/MM/YYYY)", Required: required},
		&cli.StringFlag{Name: "class", Usage: "Class: X, XI or XII", Required: required},
		&cli.StringFlag{Name: "track", Usage: "Track (jurusan), e.g. IPA", Required: required},
		&cli.StringFlag{Name: "address", Usage: "Home address", Required: required},
	}
}

// setupCommand writes the config file and prepares storage
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize storage",
		Action: r.Setup,
	}
}

// studentCommand handles record CRUD
func studentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "student",
		Aliases: []string{"siswa", "s"},
		Usage:   "Add, edit, list, search and delete students",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Register a new student",
				Flags:  append(studentFlags(true), jsonFlags()...),
				Action: r.StudentAdd,
			},
			{
				Name:      "edit",
				Usage:     "Change fields of a student; unset flags keep their value",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     append(studentFlags(false), jsonFlags()...),
				Action:    r.StudentEdit,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List every student in registration order",
				Flags:   jsonFlags(),
				Action:  r.StudentList,
			},
			{
				Name:      "show",
				Usage:     "Show one student",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.StudentShow,
			},
			{
				Name:      "search",
				Usage:     "Search by name, class or track",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     jsonFlags(),
				Action:    r.StudentSearch,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a student",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
				},
				Action: r.StudentDelete,
			},
			{
				Name:  "clear",
				Usage: "Delete every student",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "Answer the first confirmation"},
					&cli.BoolFlag{Name: "yes-again", Usage: "Answer the second confirmation"},
				},
				Action: r.StudentClear,
			},
		},
	}
}

// dashboardCommand prints the aggregate counts
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Show totals per class and per track",
		Flags:  jsonFlags(),
		Action: r.Dashboard,
	}
}

// exportCommand handles registration slips and rosters
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export registration slips and rosters",
		Commands: []*cli.Command{
			{
				Name:      "slip",
				Usage:     "Export the registration slip (Bukti Pendaftaran) of one student",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "pdf or text", Value: "pdf"},
				},
				Action: r.ExportSlip,
			},
			{
				Name:  "all",
				Usage: "Export the slip of every student",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "pdf or text", Value: "pdf"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent renderers (default from config)"},
					&cli.FloatFlag{Name: "rate-limit", Usage: "Slips per second (default from config)"},
				}, jsonFlags()...),
				Action: r.ExportAll,
			},
			{
				Name:  "roster",
				Usage: "Export the student list as CSV, Markdown or text",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown or text", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (default: stdout)"},
				},
				Action: r.ExportRoster,
			},
		},
	}
}

// themeCommand reads and flips the saved theme
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or toggle the light/dark theme",
		Commands: []*cli.Command{
			{Name: "show", Usage: "Print the saved theme", Action: r.ThemeShow},
			{Name: "toggle", Usage: "Switch between light and dark", Action: r.ThemeToggle},
		},
	}
}

// serveCommand runs the JSON API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and /metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the dashboard endpoint in a browser"},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
