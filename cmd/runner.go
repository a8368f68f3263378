package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/siswa/internal/app"
	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/metrics"
	"github.com/desertthunder/siswa/internal/repositories"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/store"
	"github.com/desertthunder/siswa/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage is opened lazily by the first command that needs it.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	clock      shared.Clock
	metrics    *metrics.Metrics
	backend    kv.Store
	sink       tasks.Sink
	slips      *tasks.SlipEngine
	session    *app.Session
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader    // answers to confirmation prompts
	Clock      shared.Clock // fixed clocks also pin the slip print time
	Backend    kv.Store     // overrides the configured storage driver
	Sink       tasks.Sink   // overrides the export output directory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		clock:      opts.Clock,
		metrics:    metrics.New(true),
		backend:    opts.Backend,
		sink:       opts.Sink,
	}
	if opts.Input != nil {
		r.input = bufio.NewReader(opts.Input)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, studentCommand, dashboardCommand, exportCommand, themeCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// rootCommand is the siswa application with its global flags.
func (r *Runner) rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "siswa",
		Usage:   "Manage student registrations for MAM 1 Paciran",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SISWA_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("SISWA_DEBUG"),
			},
		},
		Before:   r.LoadConfig,
		Commands: r.register(),
	}
}

// LoadConfig reads the file named by the --config flag, keeping defaults when it does not exist.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.configPath = path
	return ctx, nil
}

// SetLogger replaces the logger used by commands opened after this call, keeping the current level.
func (r *Runner) SetLogger(l *log.Logger) {
	shared.SetLogLevel(l, r.logger.GetLevel())
	r.logger = l
}

// open builds the session on first use.
func (r *Runner) open(ctx context.Context) (*app.Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	if r.backend == nil {
		backend, err := kv.Open(ctx, r.config)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		r.backend = backend
	}
	r.logger.Debug("storage opened", "driver", r.backend.Driver())
	backend := r.metrics.Instrument(r.backend)

	opts := []store.Option{store.WithLogger(shared.WithLogger(r.logger, "component", "store"))}
	if r.clock != nil {
		opts = append(opts, store.WithClock(r.clock))
	}
	st, err := store.Open(ctx, repositories.NewStudentRepository(backend), opts...)
	if err != nil {
		return nil, err
	}

	slips, err := r.slipEngine()
	if err != nil {
		return nil, err
	}

	session, err := app.New(ctx, app.Options{
		Store:    st,
		Themes:   repositories.NewThemeRepository(backend),
		Slips:    slips,
		Logger:   shared.WithLogger(r.logger, "component", "session"),
		Observer: r.metrics,
		Clock:    r.clock,
	})
	if err != nil {
		return nil, err
	}
	r.session = session
	return session, nil
}

func (r *Runner) slipEngine() (*tasks.SlipEngine, error) {
	if r.slips != nil {
		return r.slips, nil
	}
	if r.sink == nil {
		dir, err := kv.NewFile(r.config.Export.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare output directory: %w", err)
		}
		r.sink = dir
	}

	opts := formatter.SlipOptions{
		School:   r.config.Export.School,
		Subtitle: r.config.Export.Subtitle,
		Fee:      r.config.Export.Fee,
	}
	if r.clock != nil {
		opts.Now = r.clock()
	}
	r.slips = tasks.NewSlipEngine(r.sink, opts, shared.WithLogger(r.logger, "component", "slips"))
	return r.slips, nil
}

// Close releases the storage backend.
func (r *Runner) Close() error {
	if r.backend == nil {
		return nil
	}
	err := r.backend.Close()
	r.backend = nil
	r.session = nil
	return err
}

// confirm asks prompt on the output and reports whether the answer was yes.
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N]: ", prompt)
	if r.input == nil {
		r.writePlain("\n")
		return false
	}

	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "ya", "yes":
		return true
	}
	return false
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeNotification prints the session's last notification.
func (r *Runner) writeNotification(n app.Notification) error {
	if n.IsZero() {
		return nil
	}
	if n.Kind == app.KindError {
		return r.writePlain("✗ %s\n", n.Message)
	}
	return r.writePlain("✓ %s\n", n.Message)
}
