package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsaver/internal/services"
	"github.com/desertthunder/plsaver/internal/shared"
	"github.com/desertthunder/plsaver/internal/tasks"
	"github.com/desertthunder/plsaver/internal/ui"
)

// Connector opens an authorized catalog for the loaded configuration.
type Connector func(ctx context.Context, config *shared.Config, logger *log.Logger, output io.Writer) (services.Catalog, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	connect Connector
	saver   *tasks.Saver
	logger  *log.Logger
	input   *bufio.Reader
	output  io.Writer
	painter ui.Painter
	lookup  func(string) (string, bool)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config              // skips loading from --config/--env-file when set
	Connect Connector                   // defaults to the Spotify OAuth flow
	Logger  *log.Logger                 // defaults to stderr
	Input   io.Reader                   // menu input, defaults to [os.Stdin]
	Output  io.Writer                   // defaults to [os.Stdout]
	Lookup  func(string) (string, bool) // environment lookup, defaults to [os.LookupEnv]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Connect == nil {
		opts.Connect = connectSpotify
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	return &Runner{
		config:  opts.Config,
		connect: opts.Connect,
		logger:  opts.Logger,
		input:   bufio.NewReader(opts.Input),
		output:  opts.Output,
		painter: ui.NewPainter(ui.ColorEnabled(opts.Output, opts.Lookup)),
		lookup:  opts.Lookup,
	}
}

// connectSpotify runs the browser OAuth flow and verifies the resulting session.
func connectSpotify(ctx context.Context, config *shared.Config, logger *log.Logger, output io.Writer) (services.Catalog, error) {
	auth, err := services.NewAuthenticator(config.Credentials.Spotify, services.AuthOpts{
		CallbackAddr: config.Server.CallbackAddr,
		Timeout:      config.Server.Timeout(),
		Logger:       logger,
		Output:       output,
	})
	if err != nil {
		return nil, err
	}

	session, err := auth.Session(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// session authenticates once per process. Credentials are validated before any network access.
func (r *Runner) session(ctx context.Context) (*tasks.Saver, error) {
	if r.saver != nil {
		return r.saver, nil
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}

	if err := r.config.Credentials.Spotify.Validate(); err != nil {
		return nil, err
	}

	catalog, err := r.connect(ctx, r.config, r.logger, r.output)
	if err != nil {
		return nil, err
	}

	r.saver = tasks.NewSaver(catalog, tasks.SaverOpts{
		UserID:       r.config.Credentials.Spotify.UserID,
		PlaylistsDir: r.config.Export.PlaylistsPath(),
		IDsPath:      r.config.Export.IDsPath(),
		Logger:       r.logger,
	})
	return r.saver, nil
}

// readLine returns the next trimmed input line. io.EOF is returned only when no input remains.
func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return trimLine(line), nil
}

func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}
	return r.readLine()
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
