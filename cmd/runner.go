package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wasaphoto/internal/navigation"
	"github.com/desertthunder/wasaphoto/internal/services"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/desertthunder/wasaphoto/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      session.Store
	table      *navigation.Table
	engine     *navigation.Engine
	api        *services.Client
	uploads    *tasks.UploadEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      session.Store // nil means every navigation is treated as logged out
	Table      *navigation.Table
	API        *services.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}
	if opts.Table == nil {
		opts.Table = navigation.MustTable(navigation.DefaultRoutes()...)
	}

	r := &Runner{
		config:     opts.Config,
		store:      opts.Store,
		table:      opts.Table,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.api == nil {
		r.api = r.newClient()
	}
	r.engine = r.newEngine()
	r.uploads = tasks.NewUploadEngine(r.api)
	return r
}

// SetLogger replaces the logger and rebuilds the components that captured the previous one.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.api = r.newClient()
	r.engine = r.newEngine()
	r.uploads = tasks.NewUploadEngine(r.api)
}

func (r *Runner) newClient() *services.Client {
	return services.NewClient(services.ClientOpts{
		BaseURL:    r.config.API.BaseURL,
		Timeout:    r.config.API.Timeout(),
		RateLimit:  r.config.API.RateLimit,
		HTTPClient: r.httpClient,
		Store:      r.store,
		Logger:     r.logger,
	})
}

func (r *Runner) newEngine() *navigation.Engine {
	engine, err := navigation.NewEngine(navigation.EngineOpts{
		Table:  r.table,
		Store:  r.store,
		Logger: r.logger,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to build navigation engine: %v", err))
	}
	return engine
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, sessionCommand, routesCommand, navigateCommand,
		profileCommand, streamCommand, searchCommand, uploadCommand,
		followCommand, unfollowCommand, banCommand, unbanCommand,
		followingCommand, bannedCommand, likeCommand, unlikeCommand,
		commentCommand, usernameCommand, photoCommand,
		apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
