package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/sciencehub/shx/internal/api"
	"github.com/sciencehub/shx/internal/favorites"
	"github.com/sciencehub/shx/internal/repositories"
	"github.com/sciencehub/shx/internal/session"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/sciencehub/shx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	store   *session.Store
	client  *api.Client
	toggler *favorites.Toggler
	logger  *log.Logger
	output  io.Writer

	// lazily opened local cache
	db     *sql.DB
	engine *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Store   *session.Store
	Client  *api.Client
	Toggler *favorites.Toggler
	Logger  *log.Logger
	Output  io.Writer
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
	if opts.Store == nil {
		opts.Store = session.NewStore(session.NullPersister{})
	}
	if opts.Client == nil {
		opts.Client = api.NewClient(opts.Config.ResolveBaseURL(), nil, opts.Store)
	}
	if opts.Toggler == nil {
		opts.Toggler = favorites.NewToggler(opts.Client, opts.Store)
	}

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		client:  opts.Client,
		toggler: opts.Toggler,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns stderr.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the local cache database if it was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, booksCommand, favoritesCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens the local cache database on first use and runs migrations.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	r.db = db
	return db, nil
}

// taskEngine builds the engine over the API client and local cache. Cache
// failures degrade to an engine without history or offline fallback.
func (r *Runner) taskEngine() *tasks.Engine {
	if r.engine != nil {
		return r.engine
	}

	var recorder tasks.Recorder
	var cache tasks.Cache
	if db, err := r.database(); err == nil {
		recorder = repositories.NewDownloadRepository(db)
		cache = repositories.NewBookCacheRepository(db)
	} else {
		r.logger.Warnf("local cache unavailable: %v", err)
	}

	r.engine = tasks.NewEngine(r.client, recorder, cache)
	return r.engine
}

// guard checks the capability gate before a command runs. Failures are user
// errors, not network errors.
func (r *Runner) guard(req session.Requirement) error {
	sess := r.store.Current()
	if session.CanAccess(sess, req) {
		return nil
	}
	if !session.IsAuthenticated(sess) {
		return fmt.Errorf("%w: run 'shx auth login' first", shared.ErrNotAuthenticated)
	}
	return fmt.Errorf("%w: requires an administrator role", shared.ErrForbidden)
}

// apiErr translates API failures into user-facing behavior. A 401 on an
// authenticated call means the token is no longer valid: force the logout so
// every surface agrees, then tell the user to log in again.
func (r *Runner) apiErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, shared.ErrUnauthorized) {
		if logoutErr := r.store.Logout(); logoutErr != nil {
			r.logger.Warnf("failed to clear session: %v", logoutErr)
		}
		return fmt.Errorf("session expired, you have been logged out: run 'shx auth login'")
	}

	var vErr *api.ValidationError
	if errors.As(err, &vErr) {
		for field, msgs := range vErr.Fields() {
			for _, msg := range msgs {
				r.writePlain("  %s: %s\n", field, msg)
			}
		}
		return shared.ErrValidation
	}

	return err
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
