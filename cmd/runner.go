package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/desertthunder/rhymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configured bool
	tokens     services.TokenService
	lyrics     services.LyricsProvider
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	version    string
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is: no file, .env or environment is read.
type RunnerOpts struct {
	Config     *shared.Config
	Tokens     services.TokenService
	Lyrics     services.LyricsProvider
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Version    string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	return &Runner{
		config:     opts.Config,
		configured: configured,
		tokens:     opts.Tokens,
		lyrics:     opts.Lyrics,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		version:    opts.Version,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "rhymx",
		Usage:    "Rhyme detection for song lyrics, with a token and lyrics relay",
		Version:  r.version,
		Flags:    rootFlags(),
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, analyzeCommand, lyricsCommand, batchCommand, viewCommand, configCommand, authCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare loads configuration once per run: defaults, then the config file, then .env and the environment.
func (r *Runner) prepare(cmd *cli.Command) error {
	debug := cmd.Bool("debug")
	if debug {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.configured {
		return nil
	}

	if err := shared.LoadEnv(cmd.String("env-file")); err != nil {
		return err
	}

	config := shared.DefaultConfig()
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return err
		}
		r.logger.Debug("loaded config", "path", path)
	} else if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", path)
	} else {
		return fmt.Errorf("%w: %w", shared.ErrMissingConfig, err)
	}

	if err := config.ApplyEnv(nil); err != nil {
		return err
	}

	if !debug {
		level, err := shared.ParseLogLevel(config.Log.Level)
		if err != nil {
			return err
		}
		shared.SetLogLevel(r.logger, level)
	}

	r.config = config
	r.configured = true
	return nil
}

func (r *Runner) tokenService() (services.TokenService, error) {
	if r.tokens != nil {
		return r.tokens, nil
	}

	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.httpClient)
	if err != nil {
		return nil, err
	}
	r.tokens = svc
	return svc, nil
}

func (r *Runner) lyricsProvider() (services.LyricsProvider, error) {
	if r.lyrics != nil {
		return r.lyrics, nil
	}

	provider, err := services.NewLyricsProvider(r.config.Lyrics, r.httpClient, shared.WithLogger(r.logger, "component", "lyrics"))
	if err != nil {
		return nil, err
	}
	r.lyrics = provider
	return provider, nil
}

// engine pairs the lyrics provider with an.
func (r *Runner) engine(an *rhyme.Analyzer) (*tasks.Engine, error) {
	provider, err := r.lyricsProvider()
	if err != nil {
		return nil, err
	}
	return tasks.NewEngine(provider, an, r.config.Server.RequestTimeout, r.logger), nil
}

// analyzer builds a [rhyme.Analyzer] from the --all-words and --near flags.
func analyzer(cmd *cli.Command) (*rhyme.Analyzer, error) {
	near := int(cmd.Int("near"))
	if near < 0 {
		return nil, fmt.Errorf("%w: --near must not be negative", shared.ErrInvalidFlag)
	}

	scope := rhyme.ScopeLineEnd
	if cmd.Bool("all-words") {
		scope = rhyme.ScopeAllWords
	}
	return rhyme.NewAnalyzer(rhyme.WithScope(scope), rhyme.WithNearRhymes(near)), nil
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
