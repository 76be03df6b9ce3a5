package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/govvideo"
	"github.com/fwojciec/govvideo/config"
	"github.com/fwojciec/govvideo/crawl"
	"github.com/fwojciec/govvideo/goquery"
	govhttp "github.com/fwojciec/govvideo/http"
	"github.com/fwojciec/govvideo/postgres"
	govslog "github.com/fwojciec/govvideo/slog"
	"github.com/fwojciec/govvideo/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path or PostgreSQL DSN. Set before calling Run() to override
	// the configured location.
	DBPath string

	// Config file path. A missing file is not an error.
	ConfigPath string

	// Open stores, closed by Close.
	SQLite   *sqlite.DB
	Postgres *postgres.DB

	// Services for end-to-end testing.
	VideoService    govvideo.VideoService
	ProgressService govvideo.ProgressService
	ClientService   govvideo.ClientService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: config.DefaultPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Postgres != nil {
		return m.Postgres.Close()
	}
	if m.SQLite != nil {
		return m.SQLite.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("govvideo"),
		kong.Description("Crawl municipal meeting-video portals into a local archive."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'govvideo --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Config != "" {
		m.ConfigPath = cli.Config
	}
	cfg, err := config.Load(m.ConfigPath)
	if err != nil {
		return err
	}

	dbPath := m.DBPath
	switch {
	case cli.DB != "":
		dbPath = cli.DB
	case dbPath == "" && cfg.DB != "":
		dbPath = cfg.DB
	case dbPath == "":
		dbPath = config.DefaultDBPath()
	}

	if err := m.openStore(ctx, dbPath); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s or --db to use a different database\n", config.EnvDB)
		return err
	}
	defer m.Close()

	deps.Videos = m.VideoService
	deps.Progress = m.ProgressService
	deps.Clients = m.ClientService

	if kongCtx.Command() == "crawl" {
		logger := newLogger(stderr, cli.Crawl.Verbose)
		fetcher := govhttp.NewFetcher(fetcherOptions(cfg)...)
		defer fetcher.Close()

		deps.Runner = newRunner(cli.Crawl.apply(cfg.Crawl()), fetcher, deps, logger, cli.Crawl.Verbose)
	}

	return kongCtx.Run(deps)
}

// openStore opens PostgreSQL for DSNs and SQLite for anything else.
func (m *Main) openStore(ctx context.Context, dbPath string) error {
	if postgres.IsDSN(dbPath) {
		m.Postgres = postgres.NewDB(dbPath)
		if err := m.Postgres.Open(ctx); err != nil {
			return fmt.Errorf("failed to open postgres database: %w", err)
		}
		m.VideoService = postgres.NewVideoService(m.Postgres)
		m.ProgressService = postgres.NewProgressService(m.Postgres)
		m.ClientService = postgres.NewClientService(m.Postgres)
		return nil
	}

	m.SQLite = sqlite.NewDB(dbPath)
	if err := m.SQLite.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	m.VideoService = sqlite.NewVideoService(m.SQLite)
	m.ProgressService = sqlite.NewProgressService(m.SQLite)
	m.ClientService = sqlite.NewClientService(m.SQLite)
	return nil
}

func fetcherOptions(cfg *config.Config) []govhttp.Option {
	var opts []govhttp.Option
	if cfg.UserAgent != "" {
		opts = append(opts, govhttp.WithUserAgent(cfg.UserAgent))
	}
	if t := cfg.Timeout(); t > 0 {
		opts = append(opts, govhttp.WithTimeout(t))
	}
	return opts
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRunner wires the crawl pipeline around a single HTTP fetcher. Listing
// and detail fetches share one limiter so the per-host delay holds across
// both.
func newRunner(cfg crawl.Config, fetcher govvideo.Fetcher, deps *Dependencies, logger *slog.Logger, verbose bool) *crawl.Runner {
	var inspector govvideo.LayoutInspector = goquery.NewInspector()
	videos := deps.Videos
	if verbose {
		fetcher = govslog.NewLoggingFetcher(fetcher, logger)
		inspector = govslog.NewLoggingInspector(inspector, logger)
		videos = govslog.NewLoggingVideoService(videos, logger)
	}

	limiter := crawl.NewDomainLimiter(cfg.Delay)
	crawler := &crawl.Crawler{
		Fetcher: &crawl.PoliteFetcher{
			Fetcher:     fetcher,
			Limiter:     limiter,
			RetryDelays: cfg.RetryDelays,
			Logger:      logger,
		},
		DetailFetcher: &crawl.PoliteFetcher{
			Fetcher: fetcher,
			Limiter: limiter,
			Logger:  logger,
		},
		Extractor: goquery.NewExtractor(),
		Inspector: inspector,
		Videos:    videos,
		Clients:   deps.Clients,
		Progress:  deps.Progress,
		Config:    cfg,
		Logger:    logger,
	}

	return &crawl.Runner{
		Crawler: crawler,
		Clients: deps.Clients,
		Logger:  logger,
	}
}
