package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/saucedemo/swaglabs-e2e/internal/browser"
	internalcli "github.com/saucedemo/swaglabs-e2e/internal/cli"
	"github.com/saucedemo/swaglabs-e2e/internal/config"
	"github.com/saucedemo/swaglabs-e2e/internal/database"
	"github.com/saucedemo/swaglabs-e2e/internal/handlers"
	"github.com/saucedemo/swaglabs-e2e/internal/models"
	"github.com/saucedemo/swaglabs-e2e/internal/report"
	"github.com/saucedemo/swaglabs-e2e/internal/repository"
	"github.com/saucedemo/swaglabs-e2e/internal/runner"
	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
	"github.com/saucedemo/swaglabs-e2e/internal/services"
)

var version = "0.1.0"

func newLogger(verbose bool) logr.Logger {
	if verbose {
		stdr.SetVerbosity(1)
	}
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}

// loadSuiteConfig reads the environment and applies command line overrides
func loadSuiteConfig(c *cli.Context) (*config.SuiteConfig, error) {
	cfg, err := config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("about-url") {
		cfg.AboutURL = c.String("about-url")
	}
	if c.IsSet("browser") {
		cfg.Browser = c.String("browser")
	}
	if c.IsSet("headed") {
		cfg.Headless = !c.Bool("headed")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("record") {
		cfg.Record = c.Bool("record")
	}
	if c.IsSet("install") {
		cfg.InstallBrowsers = c.Bool("install")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// connectHistory opens the run history database and runs migrations
func connectHistory() error {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if errors.Is(err, config.ErrPostgresNotConfigured) {
		return fmt.Errorf("run history needs POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB and POSTGRES_HOSTNAME: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to load postgres config: %w", err)
	}
	if err := database.Connect(pgConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// buildSuiteDependencies wires the browser, scenarios and optional history
func buildSuiteDependencies(c *cli.Context, cfg *config.SuiteConfig, launcher *browser.Launcher, logger logr.Logger) (internalcli.SuiteDependencies, error) {
	var deps internalcli.SuiteDependencies

	scenarios, err := scenario.Select(c.StringSlice("scenario"))
	if err != nil {
		return deps, err
	}

	deps.Config = cfg
	deps.Scenarios = scenarios
	deps.Logger = logger
	deps.Out = os.Stdout
	deps.NewPage = func(ctx context.Context) (runner.Page, error) {
		page, err := launcher.NewPage(ctx)
		if err != nil {
			return nil, err
		}
		return page, nil
	}
	if !c.Bool("verbose") {
		deps.Progress = os.Stderr
	}
	if cfg.Record {
		deps.Recorder = services.NewHistoryService(repository.NewResultRepository())
	}

	return deps, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios against the store and report pass/fail",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "scenario", Aliases: []string{"s"}, Usage: "scenario to run (repeatable, default all)"},
			&cli.StringFlag{Name: "base-url", Usage: "store entry URL"},
			&cli.StringFlag{Name: "about-url", Usage: "URL the About menu link must lead to"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: "scenarios to run in parallel"},
			&cli.DurationFlag{Name: "timeout", Usage: "wait window for each action and assertion"},
			&cli.BoolFlag{Name: "record", Usage: "store results in Postgres"},
			&cli.BoolFlag{Name: "install", Usage: "install the Playwright driver and browser first"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every scenario instead of a progress bar"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadSuiteConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger(c.Bool("verbose"))

			if cfg.Record {
				if err := connectHistory(); err != nil {
					return err
				}
				defer database.Close()
			}

			launcher, err := browser.Launch(browser.OptionsFrom(cfg))
			if err != nil {
				return err
			}
			defer launcher.Close()

			deps, err := buildSuiteDependencies(c, cfg, launcher, logger)
			if err != nil {
				return err
			}

			ctx, stop := internalcli.CancelOnSignal(c.Context, nil, logger)
			defer stop()

			run, err := internalcli.RunSuite(ctx, deps)
			if err != nil {
				return err
			}
			if run.Failed() {
				_, failed := run.Counts()
				return cli.Exit(fmt.Sprintf("%d scenario(s) failed", failed), run.ExitCode())
			}
			return nil
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the available scenarios",
		Action: func(c *cli.Context) error {
			for _, sc := range scenario.All() {
				fmt.Fprintf(c.App.Writer, "%-16s %s\n", sc.Name, sc.Description)
			}
			return nil
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded scenario results",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of results to show"},
			&cli.StringFlag{Name: "run", Usage: "show a single run by id"},
		},
		Action: func(c *cli.Context) error {
			if err := connectHistory(); err != nil {
				return err
			}
			defer database.Close()

			history := services.NewHistoryService(repository.NewResultRepository())
			var (
				results []*models.ScenarioResult
				err     error
			)
			if runID := c.String("run"); runID != "" {
				results, err = history.Run(runID)
			} else {
				results, err = history.Recent(c.Int("limit"))
			}
			if err != nil {
				return err
			}

			report.WriteHistory(c.App.Writer, results)
			return nil
		},
	}
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a local replica of the store to run scenarios against",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "port to listen on (default $PORT or 8080)"},
			&cli.StringFlag{Name: "about-url", Value: "/about", Usage: "target of the About menu link"},
		},
		Action: func(c *cli.Context) error {
			serverConfig := config.LoadServerConfig(os.Getenv)
			if c.IsSet("port") {
				serverConfig.Port = c.String("port")
			}

			store, err := handlers.NewStore(handlers.DefaultStoreOptions(c.String("about-url")))
			if err != nil {
				return fmt.Errorf("failed to build store: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: serverConfig,
				Store:        store,
				Logger:       newLogger(false),
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "swaglabs",
		Usage:   "End-to-end checks for the Swag Labs demo store",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			HistoryCommand(),
			ServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
