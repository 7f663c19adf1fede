package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/laluke1/camptrack/config"
	"github.com/laluke1/camptrack/logging"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

var (
	debugFlag   bool
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "camptrack",
	Short: "Terminal-based scout camp management",
	Long: `CampTrack manages scout camps from the terminal: camps, campers,
activities, and direct messaging, with role-gated menus for admins,
logistics coordinators, and scout leaders.

Running camptrack with no subcommand starts the interactive session.`,
	Version:      ui.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApplication()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApplication()
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema and stock accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, dataDir, dbPath, closeAll, err := openEnvironment()
		if err != nil {
			return err
		}
		defer closeAll()

		firstRun, err := EnsureDefaultUsers(store)
		if err != nil {
			return err
		}

		fmt.Printf("Data Directory:  %s\n", dataDir)
		fmt.Printf("Database File:   %s\n", dbPath)
		if firstRun {
			fmt.Println("Stock accounts created: admin, coordinator, leader1-3 (empty passwords).")
		} else {
			fmt.Println("Database already initialized.")
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, _, closeAll, err := openEnvironment()
		if err != nil {
			return err
		}
		defer closeAll()

		if _, err := EnsureDefaultUsers(store); err != nil {
			return err
		}
		if err := SeedDemo(store, time.Now()); err != nil {
			return err
		}
		fmt.Println("Sample dataset loaded.")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Mirror debug logs to the console")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(seedCmd)
}

// openEnvironment resolves the data directory and opens the database.
func openEnvironment() (*storage.Store, string, string, func(), error) {
	if dataDirFlag != "" {
		os.Setenv(config.DataDirEnvVar, dataDirFlag)
	}

	_, dataDir, err := config.LoadOrCreate()
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("load config: %w", err)
	}

	store, dbPath, err := storage.Open(dataDir)
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("open database: %w", err)
	}

	return store, dataDir, dbPath, func() { store.Close() }, nil
}

// runApplication boots the full stack and hands the terminal to the
// interactive session.
func runApplication() error {
	if dataDirFlag != "" {
		os.Setenv(config.DataDirEnvVar, dataDirFlag)
	}

	cfg, dataDir, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.Open(dataDir, cfg.LogLevel, debugFlag)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeQuietly(logCloser)

	logger.Info().Str("version", ui.Version).Str("data_dir", dataDir).Msg("camptrack starting")

	store, dbPath, err := storage.Open(dataDir)
	if err != nil {
		logger.Error().Err(err).Msg("database open failed")
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("database close error")
		}
		logger.Info().Msg("camptrack shutting down")
	}()
	logger.Info().Str("db_path", dbPath).Msg("database ready")

	firstRun, err := EnsureDefaultUsers(store)
	if err != nil {
		logger.Error().Err(err).Msg("default account setup failed")
		return fmt.Errorf("initialize accounts: %w", err)
	}
	if firstRun {
		logger.Info().Msg("first run, loading sample dataset")
		if err := SeedDemo(store, time.Now()); err != nil {
			logger.Warn().Err(err).Msg("sample dataset failed to load")
		}
	}

	app := &App{
		Store:  store,
		Config: cfg,
		Logger: logger,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	return app.Run()
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}
