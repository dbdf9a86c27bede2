package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"babytrack/internal/config"
	"babytrack/internal/database"
	"babytrack/internal/log"
	"babytrack/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)

	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if _, err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	backupService := service.NewBackupService(db, logger)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, logger, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, db, logger, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, logger zerolog.Logger, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create output directory")
		}
	}

	logger.Info().Str("path", outputPath).Msg("exporting database")
	if err := backupService.Export(outputPath); err != nil {
		logger.Fatal().Err(err).Msg("export failed")
	}

	fileInfo, _ := os.Stat(outputPath)
	logger.Info().
		Float64("size_mb", float64(fileInfo.Size())/1024/1024).
		Msg("export complete")
}

func handleImport(backupService *service.BackupService, db *database.DB, logger zerolog.Logger, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		logger.Fatal().Str("path", inputPath).Msg("input file does not exist")
	}

	if clearData {
		fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			logger.Info().Msg("import cancelled")
			return
		}

		logger.Info().Msg("clearing existing data")
		if err := clearDatabase(db, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to clear database")
		}
	}

	logger.Info().Str("path", inputPath).Msg("importing database")
	if err := backupService.Import(inputPath); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}

	logger.Info().Msg("import complete")
}

func clearDatabase(db *database.DB, logger zerolog.Logger) error {
	// Delete in reverse order of dependencies
	tables := []string{
		"contractions",
		"schedules",
		"growths",
		"diapers",
		"sleeps",
		"feedings",
		"baby_permissions",
		"invitations",
		"babies",
		"family_members",
		"families",
		"user_sessions",
		"users",
	}

	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		logger.Info().Str("table", table).Msg("cleared table")
	}

	return nil
}

func printUsage() {
	fmt.Println("Babytrack Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to JSON file")
	fmt.Println("  backup import [options]    Import database from JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./babytrack.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
