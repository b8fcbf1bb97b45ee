package cmd

import (
	"context"
	"fmt"
	"os"

	"chefcode/core/config"
	"chefcode/core/database"
	"chefcode/core/logger"
	"chefcode/core/storage"
	"chefcode/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Checks that the storage bucket has the required layout and that the database schema is complete.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), false, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the bucket layout",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false)
	},
}

// databaseCmd represents the integrity database command
var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCmd, databaseCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and prefixes")
}

func runIntegrityChecks(ctx context.Context, onlyStorage, onlyDatabase bool) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create Storage Client
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Fatal("Failed to create storage client", zap.Error(err))
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	svc := integrity.NewService(db, store, cfg.Storage.Bucket, logg)
	runStorage := !onlyDatabase
	runDatabase := !onlyStorage

	if runStorage {
		logg.Info("Checking storage layout...")
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Fatal("Storage check failed", zap.Error(err))
		}

		if report.Healthy() {
			logg.Info("Storage layout is intact.")
		} else {
			if !report.BucketExists {
				logg.Warn("Bucket is missing", zap.String("bucket", cfg.Storage.Bucket))
			}
			if len(report.MissingPrefixes) > 0 {
				logg.Warn("Missing prefixes detected", zap.Strings("missing", report.MissingPrefixes))
			}

			if onlyStorage && fixFlag {
				logg.Info("Fixing storage layout...")
				if err := svc.FixStorage(ctx, report); err != nil {
					logg.Fatal("Failed to fix storage layout", zap.Error(err))
				}
				logg.Info("Storage layout fixed successfully.")
			} else if onlyStorage {
				logg.Info("Run with --fix to create the missing bucket and prefixes.")
			}
		}
	}

	if runDatabase {
		logg.Info("Checking database schema...")
		report, err := svc.CheckDatabase()
		if err != nil {
			logg.Error("Database schema check failed", zap.Error(err))
			return
		}

		if report.Matched {
			logg.Info("Database schema matches expected definition.")
		} else {
			logg.Warn("Missing tables detected", zap.Strings("missing", report.MissingTables))
			logg.Info("Run the server once to migrate the schema.")
		}
	}
}
