package cmd

import (
	"fmt"
	"os"
	"time"

	"villfinder-backend/internal/config"
	"villfinder-backend/internal/infrastructure/database"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile    string
	sqlitePath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "villctl",
	Short: "VillFinder operations tool",
	Long:  `villctl migrates the schema, loads fixture data and waits for a deployment to become healthy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "dotenv file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "use a local SQLite database file instead of DATABASE_URL")
}

// openDB connects to the database chosen by the flags and environment.
func openDB() (*gorm.DB, error) {
	if sqlitePath != "" {
		return database.OpenSQLite(sqlitePath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (use --sqlite for a local database)")
	}
	return database.Open(cfg.DatabaseURL, cfg.SlowQueryThreshold)
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
