package commands

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mytheresa/content-portal/app/config"
	"github.com/mytheresa/content-portal/app/database"
	"github.com/mytheresa/content-portal/app/logging"
	"github.com/mytheresa/content-portal/cmd/cms/output"
)

var (
	// Global flags
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cms",
	Short: "Blog and product catalog with a staff admin console",
	Long: `cms serves a blog (posts, authors, publishers and their books), a product
catalog JSON API and a staff admin console for both.

Configuration comes from an optional YAML file, a .env file and the environment,
in that order; later sources win.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "", "log level. debug|info|warn|error|off (overrides LOG_LEVEL)")
}

type env struct {
	cfg *config.Config
	log *log.Logger
	db  *gorm.DB
}

// setup loads the configuration and connects to the database.
func setup() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	l := logging.New("cms", cfg.LogLevel)

	db, err := database.New(cfg.Database, l)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: l, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}
