package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/internal/config"
	"sitecms/internal/db"
	"sitecms/internal/logger"
	"sitecms/internal/seed"
)

var (
	cfg         = config.Load()
	adminUser   string
	adminPass   string
	contentFile string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "One-shot database bootstrap tasks",
	Long: `seed prepares a database for the site CMS. It reads the same environment
variables as the server (DB_DRIVER, DATABASE_DSN, ADMIN_USERNAME, ...).

Examples:
  seed admin
  seed admin --username editor --password 'long passphrase'
  seed content
  seed content --file ./content.yaml`,
	SilenceUsage: true,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the admin user or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *seed.Seeder, _ *zap.Logger) error {
			_, err := s.Admin(ctx, adminUser, adminPass)
			return err
		})
	},
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Load demonstration content",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			content *seed.Content
			err     error
		)
		if contentFile != "" {
			data, readErr := os.ReadFile(contentFile)
			if readErr != nil {
				return readErr
			}
			content, err = seed.Parse(data)
		} else {
			content, err = seed.Demo()
		}
		if err != nil {
			return err
		}

		return run(cmd.Context(), func(ctx context.Context, s *seed.Seeder, log *zap.Logger) error {
			res, err := s.Content(ctx, content)
			if err != nil {
				return err
			}
			log.Info("seed completed",
				zap.Int("created", res.Created),
				zap.Int("updated", res.Updated),
				zap.Int("total", res.Created+res.Updated))
			return nil
		})
	},
}

func init() {
	adminCmd.Flags().StringVarP(&adminUser, "username", "u", cfg.AdminUsername, "Admin username ($ADMIN_USERNAME)")
	adminCmd.Flags().StringVarP(&adminPass, "password", "p", cfg.AdminPassword, "Admin password ($ADMIN_PASSWORD)")
	contentCmd.Flags().StringVarP(&contentFile, "file", "f", "", "YAML content file (default: built-in demo content)")

	rootCmd.AddCommand(adminCmd, contentCmd)
}

// run opens and migrates the database, then hands a seeder to fn.
func run(ctx context.Context, fn func(context.Context, *seed.Seeder, *zap.Logger) error) error {
	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.WithLogger(log))
	if err != nil {
		return err
	}
	defer closeDB(gormDB)
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return fn(ctx, seed.New(gormDB, log), log)
}

func closeDB(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
