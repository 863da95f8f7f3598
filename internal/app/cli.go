package app

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"jobh_backend/database"
	"jobh_backend/internal/auth"
	"jobh_backend/internal/config"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/models"

	"github.com/spf13/cobra"
)

var configFile string

// BuildCLI собирает корневую команду: serve (по умолчанию), migrate, token
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jobh",
		Short:         "Job marketplace moderation and lifecycle backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or config/config.yaml)")

	serveCmd := buildServeCommand()
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, buildMigrateCommand(), buildTokenCommand())
	return rootCmd
}

// Execute запускает CLI и возвращает код выхода
func Execute() int {
	if err := BuildCLI().Execute(); err != nil {
		logger.Error("command failed", "error", err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	config.AppConfig = cfg
	logger.Init(cfg.Server.Env, cfg.Server.LogLevel)
	return cfg, nil
}

func buildServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := New(ctx, cfg)
			if err != nil {
				return err
			}
			if migrate {
				if err := database.AutoMigrate(a.db); err != nil {
					a.Close()
					return err
				}
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations before serving")
	return cmd
}

func buildMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return database.AutoMigrate(db)
		},
	}
}

// token выпускает токен для локальной разработки; в проде токены выдает identity-сервис
func buildTokenCommand() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			userRole := models.UserRole(role)
			if !userRole.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if ttl <= 0 {
				ttl = cfg.JWT.TTL
			}

			token, err := auth.NewTokenManager(cfg.JWT.Secret, ttl).GenerateToken(userID, userRole)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&role, "role", string(models.UserRoleCandidate), "CANDIDATE, EMPLOYER, ADMIN or SUPER_ADMIN")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.ttl)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
