package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/audit"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/config"
	"github.com/quorial/idgate/pkg/db"
	directorygorm "github.com/quorial/idgate/pkg/directory/gorm"
	"github.com/quorial/idgate/pkg/resolver"
	"github.com/quorial/idgate/pkg/server"
	"github.com/quorial/idgate/pkg/server/endpoints"
	"github.com/quorial/idgate/pkg/strategy/basic"
	"github.com/quorial/idgate/pkg/strategy/bearer"
	userstoregorm "github.com/quorial/idgate/pkg/userstore/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the idgate server",
	Long: `Run the idgate server.

Running the server requires the DATABASE_URL environment variable.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("listen-address"); addr != "" {
			cfg.ListenAddress = addr
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		auditor, err := openAuditLogger(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to open audit log:", err)
			os.Exit(1)
		}

		publisher := resolver.New(
			directorygorm.NewOrganizationDirectory(database),
			directorygorm.NewTenantDirectory(database),
			userstoregorm.NewRealmService(database),
		).WithAudit(auditor)

		registry := buildRegistry(cfg, database, publisher)

		s := server.NewServer(cfg, database, registry, auditor)
		endpoints.RegisterAll(s)

		if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
			go func() {
				err := config.Watch(context.Background(), func(next *config.Config) {
					log.Println("Configuration reloaded")
					applyStrategyToggles(next, registry)
				})
				if err != nil {
					log.Println("Config watch stopped:", err)
				}
			}()
		}

		log.Printf("Running server at http://%s...\n", cfg.ListenAddress)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("listen-address", "l", "", "server listen address (overrides config)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload configuration when the config file changes")
}

func openAuditLogger(cfg *config.Config) (*audit.Logger, error) {
	if cfg.AuditLogPath == "" || cfg.AuditLogPath == "-" {
		return audit.DefaultLogger, nil
	}
	f, err := os.OpenFile(cfg.AuditLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	logger := audit.NewLogger()
	logger.SetWriter(f)
	return logger, nil
}

func buildRegistry(cfg *config.Config, database *gorm.DB, publisher authcore.ContextPublisher) *authcore.Registry {
	registry := authcore.NewRegistry()

	basicHandler := authcore.NewHandler(basic.NewStrategy(database), publisher)
	if p, ok := cfg.StrategyPriorities["basic"]; ok {
		basicHandler.WithPriority(p)
	}
	registry.Register(basicHandler)

	if cfg.BearerSigningKey != "" {
		bearerHandler := authcore.NewHandler(bearer.NewStrategy(bearer.Config{
			SigningKey: []byte(cfg.BearerSigningKey),
			Issuer:     cfg.BearerIssuer,
			Audience:   cfg.BearerAudience,
		}), publisher)
		if p, ok := cfg.StrategyPriorities["bearer"]; ok {
			bearerHandler.WithPriority(p)
		}
		registry.Register(bearerHandler)
	}

	applyStrategyToggles(cfg, registry)
	return registry
}

// applyStrategyToggles enables the configured strategies and disables the
// rest. Installed handlers stay registered so a reload can re-enable them.
func applyStrategyToggles(cfg *config.Config, registry *authcore.Registry) {
	for _, name := range registry.Installed() {
		if cfg.IsStrategyEnabled(name) {
			_ = registry.Enable(name)
		} else {
			registry.Disable(name)
		}
	}
}
