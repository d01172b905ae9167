package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quorial/idgate/db"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/config"
	directorygorm "github.com/quorial/idgate/pkg/directory/gorm"
	"github.com/quorial/idgate/pkg/resolver"
	"github.com/quorial/idgate/pkg/server"
	"github.com/quorial/idgate/pkg/server/endpoints"
	"github.com/quorial/idgate/pkg/strategy/basic"
	"github.com/quorial/idgate/pkg/strategy/bearer"
	userstoregorm "github.com/quorial/idgate/pkg/userstore/gorm"
)

// SigningKey signs the bearer tokens used by the integration tests.
var SigningKey = []byte("integration-test-signing-key")

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
	Server      *server.Server
}

// NewTestContext starts a PostgreSQL testcontainer, runs the migrations and
// brings up an in-process idgate server against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("idgate_test"),
		tcpostgres.WithUsername("idgate"),
		tcpostgres.WithPassword("idgate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://idgate:idgate@%s:%s/idgate_test?sslmode=disable", host, port.Port())

	database, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := database.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	serverPort := "18080"
	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	s := startInlineServer(database, "127.0.0.1:"+serverPort)

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = s.Shutdown(ctx)
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          database,
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Server:      s,
	}, nil
}

// startInlineServer wires a full server against the test database the same
// way the server command does, minus the config file plumbing.
func startInlineServer(database *gorm.DB, listenAddress string) *server.Server {
	cfg := &config.Config{
		ListenAddress:    listenAddress,
		Strategies:       []string{"basic", "bearer"},
		BearerSigningKey: string(SigningKey),
	}

	publisher := resolver.New(
		directorygorm.NewOrganizationDirectory(database),
		directorygorm.NewTenantDirectory(database),
		userstoregorm.NewRealmService(database),
	).WithAudit(nil)

	registry := authcore.NewRegistry()
	registry.Register(authcore.NewHandler(basic.NewStrategy(database), publisher))
	registry.Register(authcore.NewHandler(bearer.NewStrategy(bearer.Config{SigningKey: SigningKey}), publisher))
	_ = registry.Enable("basic")
	_ = registry.Enable("bearer")

	s := server.NewServer(cfg, database, registry, nil)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return s
}

func runMigrations(dbURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_ = tc.Server.Shutdown(shutdownCtx)
		cancel()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
