package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/config"
	"github.com/studianta/studianta/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testDbName     = "studianta"
	testDbUser     = "test_studianta"
	testDbPassword = "test_studianta"
	testDbSchema   = "studianta"
	snapshotName   = "studianta-test-snapshot"
)

// Postgres is a migrated database running in a container. Reset brings it back to
// the state right after the migrations.
type Postgres struct {
	container *postgres.PostgresContainer
	cfg       config.Database
	pool      *pgxpool.Pool
}

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	pgContainer, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Errorf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

// StartPostgres starts a container, applies all migrations and snapshots the result.
// It exits the process on failure, it is meant to be called from TestMain.
func StartPostgres() *Postgres {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		log.Errorf("Failed to start postgres container: %v", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   testDbUser,
		Pass:   testDbPassword,
		Name:   testDbName,
		Schema: testDbSchema,
	}

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if err := container.Snapshot(ctx, postgres.WithSnapshotName(snapshotName)); err != nil {
		log.Fatalf("Failed to snapshot postgres container: %v", err)
	}

	return &Postgres{container: container, cfg: cfg}
}

// Pool opens a connection pool on first use.
func (p *Postgres) Pool() *pgxpool.Pool {
	if p.pool != nil {
		return p.pool
	}
	pool, err := database.Open(context.Background(), p.cfg)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	p.pool = pool
	return pool
}

// Reset restores the post-migration snapshot. Open connections are closed first
// because the restore recreates the database.
func (p *Postgres) Reset() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return p.container.Restore(context.Background(), postgres.WithSnapshotName(snapshotName))
}

func (p *Postgres) Terminate() {
	if p.pool != nil {
		p.pool.Close()
	}
	if err := testcontainers.TerminateContainer(p.container); err != nil {
		log.Errorf("failed to terminate postgres container: %v", err)
	}
}

// findProjectRoot walks up from the working directory until it finds go.mod or .git.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, ".git")) || fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
