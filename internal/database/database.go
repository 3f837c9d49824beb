package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/abstore/internal/config"
	"github.com/example/abstore/internal/models"
)

// Connect opens the pool for the configured driver, sizes it and runs
// migrations. The caller owns the returned handle and must Close it.
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		tgt, err := mysqlTarget(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		if err := ensureDatabase(tgt, log); err != nil {
			return nil, fmt.Errorf("ensure database: %w", err)
		}
		dialector = gormmysql.Open(tgt.DSN)
	case "postgres":
		tgt, err := postgresTarget(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if err := ensureDatabase(tgt, log); err != nil {
			return nil, fmt.Errorf("ensure database: %w", err)
		}
		dialector = postgres.Open(tgt.DSN)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, cfg.DBLogSQL, cfg.SlowQuery),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(conn); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.Info("database connected", "driver", cfg.DBDriver, "max_open_conns", cfg.MaxOpenConns)
	return conn, nil
}

// Close releases every pooled connection.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the pool can still reach the server.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.Product{},
		&models.ProductImage{},
		&models.Category{},
		&models.ProductCategory{},
		&models.User{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

// target names the database a DSN points at and the maintenance DSN used
// to create it. An empty Name means there is nothing to create.
type target struct {
	Driver    string
	DSN       string
	MasterDSN string
	Name      string
}

// mysqlTarget forces parseTime, which DATE columns require, and derives a
// DSN without the schema name.
func mysqlTarget(dsn string) (target, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return target{}, err
	}
	parsed.ParseTime = true

	master := parsed.Clone()
	master.DBName = ""

	return target{
		Driver:    "mysql",
		DSN:       parsed.FormatDSN(),
		MasterDSN: master.FormatDSN(),
		Name:      parsed.DBName,
	}, nil
}

// postgresTarget handles URL DSNs only; key=value DSNs are used as given.
func postgresTarget(dsn string) (target, error) {
	t := target{Driver: "postgres", DSN: dsn}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return t, nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return target{}, err
	}

	t.Name = strings.TrimPrefix(parsed.Path, "/")
	parsed.Path = "/postgres"
	t.MasterDSN = parsed.String()
	return t, nil
}

// sqliteDSN turns on foreign keys for every pooled connection, not just
// the first one.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

// ensureDatabase creates the target database through the maintenance
// connection when it does not exist yet.
func ensureDatabase(t target, log *slog.Logger) error {
	if t.Name == "" {
		return nil
	}

	sqlDB, err := sql.Open(t.Driver, t.MasterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	var stmt string
	switch t.Driver {
	case "mysql":
		stmt = "CREATE DATABASE IF NOT EXISTS `" + strings.ReplaceAll(t.Name, "`", "``") + "` CHARACTER SET utf8mb4"
	case "postgres":
		var exists bool
		if err := sqlDB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", t.Name).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}
		stmt = "CREATE DATABASE " + pq.QuoteIdentifier(t.Name)
	default:
		return fmt.Errorf("cannot create %s database", t.Driver)
	}

	if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
		return err
	}
	log.Info("database ensured", "driver", t.Driver, "name", t.Name)
	return nil
}
