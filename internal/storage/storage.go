package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/4oBuko/spy-cat-agency-records/internal/config"
)

// Database owns the process-wide connection pool. Repositories receive SQL;
// ORM is only used for schema management.
type Database struct {
	ORM *gorm.DB
	SQL *sql.DB
}

// Open connects using the configured driver and applies the pool limits.
func Open(cfg config.DatabaseConfig) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return &Database{ORM: orm, SQL: sqlDB}, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		dsnCfg, err := mysqldriver.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return mysql.New(mysql.Config{DSNConfig: dsnCfg}), nil
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN turns on foreign keys and a busy timeout for every pooled
// connection; PRAGMA statements would only reach one of them.
func sqliteDSN(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var missing []string
	for _, p := range params {
		name := p[:strings.Index(p, "=")]
		if !strings.Contains(dsn, name+"=") {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}
	return dsn + sep + strings.Join(missing, "&")
}

// Migrate creates or updates the cats, missions and targets tables.
func (d *Database) Migrate(ctx context.Context) error {
	if err := d.ORM.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.SQL.Close()
}
