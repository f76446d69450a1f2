package model

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/config"
	l "github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/model/sql_migrations"

	"github.com/glebarez/sqlite"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

func dialector(dbConfig *config.Database, applicationName string) (gorm.Dialector, string, error) {
	switch dbConfig.Driver {
	case DriverSqlite, "":
		return sqlite.Open(dbConfig.Path), "sqlite3", nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
			dbConfig.Host,
			dbConfig.Port,
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Name,
			dbConfig.SslMode,
			applicationName,
		)
		return postgres.Open(dsn), "postgres", nil
	}
	return nil, "", fmt.Errorf("unsupported database driver: %s", dbConfig.Driver)
}

// Opens the journal database and applies migrations
func NewConnection(ctx context.Context, config *config.Config, applicationName string) (self *gorm.DB, err error) {
	log := l.NewSublogger("db")

	dbLogger := logger.New(log,
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dbConfig := &config.Database
	d, dialect, err := dialector(dbConfig, applicationName)
	if err != nil {
		return
	}

	self, err = gorm.Open(d, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}

	if dbConfig.Driver == DriverPostgres {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
		db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	} else {
		// Every SQLite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	err = ping(ctx, dbConfig, self)
	if err != nil {
		return
	}

	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(sql_migrations.FS),
	}

	n, err := migrate.Exec(db, dialect, migrations, migrate.Up)
	if err != nil {
		return
	}

	log.WithField("num", n).WithField("driver", dialect).Debug("Applied migrations")

	return
}

func ping(ctx context.Context, dbConfig *config.Database, db *gorm.DB) (err error) {
	if dbConfig.PingTimeout <= 0 {
		// Ping disabled
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbConfig.PingTimeout)
	defer cancel()

	return sqlDB.PingContext(dbCtx)
}
