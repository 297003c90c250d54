package database

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mytheresa/content-portal/app/config"
	"github.com/mytheresa/content-portal/models"
)

const mysqlTLSName = "custom"

// New opens the configured database and checks the connection.
func New(cfg config.DatabaseConfig, l *log.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{l}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.Dialect, err)
	}

	l.Infof("connected to %s database %q", cfg.Dialect, cfg.Name)
	return db, nil
}

// Dialector returns the gorm dialector for cfg. Postgres goes through pgx unless
// Driver is "postgres", in which case the connection is opened with lib/pq.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Dialect {
	case "postgres":
		dsn := PostgresDSN(cfg)
		if cfg.Driver == "postgres" {
			conn, err := sql.Open("postgres", dsn)
			if err != nil {
				return nil, err
			}
			return postgres.New(postgres.Config{Conn: conn}), nil
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn, err := MySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", cfg.Dialect)
	}
}

// PostgresDSN returns cfg.URL when set, otherwise a postgres:// URL built from the parts.
func PostgresDSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// MySQLDSN returns cfg.URL when set, otherwise a go-sql-driver DSN built from the parts.
// Row counts report matched rather than changed rows so that updates writing identical
// values are not mistaken for missing rows.
func MySQLDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.URL != "" {
		return cfg.URL, nil
	}
	port := cfg.Port
	if port == "" || port == "5432" {
		port = "3306"
	}
	mc := mysqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}

	if cfg.TLSCA != "" {
		pem, err := os.ReadFile(cfg.TLSCA)
		if err != nil {
			return "", fmt.Errorf("read mysql ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return "", fmt.Errorf("no certificates in %s", cfg.TLSCA)
		}
		if err := mysqldriver.RegisterTLSConfig(mysqlTLSName, &tls.Config{RootCAs: pool}); err != nil {
			return "", err
		}
		mc.TLSConfig = mysqlTLSName
	}
	return mc.FormatDSN(), nil
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

type gormWriter struct {
	l *log.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.l.Warnf(format, args...)
}
