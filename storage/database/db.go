package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/shule/core"
	appfs "github.com/trezcool/shule/fs"
)

func connect(dbName string, admin bool, conf *core.Config) (*sql.DB, error) {
	usr, pwd := conf.Database.User, conf.Database.Password
	if admin && conf.Database.AdminUser != "" {
		usr, pwd = conf.Database.AdminUser, conf.Database.AdminPassword
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(usr, pwd),
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sql.Open(conf.Database.Engine, u.String())
}

// Open connects to the application database.
func Open(conf *core.Config) (*sql.DB, error) {
	return connect(conf.Database.Name, false, conf)
}

// waitReady pings until the database accepts connections, backing off 100ms
// longer on each attempt.
func waitReady(db *sql.DB) error {
	var err error
	for attempts := 1; attempts <= 30; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func roleExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, name).Scan(&exists)
	return exists, err
}

func databaseExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists)
	return exists, err
}

// CreateIfNotExist provisions the app role and database on first run. It
// connects with the admin credentials for the role, then as the app user for
// the database so the app user owns it.
func CreateIfNotExist(conf *core.Config) error {
	admin, err := connect("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening admin connection")
	}
	defer func() { _ = admin.Close() }()

	if err = waitReady(admin); err != nil {
		return err
	}

	if usr := conf.Database.User; usr != "" {
		exists, err := roleExists(admin, usr)
		if err != nil {
			return errors.Wrap(err, "checking app user")
		}
		if !exists {
			// role names cannot be bound parameters
			q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", usr, conf.Database.Password)
			if _, err = admin.Exec(q); err != nil {
				return errors.Wrap(err, "creating app user")
			}
		}
	}

	db, err := connect("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening app connection")
	}
	defer func() { _ = db.Close() }()

	exists, err := databaseExists(db, conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking database")
	}
	if !exists {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// Migrate brings the schema up to date from the embedded migration files.
func Migrate(db *sql.DB) error {
	if err := goose.RunFS("up", db, appfs.FS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
