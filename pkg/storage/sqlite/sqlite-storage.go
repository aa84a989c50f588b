package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Storage wraps the single owned database handle; every repository receives a
// reference to its connection and no other code opens the file. The schema is
// guaranteed to exist by the time New returns, so repositories never race
// against table creation.
type Storage struct {
	Connection *sql.DB
	logger     *logrus.Logger
}

func New(logger *logrus.Logger, path string) (*Storage, error) {

	logger.Println("initialising SQLite DB")

	var connection *sql.DB
	var err error

	// the database already exists, check its contents before use
	if _, err = os.Stat(path); err == nil {
		connection, err = getVerifiedConnection(path)
		if err != nil {
			logger.WithError(err).Error("error while verifying existing database")
			return nil, err
		}
	} else {
		// create the file and initialise the schema
		connection, err = sql.Open("sqlite3", path)
		if err != nil {
			logger.WithError(err).Error("error while creating new database")
			return nil, err
		}
		if _, err = connection.Exec(schema); err != nil {
			logger.WithError(err).Error("error while building database schema")
			return nil, err
		}
	}

	// a single writer suits SQLite and serialises statements from concurrent
	// callers; foreign key enforcement stays off, matching the declared but
	// unenforced references in the schema
	connection.SetMaxOpenConns(1)
	connection.SetMaxIdleConns(1)

	// opening the DB will fail silently when the package is compiled without CGO_ENABLED
	if err = connection.Ping(); err != nil {
		return nil, err
	}
	return &Storage{connection, logger}, nil
}

func (s *Storage) Close() {
	s.logger.Debug("database stopping")
	if err := s.Connection.Close(); err != nil {
		s.logger.WithError(err).Warning("error while closing the database")
	}
}

// getVerifiedConnection opens an existing database file and refuses it when
// its schema diverges from the embedded one; no migration scheme exists.
func getVerifiedConnection(path string) (*sql.DB, error) {
	connection, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// build the desired schema in memory for comparison
	desired, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = desired.Close()
	}()
	if _, err = desired.Exec(schema); err != nil {
		return nil, err
	}

	desiredTables, err := mapSchema(desired)
	if err != nil {
		return nil, err
	}
	actualTables, err := mapSchema(connection)
	if err != nil {
		return nil, err
	}

	if sameSchemaMap(desiredTables, actualTables) {
		return connection, nil
	}
	return nil, errors.New("schema mismatch")
}

func mapSchema(connection *sql.DB) (tables map[string]string, err error) {

	rows, err := connection.Query(`SELECT name, sql FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}

	// in-memory and on-file schema dumps differ in whitespace
	var replacer = strings.NewReplacer(
		"\n\t\t", "",
		"\r\n\t\t", "",
		"\r\n", "",
		"\n", "",
	)

	tables = make(map[string]string)
	var name, sqlCode string
	for rows.Next() {
		if err = rows.Scan(&name, &sqlCode); err != nil {
			return tables, err
		}
		tables[name] = replacer.Replace(sqlCode)
	}

	if err = rows.Err(); err != nil {
		return tables, err
	}

	if err = rows.Close(); err != nil {
		return tables, err
	}

	return tables, err
}

func sameSchemaMap(first, second map[string]string) bool {
	if len(first) != len(second) {
		return false
	}
	for firstKey, firstValue := range first {
		if secondValue, found := second[firstKey]; !found || secondValue != firstValue {
			return false
		}
	}
	return true
}
