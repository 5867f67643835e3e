package main

import (
	"database/sql"
	"fmt"

	"gitlab.com/dirk.krummacker/friends-manager/internal/config"
	"gitlab.com/dirk.krummacker/friends-manager/internal/store"
	"go.uber.org/zap"
)

// openDatabase opens the database of the mysql or sqlite backend.
func openDatabase(c config.Config) (*sql.DB, error) {
	switch c.Backend {
	case "mysql":
		return store.OpenMySQL(c.DBUser, c.DBPwd, c.DBHost, c.DBName)
	case "sqlite":
		return store.OpenSQLite(c.SQLitePath)
	default:
		return nil, fmt.Errorf("backend %q has no database", c.Backend)
	}
}

// openStore builds the store for the configured backend and loads it. The returned close
// function releases the database, if any.
func openStore(c config.Config, l *zap.Logger) (*store.Store, func(), error) {
	var repo store.Repository
	closeFn := func() {}

	switch c.Backend {
	case "csv":
		repo = store.NewCSVRepository(c.File, l)
	case "mysql", "sqlite":
		sqlDB, err := openDatabase(c)
		if err != nil {
			return nil, nil, err
		}
		repo = store.NewSQLRepository(sqlDB, c.Backend, l)
		closeFn = func() {
			if err := sqlDB.Close(); err != nil {
				l.Warn("Failed to close database", zap.Error(err))
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	s := store.New(repo, l)
	if err := s.Load(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to load friends: %w", err)
	}
	return s, closeFn, nil
}
