package db

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.PostgresConfig) (*sql.DB, error) {
	logrus.WithField("conn", cfg.Conn).Info("connecting postgres")
	db, err := sql.Open("postgres", cfg.Conn)

	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}
