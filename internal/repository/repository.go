package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/digitaleng1/digitalbuild-sub001/internal/config"
	"github.com/digitaleng1/digitalbuild-sub001/internal/models"

	postgres "github.com/digitaleng1/digitalbuild-sub001/internal/repository/db"
)

type Repository struct {
	db  *sql.DB
	cfg *config.PostgresConfig
}

func NewRepository(db *sql.DB, cfg *config.PostgresConfig) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.Migrate: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.Migrate: %w", err)
	}
	return nil
}

func (repo *Repository) ProjectByUUID(ctx context.Context, UUID string) (models.Project, bool, error) {
	var project models.Project
	query := `
	SELECT
		id,
		name,
		client_id,
		created_at,
		updated_at
	FROM projects
	WHERE id = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&project.Id, &project.Name, &project.ClientId, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return project, false, nil
	} else if err != nil {
		return project, false, fmt.Errorf("repository.Repository.ProjectByUUID: %w", err)
	}

	return project, true, nil
}

func (repo *Repository) SpecialistByUUID(ctx context.Context, UUID string) (models.Specialist, bool, error) {
	var specialist models.Specialist
	query := `
	SELECT
		id,
		full_name,
		experience_years,
		rating,
		created_at,
		updated_at
	FROM specialists
	WHERE id = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&specialist.Id, &specialist.FullName, &specialist.ExperienceYears, &specialist.Rating, &specialist.CreatedAt, &specialist.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return specialist, false, nil
	} else if err != nil {
		return specialist, false, fmt.Errorf("repository.Repository.SpecialistByUUID: %w", err)
	}

	return specialist, true, nil
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Service

func wrapRollbackErr(tx *sql.Tx, err error) error {
	rollerr := tx.Rollback()
	if rollerr == nil {
		return err
	}
	return fmt.Errorf("failed to rollback transaction after previous error: %w, %w", rollerr, err)
}

//// Test utils

func (repo *Repository) TestGetDB() *sql.DB {
	return repo.db
}
