package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

const courseColumns = `id, title, description, price, image_url, creator_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.ImageURL, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	query :=
		`INSERT INTO courses (id, title, description, price, image_url, creator_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Title, c.Description, c.Price, c.ImageURL, c.CreatorID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) UpdateIfCreator(ctx context.Context, id, creatorID string, changes models.CourseChanges) (*models.Course, error) {
	query :=
		`UPDATE courses
		 SET title = $3, description = $4, price = $5, image_url = $6, updated_at = now()
		 WHERE id = $1 AND creator_id = $2
		 RETURNING ` + courseColumns

	c, err := scanCourse(r.db.QueryRowContext(ctx, query,
		id, creatorID, changes.Title, changes.Description, changes.Price, changes.ImageURL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE creator_id = $1 ORDER BY created_at`
	return r.list(ctx, query, creatorID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
