package principals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func tableFor(kind models.Kind) (string, error) {
	switch kind {
	case models.KindUser:
		return "users", nil
	case models.KindAdmin:
		return "admins", nil
	default:
		return "", fmt.Errorf("unknown principal kind %q", kind)
	}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Principal) (*models.Principal, error) {
	table, err := tableFor(p.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, email, password_hash, first_name, last_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`, table)

	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName).Scan(&p.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrorDuplicate, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, kind models.Kind, email string) (*models.Principal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, email, password_hash, first_name, last_name, created_at FROM %s
		 WHERE email = $1`, table)

	p := &models.Principal{Kind: kind}
	err = r.db.QueryRowContext(ctx, query, email).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
