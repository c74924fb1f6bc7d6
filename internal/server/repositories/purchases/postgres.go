package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// courseFKConstraint is the name Postgres gives the course_id foreign key.
const courseFKConstraint = "purchases_course_id_fkey"

const selectDetails = `SELECT p.id, p.user_id, p.course_id, p.created_at,
		c.id, c.title, c.description, c.price, c.image_url, c.creator_id, c.created_at, c.updated_at
	 FROM purchases p
	 JOIN courses c ON c.id = p.course_id`

type PostgresRepository struct {
	db dbx.DB
}

func NewPostgresRepository(db dbx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDetails(row scanner) (*models.PurchaseDetails, error) {
	d := &models.PurchaseDetails{}
	err := row.Scan(&d.ID, &d.UserID, &d.CourseID, &d.CreatedAt,
		&d.Course.ID, &d.Course.Title, &d.Course.Description, &d.Course.Price,
		&d.Course.ImageURL, &d.Course.CreatorID, &d.Course.CreatedAt, &d.Course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts the purchase and reads it back joined with the course in one
// transaction. The UNIQUE (user_id, course_id) constraint decides duplicates.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Purchase) (*models.PurchaseDetails, error) {
	var details *models.PurchaseDetails

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO purchases (id, user_id, course_id) VALUES ($1, $2, $3)`,
			p.ID, p.UserID, p.CourseID)
		switch {
		case err == nil:
		case dbx.IsUniqueViolation(err):
			return fmt.Errorf("%w: %v", common.ErrorDuplicate, err)
		case dbx.IsForeignKeyViolation(err, courseFKConstraint):
			return common.ErrorNotFound
		default:
			return fmt.Errorf("db error: %w", err)
		}

		details, err = scanDetails(tx.QueryRowContext(ctx, selectDetails+` WHERE p.id = $1`, p.ID))
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return details, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	query :=
		`SELECT id, user_id, course_id, created_at FROM purchases
		 WHERE user_id = $1 AND course_id = $2`

	p := &models.Purchase{}
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&p.ID, &p.UserID, &p.CourseID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.PurchaseDetails, error) {
	rows, err := r.db.QueryContext(ctx, selectDetails+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.PurchaseDetails{}
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
