package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

// ErrTaskNotFound is returned when no row matches the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskPatch carries the fields of a partial update. Nil keeps the stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskRepo provides task persistence.
type TaskRepo interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Update(ctx context.Context, id int64, patch TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	query := `
		INSERT INTO tasks (title, description, completed)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, completed, created_at, updated_at`
	var out domain.Task
	err := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Completed).Scan(
		&out.ID, &out.Title, &out.Description, &out.Completed,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (domain.Task, error) {
	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks WHERE id = $1`
	var t domain.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrTaskNotFound
	}
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update applies a patch in one statement so concurrent writers are serialized
// by the row lock; there is no read-modify-write window.
func (r *PGTaskRepo) Update(ctx context.Context, id int64, patch TaskPatch) (domain.Task, error) {
	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    completed = COALESCE($4, completed),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, title, description, completed, created_at, updated_at`
	var t domain.Task
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description, patch.Completed).Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrTaskNotFound
	}
	return t, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
