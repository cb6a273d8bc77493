package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/platform/logger"
	"github.com/taskfleet/taskfleet/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, name, description, responsible_person_id, status, priority, created_by, created_at`

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Description,
		task.ResponsiblePersonID,
		task.Status,
		task.Priority,
		task.CreatedBy,
		task.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("created_by", task.CreatedBy.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(s.db.QueryRowContext(ctx, query, id))
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET name = $2,
		    description = $3,
		    responsible_person_id = $4,
		    status = $5,
		    priority = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Description,
		task.ResponsiblePersonID,
		task.Status,
		task.Priority,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete. Assignments are removed by
// the ON DELETE CASCADE on task_executors.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return nil, MapError(err)
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, MapError(err)
	}
	return collectTasks(rows, total, s.logger)
}

// ListForUser implements store.TaskStore.ListForUser. It returns tasks
// the user is responsible for together with tasks the user is assigned to.
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	filter := `
		FROM tasks t
		WHERE t.responsible_person_id = $1
		   OR t.id IN (SELECT task_id FROM task_executors WHERE user_id = $1)
	`

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) `+filter, userID).Scan(&total); err != nil {
		return nil, MapError(err)
	}

	query := `
		SELECT t.id, t.name, t.description, t.responsible_person_id,
		       t.status, t.priority, t.created_by, t.created_at
		` + filter + `
		ORDER BY t.created_at, t.id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, MapError(err)
	}
	return collectTasks(rows, total, s.logger)
}

// Assign implements store.TaskStore.Assign.
// Returns store.ErrAlreadyAssigned on a duplicate pair and
// store.ErrTaskNotFound/ErrUserNotFound when a referenced row is missing.
func (s *PostgresTaskStore) Assign(ctx context.Context, assignment *domain.TaskAssignment) error {
	log := logger.FromContext(ctx)

	if err := assignment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_executors (task_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, assignment.TaskID, assignment.UserID, assignment.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrAlreadyAssigned
		}
		if IsForeignKeyViolation(err) {
			// Distinguish the missing side by constraint name.
			return mapAssignmentFKViolation(err)
		}
		log.Error("failed to assign user to task",
			slog.String("error", err.Error()),
			slog.String("task_id", assignment.TaskID.String()),
			slog.String("user_id", assignment.UserID.String()))
		return MapError(err)
	}

	log.Info("user assigned to task",
		slog.String("task_id", assignment.TaskID.String()),
		slog.String("user_id", assignment.UserID.String()))
	return nil
}

// Unassign implements store.TaskStore.Unassign.
func (s *PostgresTaskStore) Unassign(ctx context.Context, taskID, userID uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM task_executors WHERE task_id = $1 AND user_id = $2`,
		taskID,
		userID,
	)
	if err != nil {
		log.Error("failed to unassign user from task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrAssignmentNotFound
	}

	log.Info("user unassigned from task",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListAssignees implements store.TaskStore.ListAssignees.
func (s *PostgresTaskStore) ListAssignees(
	ctx context.Context,
	taskID uuid.UUID,
	page store.PageRequest,
) (*store.Page[domain.User], error) {
	var total int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM task_executors WHERE task_id = $1`,
		taskID,
	).Scan(&total)
	if err != nil {
		return nil, MapError(err)
	}

	query := `
		SELECT u.id, u.email, u.name, u.hashed_password, u.role, u.created_at
		FROM users u
		JOIN task_executors te ON te.user_id = u.id
		WHERE te.task_id = $1
		ORDER BY te.created_at, u.id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, taskID, page.Size, page.Offset())
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	users := make([]domain.User, 0, page.Size)
	for rows.Next() {
		var user domain.User
		var hashed sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&hashed,
			&user.Role,
			&user.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		user.HashedPassword = hashed.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &store.Page[domain.User]{Items: users, Total: total}, nil
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.ResponsiblePersonID,
		&task.Status,
		&task.Priority,
		&task.CreatedBy,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return &task, nil
}

func collectTasks(rows *sql.Rows, total int, log *slog.Logger) (*store.Page[domain.Task], error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.Description,
			&task.ResponsiblePersonID,
			&task.Status,
			&task.Priority,
			&task.CreatedBy,
			&task.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &store.Page[domain.Task]{Items: tasks, Total: total}, nil
}

// mapAssignmentFKViolation resolves which side of a task_executors insert
// was missing based on the violated constraint.
func mapAssignmentFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "task_executors_task_id_fkey":
			return store.ErrTaskNotFound
		case "task_executors_user_id_fkey":
			return store.ErrUserNotFound
		}
	}
	return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
}
