package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/platform/logger"
	"github.com/taskfleet/taskfleet/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, log *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
// Returns store.ErrEmailExists when the email unique constraint fires.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, email, name, hashed_password, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Name,
		nullableString(user.HashedPassword),
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already exists",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, name, hashed_password, role, created_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, hashed_password, role, created_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// EmailExists implements store.UserStore.EmailExists.
func (s *PostgresUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// SetPassword implements store.UserStore.SetPassword.
func (s *PostgresUserStore) SetPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET hashed_password = $2 WHERE id = $1`,
		id,
		hashedPassword,
	)
	if err != nil {
		log.Error("failed to set password",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	log.Info("password set", slog.String("user_id", id.String()))
	return nil
}

// ListByRole implements store.UserStore.ListByRole.
func (s *PostgresUserStore) ListByRole(
	ctx context.Context,
	role domain.Role,
	page store.PageRequest,
) (*store.Page[domain.User], error) {
	var total int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`,
		role,
	).Scan(&total)
	if err != nil {
		return nil, MapError(err)
	}

	query := `
		SELECT id, email, name, hashed_password, role, created_at
		FROM users
		WHERE role = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, role, page.Size, page.Offset())
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

func (s *PostgresUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var hashed sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&hashed,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	user.HashedPassword = hashed.String
	return &user, nil
}

// nullableString maps an empty string to SQL NULL. An invited developer
// has no password until the invitation is redeemed.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
