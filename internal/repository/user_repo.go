package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"identity-svc/internal/db"
	"identity-svc/internal/domain"
)

// ErrUniqueViolation indica que el backend rechazó la escritura por una restricción UNIQUE.
var ErrUniqueViolation = errors.New("unique constraint violation")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	// Create inserta el usuario y devuelve la fila con el id asignado por el backend.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	// GetByEmail devuelve la fila con hash, o pgx.ErrNoRows.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// List devuelve todos los usuarios sin hash, en el orden nativo del backend.
	List(ctx context.Context) ([]domain.User, error)
}

// PgUserRepository implementa UserRepository sobre un pool pgx. Cada operación usa una
// conexión del pool solo durante su propia consulta.
type PgUserRepository struct {
	pool db.Querier
}

func NewPgUserRepository(pool db.Querier) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (user_name, email, email_user_second, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, user_name, email, email_user_second
	`
	var created domain.User
	err := r.pool.QueryRow(ctx, query,
		user.UserName,
		user.Email,
		user.SecondaryEmail,
		user.PasswordHash,
	).Scan(
		&created.ID,
		&created.UserName,
		&created.Email,
		&created.SecondaryEmail,
	)
	if err != nil {
		return domain.User{}, classifyWriteError(err)
	}
	return created, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id::text, user_name, email, email_user_second, password_hash
		FROM users
		WHERE email = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.UserName,
		&u.Email,
		&u.SecondaryEmail,
		&u.PasswordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id::text, user_name, email, email_user_second
		FROM users
	`
	users := make([]domain.User, 0)
	err := db.WithRows(ctx, r.pool, query, nil, func(rows pgx.Rows) error {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.UserName, &u.Email, &u.SecondaryEmail); err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w (%s): %w", ErrUniqueViolation, pgErr.ConstraintName, err)
	}
	return fmt.Errorf("insert user: %w", err)
}
