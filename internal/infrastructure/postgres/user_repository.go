package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, username, password_hash, role, status, must_change_password, is_online, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. El email es único sin distinguir mayúsculas.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash, string(u.Role), u.Status,
		u.MustChangePassword, u.IsOnline, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrap("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.one(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// List usuarios ordenados por username.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return r.many(ctx, "list users",
		`SELECT `+userColumns+` FROM users ORDER BY username, id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListOnline usuarios activos con presencia marcada.
func (r *UserRepo) ListOnline(ctx context.Context) ([]*entity.User, error) {
	return r.many(ctx, "list online users",
		`SELECT `+userColumns+` FROM users WHERE is_online AND status = 'active' ORDER BY username`)
}

// UpdateRole cambia el rol.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, rl role.Role) error {
	return r.exec(ctx, "update user role", `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(rl))
}

// UpdateStatus activa o desactiva la cuenta.
func (r *UserRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.exec(ctx, "update user status", `UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, id, status)
}

// UpdatePassword reemplaza el hash y la marca de rotación obligatoria.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string, mustChange bool) error {
	return r.exec(ctx, "update user password",
		`UPDATE users SET password_hash = $2, must_change_password = $3, updated_at = now() WHERE id = $1`,
		id, hash, mustChange)
}

// SetOnline marca la presencia.
func (r *UserRepo) SetOnline(ctx context.Context, id string, online bool) error {
	return r.exec(ctx, "set user online", `UPDATE users SET is_online = $2 WHERE id = $1`, id, online)
}

// Delete elimina el usuario. sales.seller_id es ON DELETE RESTRICT: si tiene ventas devuelve ConflictError.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Entity: "user", ID: id, Reason: "has_sales"}
		}
		return wrap("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) one(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return u, nil
}

func (r *UserRepo) many(ctx context.Context, op, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		list = append(list, u)
	}
	return list, wrap(op, rows.Err())
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var rl string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &rl, &u.Status,
		&u.MustChangePassword, &u.IsOnline, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = role.Role(rl)
	return &u, nil
}
