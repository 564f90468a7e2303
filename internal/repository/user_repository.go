package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// UserRepository manages users and their per-project memberships.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByProjectRole(ctx context.Context, projectID string, role domain.Role) ([]domain.User, error)
	ReplaceMemberships(ctx context.Context, userID string, memberships []domain.Membership) error
	SetGlobalAdmin(ctx context.Context, userID string, isAdmin bool) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository builds repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, is_global_admin, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, password_hash, is_global_admin, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	q := querierFrom(ctx, r.pool)
	_, err := q.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsGlobalAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return r.insertMemberships(ctx, user.ID, user.Memberships)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, is_global_admin=$4, updated_at=$5
        WHERE id=$6`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsGlobalAdmin,
		user.UpdatedAt,
		user.ID,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	user, err := r.scanUser(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadMemberships(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	user, err := r.scanUser(ctx, query, email)
	if err != nil {
		return nil, err
	}
	if err := r.loadMemberships(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY name ASC`
	return r.scanUsers(ctx, query)
}

// ListByProjectRole returns users holding role in the given project.
// Global admins are not included unless they carry an explicit membership.
func (r *userRepository) ListByProjectRole(ctx context.Context, projectID string, role domain.Role) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.is_global_admin, u.created_at, u.updated_at
        FROM users u
        JOIN memberships m ON m.user_id = u.id
        WHERE m.project_id=$1 AND m.role=$2
        ORDER BY u.name ASC`
	return r.scanUsers(ctx, query, projectID, role)
}

func (r *userRepository) ReplaceMemberships(ctx context.Context, userID string, memberships []domain.Membership) error {
	q := querierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM memberships WHERE user_id=$1`, userID); err != nil {
		return err
	}
	return r.insertMemberships(ctx, userID, memberships)
}

func (r *userRepository) SetGlobalAdmin(ctx context.Context, userID string, isAdmin bool) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx,
		`UPDATE users SET is_global_admin=$1 WHERE id=$2`, isAdmin, userID)
	return err
}

func (r *userRepository) insertMemberships(ctx context.Context, userID string, memberships []domain.Membership) error {
	q := querierFrom(ctx, r.pool)
	for _, m := range memberships {
		_, err := q.Exec(ctx,
			`INSERT INTO memberships (user_id, project_id, role) VALUES ($1,$2,$3)`,
			userID, m.ProjectID, m.Role)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) loadMemberships(ctx context.Context, user *domain.User) error {
	rows, err := querierFrom(ctx, r.pool).Query(ctx,
		`SELECT project_id, role FROM memberships WHERE user_id=$1 ORDER BY project_id ASC`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ProjectID, &m.Role); err != nil {
			return err
		}
		user.Memberships = append(user.Memberships, m)
	}
	return rows.Err()
}

func (r *userRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsGlobalAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) scanUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.IsGlobalAdmin,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if err := r.loadMemberships(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}
