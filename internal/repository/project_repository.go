package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// ProjectRepository manages the project directory.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository builds repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx,
		`INSERT INTO projects (id, name, created_at) VALUES ($1,$2,$3)`,
		project.ID, project.Name, project.CreatedAt)
	return err
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := querierFrom(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, created_at FROM projects WHERE id=$1`, id).
		Scan(&project.ID, &project.Name, &project.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx,
		`SELECT id, name, created_at FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
