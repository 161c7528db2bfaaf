package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/solutionshub/internal/models"
)

const (
	MsgProjectNotFound  = "Unable to find requested project"
	MsgProjectsNotFound = "Unable to find requested projects"
)

var (
	ErrProjectNotFound  = fmt.Errorf("%w: project", models.ErrNotFound)
	ErrProjectsNotFound = fmt.Errorf("%w: projects", models.ErrNotFound)
)

type ProjectRepository interface {
	List(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id int) (*models.Project, error)
	ListBySector(ctx context.Context, term string) ([]*models.Project, error)
	ListSectors(ctx context.Context) ([]*models.Sector, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, id int, p *models.Project) error
	Delete(ctx context.Context, id int) error
}

// ProjectService serves the solutions catalog.
type ProjectService struct {
	repo   ProjectRepository
	logger *slog.Logger
}

func NewProjectService(repo ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", slog.Any("error", err))
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("failed to get project", slog.Int("project_id", id), slog.Any("error", err))
		return nil, err
	}
	return project, nil
}

// GetProjectsBySector returns projects whose sector name contains term, ignoring case.
// An empty match is reported as ErrProjectsNotFound.
func (s *ProjectService) GetProjectsBySector(ctx context.Context, term string) ([]*models.Project, error) {
	projects, err := s.repo.ListBySector(ctx, term)
	if err != nil {
		s.logger.Error("failed to list projects by sector", slog.String("sector", term), slog.Any("error", err))
		return nil, err
	}
	if len(projects) == 0 {
		return nil, ErrProjectsNotFound
	}
	return projects, nil
}

func (s *ProjectService) GetAllSectors(ctx context.Context) ([]*models.Sector, error) {
	sectors, err := s.repo.ListSectors(ctx)
	if err != nil {
		s.logger.Error("failed to list sectors", slog.Any("error", err))
		return nil, err
	}
	return sectors, nil
}

func (s *ProjectService) AddProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error("failed to add project", slog.Any("error", err))
		return nil, err
	}
	s.logger.Info("project added", slog.Int("project_id", created.ID))
	return created, nil
}

func (s *ProjectService) EditProject(ctx context.Context, id int, p *models.Project) error {
	if err := s.repo.Update(ctx, id, p); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrProjectNotFound
		}
		s.logger.Error("failed to edit project", slog.Int("project_id", id), slog.Any("error", err))
		return err
	}
	s.logger.Info("project updated", slog.Int("project_id", id))
	return nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrProjectNotFound
		}
		s.logger.Error("failed to delete project", slog.Int("project_id", id), slog.Any("error", err))
		return err
	}
	s.logger.Info("project deleted", slog.Int("project_id", id))
	return nil
}
