package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/solutionshub/internal/database"
	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/jackc/pgx/v5"
)

type ProjectRepository struct {
	db database.TxBeginner
}

func NewProjectRepository(db database.TxBeginner) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.title, p.feature_img_url, p.summary_short, p.intro_short, p.impact,
	p.original_source_url, p.sector_id, s.id, s.sector_name
`

func scanProjectRow(scanner rowScanner) (*models.Project, error) {
	var p models.Project
	var s models.Sector

	err := scanner.Scan(
		&p.ID, &p.Title, &p.FeatureImgURL, &p.SummaryShort, &p.IntroShort, &p.Impact,
		&p.OriginalSourceURL, &p.SectorID, &s.ID, &s.SectorName,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	p.Sector = &s
	return &p, nil
}

func scanProjectRows(rows pgx.Rows) ([]*models.Project, error) {
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects p JOIN sectors s ON s.id = p.sector_id
		ORDER BY p.id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	return scanProjectRows(rows)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects p JOIN sectors s ON s.id = p.sector_id
		WHERE p.id = $1
	`

	return scanProjectRow(r.db.QueryRow(ctx, query, id))
}

// ListBySector matches sector names case-insensitively on a substring.
func (r *ProjectRepository) ListBySector(ctx context.Context, term string) ([]*models.Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects p JOIN sectors s ON s.id = p.sector_id
		WHERE s.sector_name ILIKE '%' || $1 || '%'
		ORDER BY p.id ASC
	`

	rows, err := r.db.Query(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by sector: %w", err)
	}

	return scanProjectRows(rows)
}

func (r *ProjectRepository) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	rows, err := r.db.Query(ctx, `SELECT id, sector_name FROM sectors ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	sectors := make([]*models.Sector, 0)
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.SectorName); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sectors, nil
}

// Create assigns the next id (max + 1) and inserts the project in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// serialize id allocation between concurrent inserts
		if _, err := tx.Exec(ctx, `LOCK TABLE projects IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}

		var nextID int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM projects`).Scan(&nextID); err != nil {
			return err
		}

		query := `
			INSERT INTO projects (id, title, feature_img_url, summary_short, intro_short, impact, original_source_url, sector_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.Exec(ctx, query,
			nextID, p.Title, p.FeatureImgURL, p.SummaryShort, p.IntroShort, p.Impact,
			p.OriginalSourceURL, p.SectorID,
		); err != nil {
			return err
		}

		p.ID = nextID
		return nil
	})
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int, p *models.Project) error {
	query := `
		UPDATE projects SET title = $1, feature_img_url = $2, summary_short = $3, intro_short = $4,
			impact = $5, original_source_url = $6, sector_id = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(ctx, query,
		p.Title, p.FeatureImgURL, p.SummaryShort, p.IntroShort, p.Impact,
		p.OriginalSourceURL, p.SectorID, id,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
