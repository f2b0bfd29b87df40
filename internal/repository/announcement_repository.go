package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/models"
)

const announcementSelect = `
	SELECT a.id, a.title, a.content, a.category, a.file_url, a.is_published,
	       a.author_id, a.created_at, a.updated_at,
	       u.id AS "author.id", u.name AS "author.name", u.email AS "author.email"
	FROM announcements a
	JOIN users u ON u.id = a.author_id`

type announcementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	announcement.CreatedAt = now
	announcement.UpdatedAt = now

	query := `
		INSERT INTO announcements (id, title, content, category, file_url, is_published, author_id, created_at, updated_at)
		VALUES (:id, :title, :content, :category, :file_url, :is_published, :author_id, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, announcement)
	if err != nil {
		return fmt.Errorf("eroare la crearea anunțului: %w", err)
	}

	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	var announcement models.Announcement

	err := r.db.GetContext(ctx, &announcement, announcementSelect+` WHERE a.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("anunțul %s", id)
		}
		return nil, fmt.Errorf("eroare la obținerea anunțului: %w", err)
	}

	return &announcement, nil
}

// List returns announcements newest first; drafts only when the filter asks for them.
func (r *announcementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	var (
		conditions []string
		args       []any
	)

	if !filter.IncludeDrafts {
		conditions = append(conditions, "a.is_published = TRUE")
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conditions = append(conditions, fmt.Sprintf("a.category = $%d", len(args)))
	}

	query := announcementSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC"

	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, fmt.Errorf("eroare la listarea anunțurilor: %w", err)
	}

	return announcements, nil
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE announcements
		SET title = :title, content = :content, category = :category,
		    file_url = :file_url, is_published = :is_published, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, announcement)
	if err != nil {
		return fmt.Errorf("eroare la actualizarea anunțului: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("eroare la verificarea rândurilor actualizate: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("anunțul %s", announcement.ID)
	}

	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eroare la ștergerea anunțului: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("eroare la verificarea rândurilor șterse: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("anunțul %s", id)
	}

	return nil
}
