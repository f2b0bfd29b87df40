package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/models"
)

var announcementCols = []string{
	"id", "title", "content", "category", "file_url", "is_published",
	"author_id", "created_at", "updated_at", "author.id", "author.name", "author.email",
}

func TestAnnouncementRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO announcements")).
		WithArgs(sqlmock.AnyArg(), "Ședință publică marți", sqlmock.AnyArg(), "Urgent", nil, true, "u1",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	a := &models.Announcement{
		Title:       "Ședință publică marți",
		Content:     "Se convoacă ședința ordinară a consiliului local.",
		Category:    models.CategoryUrgent,
		IsPublished: true,
		AuthorID:    "u1",
	}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepository_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name: "Anunț existent cu autor",
			rows: sqlmock.NewRows(announcementCols).AddRow(
				"a1", "Titlu anunț", "Conținutul anunțului", "Cultura", "/uploads/x.pdf", true,
				"u1", time.Now(), time.Now(), "u1", "Ion Popescu", "ion@primaria.ro"),
		},
		{
			name:    "Anunț inexistent",
			rows:    sqlmock.NewRows(announcementCols),
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewAnnouncementRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ")).WithArgs("a1").WillReturnRows(tt.rows)

			a, err := repo.GetByID(context.Background(), "a1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ion Popescu", a.Author.Name)
				assert.Equal(t, "ion@primaria.ro", a.Author.Email)
				require.NotNil(t, a.FileURL)
				assert.Equal(t, "/uploads/x.pdf", *a.FileURL)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAnnouncementRepository_List(t *testing.T) {
	tests := []struct {
		name      string
		filter    models.AnnouncementFilter
		setupMock func(mock sqlmock.Sqlmock)
	}{
		{
			name:   "Doar publicate, filtrate după categorie",
			filter: models.AnnouncementFilter{Category: models.CategoryUrgent},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE a.is_published = TRUE AND a.category = $1 ORDER BY a.created_at DESC")).
					WithArgs("Urgent").
					WillReturnRows(sqlmock.NewRows(announcementCols))
			},
		},
		{
			name:   "Include ciornele",
			filter: models.AnnouncementFilter{IncludeDrafts: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("a.author_id ORDER BY a.created_at DESC")).
					WithoutArgs().
					WillReturnRows(sqlmock.NewRows(announcementCols))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewAnnouncementRepository(db)
			tt.setupMock(mock)

			list, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAnnouncementRepository_UpdateDeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAnnouncementRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements")).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(ctx, &models.Announcement{ID: "lipsa", Title: "Titlu", Category: models.CategoryGeneral})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements")).WithArgs("lipsa").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "lipsa"), apperr.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
