package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/models"
)

const communityColumns = `id, title, content, category, author_name, owner_id, parent_id,
	is_official, has_official_reply, likes, liked_by, created_at`

const insertCommunityPost = `
	INSERT INTO community_posts (id, title, content, category, author_name, owner_id, parent_id,
		is_official, has_official_reply, likes, liked_by, created_at)
	VALUES (:id, :title, :content, :category, :author_name, :owner_id, :parent_id,
		:is_official, :has_official_reply, :likes, :liked_by, :created_at)
`

// likePost appends the device and recomputes the count in a single statement.
// Row locking makes a concurrent like re-check the predicate against the
// committed set, so no increment is lost and no device is counted twice.
const likePost = `
	UPDATE community_posts
	SET liked_by = array_append(liked_by, $2::text),
	    likes = cardinality(liked_by) + 1
	WHERE id = $1 AND NOT ($2::text = ANY(liked_by))
	RETURNING likes
`

type communityRepository struct {
	db *sqlx.DB
}

func NewCommunityRepository(db *sqlx.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func prepareNew(post *models.CommunityPost) {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.LikedBy == nil {
		post.LikedBy = pq.StringArray{}
	}
	post.Likes = len(post.LikedBy)
}

// Create stores a top-level post and its images, in order, in one transaction.
func (r *communityRepository) Create(ctx context.Context, post *models.CommunityPost, imageURLs []string) error {
	prepareNew(post)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("eroare la începerea tranzacției: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, insertCommunityPost, post); err != nil {
		return fmt.Errorf("eroare la crearea postării: %w", err)
	}

	post.Images = make([]models.PostImage, 0, len(imageURLs))
	for i, url := range imageURLs {
		image := models.PostImage{
			ID:        uuid.New().String(),
			PostID:    post.ID,
			Position:  i,
			ImageURL:  url,
			CreatedAt: post.CreatedAt,
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO community_post_images (id, post_id, position, image_url, created_at)
			VALUES (:id, :post_id, :position, :image_url, :created_at)
		`, image)
		if err != nil {
			return fmt.Errorf("eroare la salvarea imaginii: %w", err)
		}
		post.Images = append(post.Images, image)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("eroare la confirmarea tranzacției: %w", err)
	}
	return nil
}

// CreateReply stores a reply under an existing top-level post. An official
// reply also flags the parent, in the same transaction.
func (r *communityRepository) CreateReply(ctx context.Context, reply *models.CommunityPost) error {
	if reply.ParentID == nil {
		return apperr.Validation("parentId", "este obligatoriu")
	}
	prepareNew(reply)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("eroare la începerea tranzacției: %w", err)
	}
	defer tx.Rollback()

	// lock the parent so it cannot be deleted underneath the reply
	var parentID string
	err = tx.GetContext(ctx, &parentID,
		`SELECT id FROM community_posts WHERE id = $1 AND parent_id IS NULL FOR UPDATE`, *reply.ParentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("postarea %s", *reply.ParentID)
		}
		return fmt.Errorf("eroare la verificarea postării părinte: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, insertCommunityPost, reply); err != nil {
		return fmt.Errorf("eroare la crearea răspunsului: %w", err)
	}

	if reply.IsOfficial {
		_, err = tx.ExecContext(ctx,
			`UPDATE community_posts SET has_official_reply = TRUE WHERE id = $1`, parentID)
		if err != nil {
			return fmt.Errorf("eroare la marcarea răspunsului oficial: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("eroare la confirmarea tranzacției: %w", err)
	}
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*models.CommunityPost, error) {
	var post models.CommunityPost

	err := r.db.GetContext(ctx, &post, `SELECT `+communityColumns+` FROM community_posts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("postarea %s", id)
		}
		return nil, fmt.Errorf("eroare la obținerea postării: %w", err)
	}

	return &post, nil
}

// ListTopLevel returns posts without a parent, newest first. An empty category means all.
func (r *communityRepository) ListTopLevel(ctx context.Context, category models.CommunityCategory) ([]models.CommunityPost, error) {
	query := `SELECT ` + communityColumns + ` FROM community_posts WHERE parent_id IS NULL`
	var args []any
	if category != "" {
		query += ` AND category = $1`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC`

	posts := []models.CommunityPost{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("eroare la listarea postărilor: %w", err)
	}

	return posts, nil
}

// ListReplies returns the replies of the given posts, oldest first.
func (r *communityRepository) ListReplies(ctx context.Context, parentIDs []string) ([]models.CommunityPost, error) {
	replies := []models.CommunityPost{}
	if len(parentIDs) == 0 {
		return replies, nil
	}

	query := `SELECT ` + communityColumns + ` FROM community_posts
		WHERE parent_id = ANY($1) ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &replies, query, pq.Array(parentIDs)); err != nil {
		return nil, fmt.Errorf("eroare la listarea răspunsurilor: %w", err)
	}

	return replies, nil
}

func (r *communityRepository) ImagesByPostIDs(ctx context.Context, postIDs []string) ([]models.PostImage, error) {
	images := []models.PostImage{}
	if len(postIDs) == 0 {
		return images, nil
	}

	query := `SELECT id, post_id, position, image_url, created_at FROM community_post_images
		WHERE post_id = ANY($1) ORDER BY post_id, position`

	if err := r.db.SelectContext(ctx, &images, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("eroare la obținerea imaginilor: %w", err)
	}

	return images, nil
}

// LikePost records a like from device and returns the resulting count.
// added is false when the device had already liked the post.
func (r *communityRepository) LikePost(ctx context.Context, postID string, device models.DeviceID) (int, bool, error) {
	var likes int

	err := r.db.QueryRowxContext(ctx, likePost, postID, string(device)).Scan(&likes)
	if err == nil {
		return likes, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("eroare la înregistrarea aprecierii: %w", err)
	}

	// nothing updated: either already liked or no such post
	err = r.db.GetContext(ctx, &likes, `SELECT likes FROM community_posts WHERE id = $1`, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, apperr.NotFound("postarea %s", postID)
		}
		return 0, false, fmt.Errorf("eroare la obținerea aprecierilor: %w", err)
	}

	return likes, false, nil
}

func (r *communityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM community_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eroare la ștergerea postării: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("eroare la verificarea rândurilor șterse: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("postarea %s", id)
	}

	return nil
}
