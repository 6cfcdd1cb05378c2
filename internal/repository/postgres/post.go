package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voro-app/feed-service/internal/model"
)

const postColumns = "id, owner_id, kind, caption, description, category, image_url, video_url, like_count, comment_count, created_at, updated_at"

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	var created model.Post
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(owner_id, kind, caption, description, category, image_url, video_url) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING "+postColumns,
		post.OwnerID,
		post.Kind,
		post.Caption,
		post.Description,
		post.Category,
		post.ImageURL,
		post.VideoURL,
	).Scan(
		&created.ID,
		&created.OwnerID,
		&created.Kind,
		&created.Caption,
		&created.Description,
		&created.Category,
		&created.ImageURL,
		&created.VideoURL,
		&created.LikeCount,
		&created.CommentCount,
		&created.CreatedAt,
		&created.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *postRepo) FindAll(ctx context.Context) ([]*model.FullPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
		p.id, p.owner_id, p.kind, p.caption, p.description, p.category, p.image_url, p.video_url,
		p.like_count, p.comment_count, p.created_at, p.updated_at, u.username, u.display_name, u.avatar_url
		FROM posts p
		LEFT JOIN profiles u ON p.owner_id = u.id
		ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.FullPost{}
	for rows.Next() {
		var (
			post        model.FullPost
			username    *string
			displayName *string
			avatarURL   *string
		)
		if err := rows.Scan(
			&post.Post.ID,
			&post.Post.OwnerID,
			&post.Post.Kind,
			&post.Post.Caption,
			&post.Post.Description,
			&post.Post.Category,
			&post.Post.ImageURL,
			&post.Post.VideoURL,
			&post.Post.LikeCount,
			&post.Post.CommentCount,
			&post.Post.CreatedAt,
			&post.Post.UpdatedAt,
			&username,
			&displayName,
			&avatarURL,
		); err != nil {
			return nil, err
		}

		if username != nil {
			post.Author = model.Profile{
				ID:          post.Post.OwnerID,
				Username:    *username,
				DisplayName: displayName,
				AvatarURL:   avatarURL,
			}.Author()
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// IncrLikes increments like_count in the store and returns the new value.
// Returns pgx.ErrNoRows when the post does not exist.
func (r *postRepo) IncrLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var likes int64
	if err := r.db.QueryRow(
		ctx,
		"UPDATE posts SET like_count = like_count + 1, updated_at = now() WHERE id = $1 RETURNING like_count",
		id,
	).Scan(&likes); err != nil {
		return 0, err
	}

	return likes, nil
}
