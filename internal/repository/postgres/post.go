package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/chirp-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	const query = `
        INSERT INTO posts (id, author_id, parent_id, audience, content, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at
    `
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query, post.ID, post.AuthorID, post.ParentID, post.Audience, post.Content).Scan(&post.CreatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	const query = `SELECT id, author_id, parent_id, audience, content, created_at FROM posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) ListChildren(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]model.Post, error) {
	const query = `
        SELECT id, author_id, parent_id, audience, content, created_at
        FROM posts
        WHERE parent_id = $1
        ORDER BY created_at, id
        LIMIT $2 OFFSET $3
    `

	rows, err := r.db.Query(ctx, query, parentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list post children: %w", err)
	}
	defer rows.Close()

	children := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post child: %w", err)
		}
		children = append(children, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post children: %w", err)
	}
	return children, nil
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.ParentID, &p.Audience, &p.Content, &p.CreatedAt)
	return p, err
}
