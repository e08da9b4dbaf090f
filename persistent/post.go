package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chatterhq/chatter"
	"github.com/uptrace/bun"
)

type Post struct {
	bun.BaseModel `bun:"table:post"`

	UserId  string `bun:"user_id,pk"`
	Id      int64  `bun:"id,pk"`
	Content string `bun:"content,notnull"`
}

func (p Post) ToDomain() chatter.Post {
	return chatter.Post{
		UserId:  chatter.UserId(p.UserId),
		Id:      chatter.PostId(p.Id),
		Content: p.Content,
	}
}

// PostCounter holds the last sequence id handed out per user. Claiming
// the next id and inserting the post happen in one transaction, so ids
// stay unique per user and are never reused after deletes.
type PostCounter struct {
	bun.BaseModel `bun:"table:post_counter"`

	UserId string `bun:"user_id,pk"`
	LastId int64  `bun:"last_id,notnull"`
}

type PostStore struct {
	DB *bun.DB
}

var _ chatter.PostStore = (*PostStore)(nil)

func (s *PostStore) Write(ctx context.Context, post *chatter.Post) error {
	if post == nil {
		return chatter.ErrNilPost
	}
	if post.UserId == "" {
		return chatter.ErrBlankUserId
	}

	err := s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		counter := &PostCounter{UserId: string(post.UserId), LastId: 1}
		_, err := tx.NewInsert().
			Model(counter).
			On(`CONFLICT (user_id) DO UPDATE SET last_id=post_counter.last_id+1`).
			Returning(`last_id`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("claim post id: %w", err)
		}

		model := &Post{
			UserId:  string(post.UserId),
			Id:      counter.LastId,
			Content: post.Content,
		}
		_, err = tx.NewInsert().
			Model(model).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		post.Id = chatter.PostId(counter.LastId)
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (s *PostStore) Delete(ctx context.Context, userId chatter.UserId, postId chatter.PostId) error {
	if userId == "" {
		return chatter.ErrBlankUserId
	}
	_, err := s.DB.NewDelete().
		Model((*Post)(nil)).
		Where(`user_id=?`, string(userId)).
		Where(`id=?`, int64(postId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *PostStore) ById(ctx context.Context, userId chatter.UserId, postId chatter.PostId) (chatter.Post, error) {
	if userId == "" {
		return chatter.Post{}, chatter.ErrBlankUserId
	}
	post := new(Post)
	err := s.DB.NewSelect().
		Model(post).
		Where(`user_id=?`, string(userId)).
		Where(`id=?`, int64(postId)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return chatter.Post{}, chatter.ErrPostNotFound
		}
		return chatter.Post{}, fmt.Errorf("select post: %w", err)
	}
	return post.ToDomain(), nil
}

func (s *PostStore) ByUser(ctx context.Context, userId chatter.UserId) ([]chatter.Post, error) {
	if userId == "" {
		return nil, chatter.ErrBlankUserId
	}
	var models []Post
	err := s.DB.NewSelect().
		Model(&models).
		Where(`user_id=?`, string(userId)).
		Order(`id ASC`).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	posts := make([]chatter.Post, len(models))
	for i, model := range models {
		posts[i] = model.ToDomain()
	}
	return posts, nil
}

func (s *PostStore) ByUserFiltered(
	ctx context.Context,
	userId chatter.UserId,
	predicate chatter.PostPredicate,
) ([]chatter.Post, error) {
	if predicate == nil {
		return nil, chatter.ErrNilPredicate
	}
	posts, err := s.ByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	filtered := []chatter.Post{}
	for _, post := range posts {
		if predicate(post) {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}
