package database

import (
	"context"
	"fmt"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

const commentsTable = "comments"

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	ds := db.insertInto(commentsTable).Rows(goqu.Record{
		"text":       comment.Text,
		"item_id":    comment.ItemID,
		"author_id":  comment.AuthorID,
		"created_at": comment.Created.UTC(),
	})
	id, err := db.insert(ctx, db, ds)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	if len(itemIDs) == 0 {
		return comments, nil
	}
	ds := db.from(commentsTable).
		Where(goqu.C("item_id").In(itemIDs)).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())
	if err := db.selectAll(ctx, db, &comments, ds); err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}
