package database

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

const itemsTable = "items"

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	ds := db.insertInto(itemsTable).Rows(goqu.Record{
		"name":        item.Name,
		"description": item.Description,
		"available":   item.Available,
		"owner_id":    item.OwnerID,
		"request_id":  item.RequestID,
		"created_at":  item.CreatedAt.UTC(),
	})
	id, err := db.insert(ctx, db, ds)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := db.get(ctx, db, &item, db.from(itemsTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, notFound(err, "item", id)
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	ds := db.update(itemsTable).
		Set(goqu.Record{
			"name":        item.Name,
			"description": item.Description,
			"available":   item.Available,
		}).
		Where(goqu.C("id").Eq(item.ID))
	rows, err := db.exec(ctx, db, ds)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, item.ID)
	}
	return nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	ds := db.from(itemsTable).
		Where(goqu.C("owner_id").Eq(ownerID)).
		Order(goqu.C("id").Asc())
	return db.listItems(ctx, paginate(ds, page))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchItems matches text case-insensitively against name or description of
// available items. Wildcard characters in text match literally.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	ds := db.from(itemsTable).
		Where(
			goqu.L("available = ?", true),
			goqu.Or(
				goqu.L(`LOWER(name) LIKE ? ESCAPE '\'`, pattern),
				goqu.L(`LOWER(description) LIKE ? ESCAPE '\'`, pattern),
			),
		).
		Order(goqu.C("id").Asc())
	return db.listItems(ctx, paginate(ds, page))
}

func (db *DB) GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return []*models.Item{}, nil
	}
	ds := db.from(itemsTable).
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc())
	return db.listItems(ctx, ds)
}

func (db *DB) listItems(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Item, error) {
	items := []*models.Item{}
	if err := db.selectAll(ctx, db, &items, ds); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func paginate(ds *goqu.SelectDataset, page models.Page) *goqu.SelectDataset {
	if page.Unbounded() {
		return ds
	}
	return ds.Limit(uint(page.Limit)).Offset(uint(page.Offset))
}
