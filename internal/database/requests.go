package database

import (
	"context"
	"fmt"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

const requestsTable = "requests"

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	ds := db.insertInto(requestsTable).Rows(goqu.Record{
		"description":  request.Description,
		"requestor_id": request.RequestorID,
		"created_at":   request.Created.UTC(),
	})
	id, err := db.insert(ctx, db, ds)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	var request models.Request
	if err := db.get(ctx, db, &request, db.from(requestsTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, notFound(err, "request", id)
	}
	return &request, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.Request, error) {
	ds := db.from(requestsTable).
		Where(goqu.C("requestor_id").Eq(requestorID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	return db.listRequests(ctx, ds)
}

func (db *DB) GetRequestsExcept(ctx context.Context, requestorID int64, page models.Page) ([]*models.Request, error) {
	ds := db.from(requestsTable).
		Where(goqu.C("requestor_id").Neq(requestorID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	return db.listRequests(ctx, paginate(ds, page))
}

func (db *DB) listRequests(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Request, error) {
	requests := []*models.Request{}
	if err := db.selectAll(ctx, db, &requests, ds); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}
