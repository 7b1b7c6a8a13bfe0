package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const bookingsTable = "bookings"

var bookingColumns = []string{"id", "item_id", "booker_id", "start_date", "end_date", "status", "version", "created_at"}

func qualifiedBookingColumns(alias string) []interface{} {
	cols := make([]interface{}, len(bookingColumns))
	for i, c := range bookingColumns {
		cols[i] = goqu.T(alias).Col(c)
	}
	return cols
}

// CreateBookingWithOverlapCheck runs the overlap probe and the insert in one
// transaction at the driver's default isolation. Rows are not locked, so two
// concurrent creators can both pass the probe on postgres.
func (db *DB) CreateBookingWithOverlapCheck(ctx context.Context, booking *models.Booking) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		var overlapping int
		probe := db.from(bookingsTable).
			Select(goqu.COUNT("*")).
			Where(
				goqu.C("item_id").Eq(booking.ItemID),
				goqu.C("status").Eq(string(models.StatusApproved)),
				goqu.C("start_date").Lt(booking.End.UTC()),
				goqu.C("end_date").Gt(booking.Start.UTC()),
			)
		if err := db.get(ctx, tx, &overlapping, probe); err != nil {
			return fmt.Errorf("failed to check overlap in tx: %w", err)
		}
		if overlapping > 0 {
			return ErrNotAvailable
		}

		if booking.Status == "" {
			booking.Status = models.StatusWaiting
		}
		ds := db.insertInto(bookingsTable).Rows(goqu.Record{
			"item_id":    booking.ItemID,
			"booker_id":  booking.BookerID,
			"start_date": booking.Start.UTC(),
			"end_date":   booking.End.UTC(),
			"status":     string(booking.Status),
			"version":    1,
			"created_at": booking.CreatedAt.UTC(),
		})
		id, err := db.insert(ctx, tx, ds)
		if err != nil {
			return fmt.Errorf("failed to insert booking in tx: %w", err)
		}
		booking.ID = id
		booking.Version = 1
		return nil
	})
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	ds := db.from(bookingsTable).Select(toInterfaces(bookingColumns)...).Where(goqu.C("id").Eq(id))
	if err := db.get(ctx, db, &booking, ds); err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &booking, nil
}

// UpdateBookingStatusWithVersion applies the change only if nobody bumped the
// version since the caller read the booking.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status models.Status) error {
	ds := db.update(bookingsTable).
		Set(goqu.Record{
			"status":  string(status),
			"version": goqu.L("version + 1"),
		}).
		Where(goqu.C("id").Eq(id), goqu.C("version").Eq(version))
	rows, err := db.exec(ctx, db, ds)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) GetBookingsByBooker(
	ctx context.Context, bookerID int64, state models.State, now time.Time, page models.Page,
) ([]*models.Booking, error) {
	ds := db.from(goqu.T(bookingsTable).As("b")).
		Select(qualifiedBookingColumns("b")...).
		Where(goqu.T("b").Col("booker_id").Eq(bookerID))
	return db.listBookings(ctx, ds, state, now, page)
}

func (db *DB) GetBookingsByOwner(
	ctx context.Context, ownerID int64, state models.State, now time.Time, page models.Page,
) ([]*models.Booking, error) {
	ds := db.from(goqu.T(bookingsTable).As("b")).
		Select(qualifiedBookingColumns("b")...).
		Join(goqu.T(itemsTable).As("i"), goqu.On(goqu.T("i").Col("id").Eq(goqu.T("b").Col("item_id")))).
		Where(goqu.T("i").Col("owner_id").Eq(ownerID))
	return db.listBookings(ctx, ds, state, now, page)
}

func (db *DB) listBookings(
	ctx context.Context, ds *goqu.SelectDataset, state models.State, now time.Time, page models.Page,
) ([]*models.Booking, error) {
	if filter := stateFilter("b", state, now.UTC()); filter != nil {
		ds = ds.Where(filter)
	}
	ds = ds.Order(goqu.T("b").Col("start_date").Desc(), goqu.T("b").Col("id").Desc())

	bookings := []*models.Booking{}
	if err := db.selectAll(ctx, db, &bookings, paginate(ds, page)); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// stateFilter mirrors models.State.Matches in SQL. ALL yields no condition.
func stateFilter(alias string, state models.State, now time.Time) exp.Expression {
	t := goqu.T(alias)
	switch state {
	case models.StateCurrent:
		return goqu.And(t.Col("start_date").Lte(now), t.Col("end_date").Gte(now))
	case models.StatePast:
		return t.Col("end_date").Lt(now)
	case models.StateFuture:
		return t.Col("start_date").Gt(now)
	case models.StateWaiting:
		return t.Col("status").Eq(string(models.StatusWaiting))
	case models.StateRejected:
		return t.Col("status").Eq(string(models.StatusRejected))
	default:
		return nil
	}
}

func (db *DB) GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	if len(itemIDs) == 0 {
		return bookings, nil
	}
	ds := db.from(bookingsTable).
		Select(toInterfaces(bookingColumns)...).
		Where(
			goqu.C("item_id").In(itemIDs),
			goqu.C("status").Eq(string(models.StatusApproved)),
		).
		Order(goqu.C("start_date").Asc())
	if err := db.selectAll(ctx, db, &bookings, ds); err != nil {
		return nil, fmt.Errorf("failed to get approved bookings: %w", err)
	}
	return bookings, nil
}

// HasFinishedBooking reports whether bookerID holds an APPROVED booking of
// itemID that ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	var count int
	ds := db.from(bookingsTable).
		Select(goqu.COUNT("*")).
		Where(
			goqu.C("booker_id").Eq(bookerID),
			goqu.C("item_id").Eq(itemID),
			goqu.C("status").Eq(string(models.StatusApproved)),
			goqu.C("end_date").Lt(now.UTC()),
		)
	if err := db.get(ctx, db, &count, ds); err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

func toInterfaces(cols []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}
