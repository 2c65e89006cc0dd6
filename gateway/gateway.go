/*
Package gateway implements the transactional write path: validate the raw
fields, stage the row in a transaction, verify uniqueness and referential
constraints under the commit lock, then commit — or roll back and report a
classified outcome. A non-Created outcome always leaves the store exactly
as it was.

Constraint checks run inside the same critical section that publishes the
row, so two concurrent creates with the same unique value resolve to one
Created and one Conflict, never two Created.
*/
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taproom"
	"taproom/bvalue"
	"taproom/codec"
	"taproom/record"
	"taproom/table"
	"taproom/tx"
)

// ErrNoReference is the commit-check failure for a price whose drink_id
// does not name a committed drink.
var ErrNoReference = errors.New("referenced drink not found")

type Gateway struct {
	db     *taproom.Database
	users  *table.Table[record.User]
	drinks *table.Table[record.Drink]
	prices *table.Table[record.Price]
	log    *slog.Logger

	now func() time.Time
}

func New(db *taproom.Database, log *slog.Logger) (*Gateway, error) {
	users, err := table.New(record.KindUser.Table(), db.Storage(), codec.NewBsonCodec[record.User](), "name", "email")
	if err != nil {
		return nil, err
	}
	drinks, err := table.New(record.KindDrink.Table(), db.Storage(), codec.NewBsonCodec[record.Drink](), "name")
	if err != nil {
		return nil, err
	}
	prices, err := table.New(record.KindPrice.Table(), db.Storage(), codec.NewBsonCodec[record.Price]())
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		db:     db,
		users:  users,
		drinks: drinks,
		prices: prices,
		log:    log,
		now:    time.Now,
	}, nil
}

// AttemptCreate validates fields against the kind's schema and atomically
// inserts the record. Exactly one durable insert on a Created outcome,
// zero durable mutations otherwise.
func (g *Gateway) AttemptCreate(ctx context.Context, kind record.Kind, fields record.Fields) Outcome {
	switch kind {
	case record.KindUser:
		return g.createUser(ctx, fields)
	case record.KindDrink:
		return g.createDrink(ctx, fields)
	case record.KindPrice:
		return g.createPrice(ctx, fields)
	}
	return rejectedReason("unknown record kind: " + string(kind))
}

func (g *Gateway) createUser(ctx context.Context, fields record.Fields) Outcome {
	tbl := record.KindUser.Table()
	u, errs := record.CoerceUser(fields)
	if len(errs) > 0 {
		return rejected(errs)
	}

	id, err := g.users.NextID()
	if err != nil {
		return g.failed(ctx, tbl, err)
	}
	u.ID = id

	txn := g.db.Begin()
	if err := g.users.Stage(txn, bvalue.FromInt64(id), u); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}
	if err := ctx.Err(); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}

	return g.finish(ctx, tbl, txn, u, txn.Commit(g.users.CheckUnique(u)))
}

func (g *Gateway) createDrink(ctx context.Context, fields record.Fields) Outcome {
	tbl := record.KindDrink.Table()
	d, errs := record.CoerceDrink(fields)
	if len(errs) > 0 {
		return rejected(errs)
	}

	id, err := g.drinks.NextID()
	if err != nil {
		return g.failed(ctx, tbl, err)
	}
	d.ID = id

	txn := g.db.Begin()
	if err := g.drinks.Stage(txn, bvalue.FromInt64(id), d); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}
	if err := ctx.Err(); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}

	return g.finish(ctx, tbl, txn, d, txn.Commit(g.drinks.CheckUnique(d)))
}

func (g *Gateway) createPrice(ctx context.Context, fields record.Fields) Outcome {
	tbl := record.KindPrice.Table()
	p, errs := record.CoercePrice(fields)
	if len(errs) > 0 {
		return rejected(errs)
	}

	id, err := g.prices.NextID()
	if err != nil {
		return g.failed(ctx, tbl, err)
	}
	p.PriceID = id
	p.CreatedAt = g.now().UTC().Truncate(time.Millisecond)

	txn := g.db.Begin()
	if err := g.prices.Stage(txn, bvalue.FromInt64(id), p); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}
	if err := ctx.Err(); err != nil {
		txn.Rollback()
		return g.failed(ctx, tbl, err)
	}

	// the reference check runs under the commit lock, in the same atomic
	// unit as publication: a concurrent drink deletion cannot sneak in
	// between check and insert
	return g.finish(ctx, tbl, txn, p, txn.Commit(g.drinkExists(p.DrinkID)))
}

func (g *Gateway) drinkExists(drinkID int64) func() error {
	return func() error {
		_, ok, err := g.drinks.Find(bvalue.FromInt64(drinkID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoReference
		}
		return nil
	}
}

// finish maps a commit result onto the outcome taxonomy.
func (g *Gateway) finish(ctx context.Context, tableName string, txn *tx.Tx, row any, err error) Outcome {
	var conflictErr *table.ConflictError
	switch {
	case err == nil:
		g.log.InfoContext(ctx, "record created", "table", tableName, "txid", txn.ID())
		return created(row)
	case errors.As(err, &conflictErr):
		return conflict(conflictErr.Fields)
	case errors.Is(err, ErrNoReference):
		return rejectedReason(ErrNoReference.Error())
	default:
		return g.failed(ctx, tableName, err)
	}
}

// failed logs the store-level detail and returns the sanitized outcome.
func (g *Gateway) failed(ctx context.Context, tableName string, err error) Outcome {
	g.log.ErrorContext(ctx, "write failed", "table", tableName, "err", err)
	return storeError()
}
