package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/hostel/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/logger"
	gRepo "hostel/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	queryAdjustTotalRooms = `UPDATE hostels SET total_rooms = GREATEST(total_rooms + $2, 0) WHERE id = $1`

	queryRecountOccupied = `UPDATE hostels SET occupied_rooms = (
		SELECT COUNT(*) FROM rooms WHERE rooms.hostel_id = hostels.id AND rooms.current_occupancy > 0
	) WHERE id = $1`

	queryReconcile = `UPDATE hostels SET
		total_rooms = (SELECT COUNT(*) FROM rooms WHERE rooms.hostel_id = hostels.id),
		occupied_rooms = (SELECT COUNT(*) FROM rooms WHERE rooms.hostel_id = hostels.id AND rooms.current_occupancy > 0)
	WHERE id = $1`

	queryHostelIDs = `SELECT id FROM hostels ORDER BY id`

	queryLockOwner = `SELECT owner_id FROM hostels WHERE id = $1 FOR UPDATE`

	queryStats = `SELECT
		(SELECT COUNT(*) FROM hostels) AS total_hostels,
		(SELECT COUNT(*) FROM rooms) AS total_rooms,
		(SELECT COUNT(*) FROM rooms WHERE current_occupancy > 0) AS occupied_rooms`
)

// ErrHostelNotFound is returned by the locking helpers when the row is gone.
var ErrHostelNotFound = errors.New("hostel not found")

type Hostel interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Hostel) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hostel, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Hostel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hostel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error

	// LockOwnerTx locks the hostel row for the rest of tx and returns its owner.
	LockOwnerTx(ctx context.Context, tx *sqlx.Tx, id string) (string, error)
	AdjustTotalRoomsTx(ctx context.Context, tx *sqlx.Tx, id string, delta int) error
	RecountOccupiedTx(ctx context.Context, tx *sqlx.Tx, id string) error
	// Reconcile recomputes both counters of one hostel from its rooms. It
	// returns ErrHostelNotFound when the hostel is gone.
	Reconcile(ctx context.Context, id string) error
	// ReconcileAll reconciles every hostel and reports how many it repaired.
	ReconcileAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hostel]
	db   *postgres.Connection
	tx   postgres.Transactor
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hostel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hostel](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		tx:         postgres.NewTransactor(db),
		otel:       otel,
	}
}

func (r *repositoryImpl) LockOwnerTx(ctx context.Context, tx *sqlx.Tx, id string) (owner string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.LockOwnerTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryLockOwner)

	err = tx.GetContext(ctx, &owner, queryLockOwner, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrHostelNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return "", fmt.Errorf("failed to lock hostel: %w", err)
	}

	return owner, nil
}

func (r *repositoryImpl) AdjustTotalRoomsTx(ctx context.Context, tx *sqlx.Tx, id string, delta int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.AdjustTotalRoomsTx")
	defer scope.End()

	return r.exec(ctx, tx, scope, "adjust total rooms", queryAdjustTotalRooms, id, delta)
}

func (r *repositoryImpl) RecountOccupiedTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.RecountOccupiedTx")
	defer scope.End()

	return r.exec(ctx, tx, scope, "recount occupied rooms", queryRecountOccupied, id)
}

// Reconcile locks the hostel row first, so a room transaction holding the
// lock commits before the recount statement takes its snapshot.
func (r *repositoryImpl) Reconcile(ctx context.Context, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.Reconcile")
	defer scope.End()

	return r.tx.WithTx(ctx, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		if _, err := r.LockOwnerTx(ctx, tx, id); err != nil {
			return err
		}

		return r.exec(ctx, tx, scope, "reconcile hostel", queryReconcile, id)
	})
}

func (r *repositoryImpl) ReconcileAll(ctx context.Context) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.ReconcileAll")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryHostelIDs)

	var ids []string
	if err := r.db.Write.SelectContext(ctx, &ids, queryHostelIDs); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to list hostels: %w", err)
	}

	var reconciled int64

	for _, id := range ids {
		err := r.Reconcile(ctx, id)
		if errors.Is(err, ErrHostelNotFound) {
			continue
		}

		if err != nil {
			return reconciled, err
		}

		reconciled++
	}

	return reconciled, nil
}

func (r *repositoryImpl) Stats(ctx context.Context) (stats model.Stats, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hostel.Stats")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryStats)

	if err = r.db.Read.GetContext(ctx, &stats, queryStats); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to get hostel stats: %w", err)
	}

	return stats, nil
}

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repositoryImpl) exec(ctx context.Context, exec sqlExecer, scope otel.Scope, op, query string, args ...any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s: %w", op, err)
	}

	return nil
}
