package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/room/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/logger"
	gRepo "hostel/shared/repository"

	"github.com/jmoiron/sqlx"
)

const queryLockRoom = `SELECT hostel_id FROM rooms WHERE id = $1 FOR UPDATE`

// ErrRoomNotFound is returned by LockTx when the row is gone.
var ErrRoomNotFound = errors.New("room not found")

type Room interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error

	// LockTx locks the room row for the rest of tx and returns its hostel.
	LockTx(ctx context.Context, tx *sqlx.Tx, id string) (string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) LockTx(ctx context.Context, tx *sqlx.Tx, id string) (hostelID string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.LockTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryLockRoom)

	err = tx.GetContext(ctx, &hostelID, queryLockRoom, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRoomNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return "", fmt.Errorf("failed to lock room: %w", err)
	}

	return hostelID, nil
}
