package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	hostelModel "hostel/internal/domains/hostel/model"
	hostelRepo "hostel/internal/domains/hostel/repository"
	"hostel/internal/domains/room/model"
	"hostel/internal/domains/room/model/dto"
	"hostel/internal/domains/room/repository"
	"hostel/internal/events"
	"hostel/permissions"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgNotFound       = "room not found"
	msgHostelNotFound = "hostel not found"
	msgForbidden      = "you do not have access to this hostel"
	msgDuplicate      = "room number already exists in this hostel"
)

type Room interface {
	List(ctx context.Context, params gDto.QueryParams, hostelID string, filter gDto.FilterGroup) ([]dto.RoomResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	Options() dto.OptionsResponse
}

type serviceImpl struct {
	repo      repository.Room
	hostels   hostelRepo.Hostel
	tx        postgres.Transactor
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Room,
	hostels hostelRepo.Hostel,
	tx postgres.Transactor,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:      repo,
		hostels:   hostels,
		tx:        tx,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// List returns rooms visible to the caller. For owners the result is limited
// to rooms of their own hostels, intersected with hostelID when given.
func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, hostelID string, filter gDto.FilterGroup) (res []dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	filters := []any{filter}

	if hostelID != constant.Empty {
		filters = append(filters, gDto.Filter{
			ArgName:  "requested_hostel",
			Field:    model.FieldHostelID,
			Operator: gDto.FilterOperatorEq,
			Value:    hostelID,
			Table:    model.TableName,
		})
	}

	if !identity.Role.IsPrivileged() {
		owned, err := s.ownedHostelIDs(ctx, identity.ID)
		if err != nil {
			return nil, err
		}

		if len(owned) == 0 {
			return []dto.RoomResponse{}, nil
		}

		filters = append(filters, gDto.Filter{
			ArgName:  "owned_hostel",
			Field:    model.FieldHostelID,
			Operator: gDto.FilterOperatorIn,
			Value:    owned,
			Table:    model.TableName,
		})
	}

	rooms, err := s.repo.GetAll(ctx, params, gDto.And(filters...))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	return dto.FromModels(rooms), nil
}

func (s *serviceImpl) ownedHostelIDs(ctx context.Context, ownerID string) ([]string, error) {
	hostels, err := s.hostels.GetAll(ctx, gDto.QueryParams{}, gDto.And(gDto.Filter{
		Field:    hostelModel.FieldOwnerID,
		Operator: gDto.FilterOperatorEq,
		Value:    ownerID,
		Table:    hostelModel.TableName,
	}), hostelModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get owned hostels")

		return nil, fmt.Errorf("failed to get owned hostels: %w", err)
	}

	ids := make([]string, len(hostels))
	for i, hostel := range hostels {
		ids[i] = hostel.ID
	}

	return ids, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.findScoped(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound(msgNotFound)
	}

	return room, nil
}

func (s *serviceImpl) findScoped(ctx context.Context, id string) (model.Room, error) {
	identity, err := permissions.Caller(ctx)
	if err != nil {
		return model.Room{}, err //nolint:wrapcheck
	}

	room, err := s.find(ctx, id)
	if err != nil {
		return room, err
	}

	if !identity.CanAccessOwner(room.HostelOwnerID) {
		return model.Room{}, failure.Forbidden(msgForbidden)
	}

	return room, nil
}

// lockHostel locks the hostel row for the rest of tx and checks the caller may use it.
func (s *serviceImpl) lockHostel(ctx context.Context, tx *sqlx.Tx, identity permissions.Identity, hostelID string) error {
	ownerID, err := s.hostels.LockOwnerTx(ctx, tx, hostelID)
	if errors.Is(err, hostelRepo.ErrHostelNotFound) {
		return failure.NotFound(msgHostelNotFound)
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	if !identity.CanAccessOwner(ownerID) {
		return failure.Forbidden(msgForbidden)
	}

	return nil
}

// lockRoom locks the room row for the rest of tx, after its hostel.
func (s *serviceImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, id string) error {
	_, err := s.repo.LockTx(ctx, tx, id)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return failure.NotFound(msgNotFound)
	}

	return err //nolint:wrapcheck
}

// findTx reads through tx so a row written earlier in it is visible.
func (s *serviceImpl) findTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Room, error) {
	room, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound(msgNotFound)
	}

	return room, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	room := req.ToModel(identity.ID)

	if err = dto.ValidateOccupancy(room); err != nil {
		return res, failure.BadRequest(err)
	}

	var created model.Room

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockHostel(ctx, tx, identity, room.HostelID); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, room); err != nil {
			return failure.FromDatabase(err, msgDuplicate) //nolint:wrapcheck
		}

		if err := s.hostels.AdjustTotalRoomsTx(ctx, tx, room.HostelID, 1); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.hostels.RecountOccupiedTx(ctx, tx, room.HostelID); err != nil {
			return err //nolint:wrapcheck
		}

		created, err = s.findTx(ctx, tx, room.ID)

		return err
	})
	if err != nil {
		log.Error().Err(err).Str("hostel", room.HostelID).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.afterCommit(ctx, events.RoomCreated, room.HostelID, room.ID)
	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	room, err := s.findScoped(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Hostel != nil && *req.Hostel != room.HostelID {
		return res, failure.BadRequestFromString("a room cannot be moved to another hostel")
	}

	fields := req.Apply(&room)
	if len(fields) == 0 {
		return res, failure.BadRequestFromString("no fields to update")
	}

	if err = dto.ValidateOccupancy(room); err != nil {
		return res, failure.BadRequest(err)
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = identity.ID

	var updated model.Room

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockHostel(ctx, tx, identity, room.HostelID); err != nil {
			return err
		}

		if err := s.lockRoom(ctx, tx, id); err != nil {
			return err
		}

		// re-validate against the locked row, another writer may have
		// changed it since the read above
		current, err := s.findTx(ctx, tx, id)
		if err != nil {
			return err
		}

		req.Apply(&current)

		if err := dto.ValidateOccupancy(current); err != nil {
			return failure.BadRequest(err)
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return failure.FromDatabase(err, msgDuplicate) //nolint:wrapcheck
		}

		if err := s.hostels.RecountOccupiedTx(ctx, tx, room.HostelID); err != nil {
			return err //nolint:wrapcheck
		}

		updated, err = s.findTx(ctx, tx, id)

		return err
	})
	if err != nil {
		log.Error().Err(err).Str("room", id).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	s.afterCommit(ctx, events.RoomUpdated, room.HostelID, id)
	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	room, err := s.findScoped(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockHostel(ctx, tx, identity, room.HostelID); err != nil {
			return err
		}

		// a concurrent delete that committed first leaves nothing to count down
		if err := s.lockRoom(ctx, tx, id); err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.hostels.AdjustTotalRoomsTx(ctx, tx, room.HostelID, -1); err != nil {
			return err //nolint:wrapcheck
		}

		return s.hostels.RecountOccupiedTx(ctx, tx, room.HostelID) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("room", id).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.afterCommit(ctx, events.RoomDeleted, room.HostelID, id)

	return nil
}

func (s *serviceImpl) Options() dto.OptionsResponse {
	return dto.OptionsResponse{
		Types:      model.RoomTypes,
		Facilities: model.CommonFacilities,
	}
}

// afterCommit drops the stats cache before returning and publishes the
// event in the background.
func (s *serviceImpl) afterCommit(ctx context.Context, eventType events.Type, hostelID, roomID string) {
	c := context.WithoutCancel(ctx)

	if err := s.cache.Delete(c, constant.CacheKeyHostelStats); err != nil {
		log.Error().Err(err).Msg("failed to delete hostel stats cache")
	}

	go s.publisher.Publish(c, events.Event{Type: eventType, HostelID: hostelID, RoomID: roomID, At: timezone.Now()})
}
