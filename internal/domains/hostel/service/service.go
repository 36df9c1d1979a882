package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/s3"
	"hostel/internal/domains/hostel/model"
	"hostel/internal/domains/hostel/model/dto"
	"hostel/internal/domains/hostel/repository"
	roomModel "hostel/internal/domains/room/model"
	roomRepo "hostel/internal/domains/room/repository"
	userModel "hostel/internal/domains/user/model"
	userRepo "hostel/internal/domains/user/repository"
	"hostel/internal/events"
	"hostel/permissions"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgNotFound      = "hostel not found"
	msgForbidden     = "you do not have access to this hostel"
	msgNameTaken     = "hostel already exists"
	msgReassignOwner = "owners cannot reassign hostel ownership"
)

type Hostel interface {
	List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]dto.HostelResponse, error)
	Get(ctx context.Context, id string) (dto.HostelResponse, error)
	Create(ctx context.Context, req dto.CreateHostelRequest) (dto.HostelResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateHostelRequest) (dto.HostelResponse, error)
	UploadImage(ctx context.Context, id string, file multipart.File, header *multipart.FileHeader) (dto.HostelResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
	Reconcile(ctx context.Context, id string) error
	ReconcileAll(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo      repository.Hostel
	rooms     roomRepo.Room
	users     userRepo.User
	tx        postgres.Transactor
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
}

func New(
	repo repository.Hostel,
	rooms roomRepo.Room,
	users userRepo.User,
	tx postgres.Transactor,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Hostel {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		users:     users,
		tx:        tx,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
	}
}

func ownerFilter(ownerID string) gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldOwnerID,
		Operator: gDto.FilterOperatorEq,
		Value:    ownerID,
		Table:    model.TableName,
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res []dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !identity.Role.IsPrivileged() {
		filter = gDto.And(filter, ownerFilter(identity.ID))
	}

	hostels, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostels")

		return nil, fmt.Errorf("failed to get hostels: %w", err)
	}

	return dto.FromModels(hostels), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	hostel, err := s.findScoped(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(hostel)

	return res, nil
}

// findScoped loads a hostel and rejects callers that do not own it.
func (s *serviceImpl) findScoped(ctx context.Context, id string) (model.Hostel, error) {
	identity, err := permissions.Caller(ctx)
	if err != nil {
		return model.Hostel{}, err //nolint:wrapcheck
	}

	hostel, err := s.find(ctx, id)
	if err != nil {
		return hostel, err
	}

	if !identity.CanAccessOwner(hostel.OwnerID) {
		return model.Hostel{}, failure.Forbidden(msgForbidden)
	}

	return hostel, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Hostel, error) {
	hostel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostel")

		return hostel, fmt.Errorf("failed to get hostel: %w", err)
	}

	if hostel.ID == constant.Empty {
		return hostel, failure.NotFound(msgNotFound)
	}

	return hostel, nil
}

// findTx reads through tx so a row written earlier in it is visible.
func (s *serviceImpl) findTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Hostel, error) {
	hostel, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return hostel, fmt.Errorf("failed to get hostel: %w", err)
	}

	if hostel.ID == constant.Empty {
		return hostel, failure.NotFound(msgNotFound)
	}

	return hostel, nil
}

// validateOwner checks that id belongs to an active user with the owner role.
func (s *serviceImpl) validateOwner(ctx context.Context, id string) error {
	user, err := s.users.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get owner: %w", err)
	}

	switch {
	case user.ID == constant.Empty:
		return failure.BadRequestFromString("owner does not exist")
	case !user.Active:
		return failure.BadRequestFromString("owner account is deactivated")
	case user.Role != permissions.RoleOwner.String():
		return failure.BadRequestFromString("owner must be a user with the owner role")
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHostelRequest) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	ownerID := identity.ID

	if identity.Role.IsPrivileged() && req.Owner != constant.Empty && req.Owner != identity.ID {
		if err = s.validateOwner(ctx, req.Owner); err != nil {
			return res, err
		}

		ownerID = req.Owner
	}

	hostel := req.ToModel(ownerID, identity.ID)

	var created model.Hostel

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, hostel); err != nil {
			return failure.FromDatabase(err, msgNameTaken) //nolint:wrapcheck
		}

		created, err = s.findTx(ctx, tx, hostel.ID)

		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create hostel")

		return res, fmt.Errorf("failed to create hostel: %w", err)
	}

	s.invalidateStats(ctx)
	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateHostelRequest) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, err := permissions.Caller(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	current, err := s.findScoped(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Owner != nil && *req.Owner != current.OwnerID {
		if !identity.Role.IsPrivileged() {
			return res, failure.Forbidden(msgReassignOwner)
		}

		if err = s.validateOwner(ctx, *req.Owner); err != nil {
			return res, err
		}
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return res, failure.BadRequestFromString("no fields to update")
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = identity.ID

	var updated model.Hostel

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return failure.FromDatabase(err, msgNameTaken) //nolint:wrapcheck
		}

		updated, err = s.findTx(ctx, tx, id)

		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update hostel")

		return res, fmt.Errorf("failed to update hostel: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, file multipart.File, header *multipart.FileHeader) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.findScoped(ctx, id)
	if err != nil {
		return res, err
	}

	bucket := s.cfg.External.S3.BucketName
	filename := uuid.NewString() + filepath.Ext(header.Filename)

	url, err := s.s3.UploadFile(ctx, bucket, model.EntityName, file, header, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload hostel image")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	fields := map[string]any{
		"image":                   url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: permissions.Actor(ctx),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save hostel image")

		if err := s.s3.DeleteFile(ctx, bucket, model.EntityName, filename); err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("failed to clean up uploaded image")
		}

		return res, fmt.Errorf("failed to save hostel image: %w", err)
	}

	if current.Image != constant.Empty {
		if old := s.s3.GetObjectNameFromURL(bucket, current.Image); old != constant.Empty {
			if err := s.s3.DeleteFile(ctx, bucket, model.EntityName, old); err != nil {
				log.Warn().Err(err).Str("file", old).Msg("failed to delete previous hostel image")
			}
		}
	}

	current.Image = url
	res.FromModel(current)

	return res, nil
}

// Delete removes the hostel and all of its rooms in one transaction.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	hostel, err := s.findScoped(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		// same lock order as room writes: hostel row before room rows
		if _, err := s.repo.LockOwnerTx(ctx, tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		roomsOfHostel := gDto.And(gDto.Filter{
			Field:    roomModel.FieldHostelID,
			Operator: gDto.FilterOperatorEq,
			Value:    id,
			Table:    roomModel.TableName,
		})

		if err := s.rooms.DeleteTx(ctx, tx, roomsOfHostel); err != nil {
			return fmt.Errorf("failed to delete rooms: %w", err)
		}

		return s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if errors.Is(err, repository.ErrHostelNotFound) {
		return failure.NotFound(msgNotFound)
	}

	if err != nil {
		log.Error().Err(err).Str("hostel", id).Msg("failed to delete hostel")

		return fmt.Errorf("failed to delete hostel: %w", err)
	}

	if hostel.Image != constant.Empty {
		bucket := s.cfg.External.S3.BucketName
		if name := s.s3.GetObjectNameFromURL(bucket, hostel.Image); name != constant.Empty {
			if err := s.s3.DeleteFile(ctx, bucket, model.EntityName, name); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("failed to delete hostel image")
			}
		}
	}

	s.invalidateStats(ctx)

	go s.publisher.Publish(context.WithoutCancel(ctx), events.Event{Type: events.HostelDeleted, HostelID: id, At: timezone.Now()})

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err := s.cache.Get(ctx, constant.CacheKeyHostelStats, &res); err == nil {
		log.Debug().Msg("cache hit for hostel stats")

		return res, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostel stats")

		return res, fmt.Errorf("failed to get hostel stats: %w", err)
	}

	res.FromModel(stats)

	if err := s.cache.Save(ctx, constant.CacheKeyHostelStats, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save hostel stats to cache")
	}

	return res, nil
}

func (s *serviceImpl) Reconcile(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.Reconcile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.repo.Reconcile(ctx, id)
	if errors.Is(err, repository.ErrHostelNotFound) {
		log.Debug().Str("hostel", id).Msg("hostel gone before reconcile")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to reconcile hostel: %w", err)
	}

	s.invalidateStats(ctx)

	return nil
}

func (s *serviceImpl) ReconcileAll(ctx context.Context) (n int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hostel.ReconcileAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	n, err = s.repo.ReconcileAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile hostels: %w", err)
	}

	s.invalidateStats(ctx)
	log.Info().Int64("hostels", n).Msg("hostel counters reconciled")

	return n, nil
}

// invalidateStats runs before the caller returns, so the next Stats call
// cannot be served the snapshot taken before this write.
func (s *serviceImpl) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), constant.CacheKeyHostelStats); err != nil {
		log.Error().Err(err).Msg("failed to delete hostel stats cache")
	}
}
