package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hostel/config"
	"hostel/infras/otel"
	hostelModel "hostel/internal/domains/hostel/model"
	hostelRepo "hostel/internal/domains/hostel/repository"
	"hostel/internal/domains/user/model"
	"hostel/internal/domains/user/model/dto"
	"hostel/internal/domains/user/repository"
	"hostel/permissions"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser  = "user:get"
	cacheListUser = "user:list"

	msgEmailTaken = "email already registered"
	msgNotFound   = "user not found"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.ListUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
	EnsureSuperAdmin(ctx context.Context, name, email, plain string) error
}

type serviceImpl struct {
	repo    repository.User
	hostels hostelRepo.Hostel
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.User, hostels hostelRepo.Hostel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:    repo,
		hostels: hostels,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.And(gDto.Filter{
		Field:    model.FieldEmail,
		Operator: gDto.FilterOperatorEq,
		Value:    dto.NormalizeEmail(email),
		Table:    model.TableName,
	})
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.repo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(msgEmailTaken)
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, failure.BadRequest(err)
	}

	user := req.ToModel(permissions.Actor(ctx), hashed)

	if err = s.repo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", failure.FromDatabase(err, msgEmailTaken))
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheListUser)

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.ListUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheListUser, params, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.Users = dto.FromModels(users)
	res.Total = total

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound(msgNotFound)
	}

	return user, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update")
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Email != nil {
		email := dto.NormalizeEmail(*req.Email)
		req.Email = &email

		if email != current.Email {
			taken, err := s.repo.Exist(ctx, emailFilter(email))
			if err != nil {
				return res, fmt.Errorf("failed to check if email is taken: %w", err)
			}

			if taken {
				return res, failure.Conflict(msgEmailTaken)
			}
		}
	}

	if req.Password != nil {
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return res, failure.BadRequest(err)
		}

		req.Password = &hashed
	}

	fields := shared.TransformFields(req, permissions.Actor(ctx))
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return res, fmt.Errorf("failed to update user: %w", failure.FromDatabase(err, msgEmailTaken))
	}

	s.invalidate(ctx, id)

	updated, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if identity, ok := permissions.IdentityFromContext(ctx); ok && identity.ID == id {
		return failure.BadRequestFromString("you cannot delete your own account")
	}

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	owns, err := s.hostels.Exist(ctx, gDto.And(gDto.Filter{
		Field:    hostelModel.FieldOwnerID,
		Operator: gDto.FilterOperatorEq,
		Value:    id,
		Table:    hostelModel.TableName,
	}))
	if err != nil {
		return fmt.Errorf("failed to check owned hostels: %w", err)
	}

	if owns {
		return failure.Conflict("user still owns hostels, reassign or delete them first")
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// EnsureSuperAdmin creates the bootstrap superadmin when no user holds email.
func (s *serviceImpl) EnsureSuperAdmin(ctx context.Context, name, email, plain string) error {
	if email == "" || plain == "" {
		log.Debug().Msg("bootstrap superadmin not configured")

		return nil
	}

	exists, err := s.repo.Exist(ctx, emailFilter(email))
	if err != nil {
		return fmt.Errorf("failed to check bootstrap user: %w", err)
	}

	if exists {
		return nil
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	if name == "" {
		name = "Super Admin"
	}

	req := dto.CreateUserRequest{Name: name, Email: email, Role: permissions.RoleSuperAdmin.String()}
	user := req.ToModel(constant.ContextSystem, hashed)

	if err = s.repo.Insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("bootstrap superadmin created")

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheListUser)
	}()
}
