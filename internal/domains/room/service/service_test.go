package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	otelMocks "hostel/infras/otel/mocks"
	pgMocks "hostel/infras/postgres/mocks"
	hostelMocks "hostel/internal/domains/hostel/mocks"
	hostelModel "hostel/internal/domains/hostel/model"
	hostelRepo "hostel/internal/domains/hostel/repository"
	roomMocks "hostel/internal/domains/room/mocks"
	"hostel/internal/domains/room/model"
	"hostel/internal/domains/room/model/dto"
	roomRepo "hostel/internal/domains/room/repository"
	"hostel/internal/domains/room/service"
	"hostel/internal/events"
	eventMocks "hostel/internal/events/mocks"
	"hostel/permissions"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
)

type fixture struct {
	repo      *roomMocks.MockRoom
	hostels   *hostelMocks.MockHostel
	tx        *pgMocks.MockTransactor
	publisher *eventMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := newBareFixture(t)
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

// newBareFixture leaves the cache without expectations.
func newBareFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      roomMocks.NewMockRoom(ctrl),
		hostels:   hostelMocks.NewMockHostel(ctrl),
		tx:        pgMocks.NewMockTransactor(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.hostels, f.tx, f.publisher, &config.Config{}, f.cache, otelMocks.NewOtel())

	return f
}

// runTx makes the transactor execute the callback inline.
func (f *fixture) runTx() {
	f.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
		return fn(nil)
	})
}

func as(id string, role permissions.Role) context.Context {
	return permissions.WithIdentity(context.Background(), permissions.Identity{ID: id, Role: role})
}

func TestRoomService_List(t *testing.T) {
	t.Run("owner without hostels gets empty list", func(t *testing.T) {
		f := newFixture(t)

		f.hostels.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), hostelModel.FieldID).Return(nil, nil)

		res, err := f.svc.List(as("owner-1", permissions.RoleOwner), gDto.QueryParams{}, "", gDto.FilterGroup{})
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("owner with hostel filter gets the intersection", func(t *testing.T) {
		f := newFixture(t)

		f.hostels.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), hostelModel.FieldID).
			Return([]hostelModel.Hostel{{ID: "h1"}, {ID: "h2"}}, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
				clause, args := filter.GetWhereClause()
				assert.Contains(t, clause, "rooms.hostel_id = :requested_hostel")
				assert.Contains(t, clause, "rooms.hostel_id IN (:owned_hostel_0, :owned_hostel_1)")
				assert.Contains(t, clause, " AND ")
				assert.Equal(t, "h9", args["requested_hostel"])

				return []model.Room{}, nil
			})

		res, err := f.svc.List(as("owner-1", permissions.RoleOwner), gDto.QueryParams{}, "h9", gDto.FilterGroup{})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("admin filters by hostel only", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
				clause, _ := filter.GetWhereClause()
				assert.NotContains(t, clause, "IN")

				return []model.Room{{ID: "r1", HostelID: "h1", HostelName: "Sunrise"}}, nil
			})

		res, err := f.svc.List(as("admin-1", permissions.RoleAdmin), gDto.QueryParams{}, "h1", gDto.FilterGroup{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Sunrise", res[0].Hostel.Name)
		assert.Equal(t, []string{}, res[0].Facilities)
	})
}

func createRequest() dto.CreateRoomRequest {
	return dto.CreateRoomRequest{
		RoomNumber:       "101",
		Hostel:           "h1",
		Type:             "double",
		Capacity:         2,
		CurrentOccupancy: 1,
		Rent:             5000,
		Facilities:       []string{"Wi-Fi", " AC ", "Wi-Fi"},
	}
}

func TestRoomService_Create(t *testing.T) {
	t.Run("inserts and adjusts counters in one transaction", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		var inserted model.Room

		gomock.InOrder(
			f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil),
			f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, room model.Room) error {
					inserted = room

					return nil
				}),
			f.hostels.EXPECT().AdjustTotalRoomsTx(gomock.Any(), gomock.Any(), "h1", 1).Return(nil),
			f.hostels.EXPECT().RecountOccupiedTx(gomock.Any(), gomock.Any(), "h1").Return(nil),
			f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ gDto.FilterGroup, _ ...string) (model.Room, error) {
					inserted.HostelName = "Sunrise"

					return inserted, nil
				}),
		)

		done := make(chan events.Event, 1)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evs ...events.Event) {
			done <- evs[0]
		})

		res, err := f.svc.Create(as("owner-1", permissions.RoleOwner), createRequest())
		require.NoError(t, err)
		assert.Equal(t, "101", res.RoomNumber)
		assert.True(t, res.IsAvailable)
		assert.Equal(t, pq.StringArray{"Wi-Fi", "AC"}, inserted.Facilities)

		event := <-done
		assert.Equal(t, events.RoomCreated, event.Type)
		assert.Equal(t, "h1", event.HostelID)
	})

	t.Run("occupancy above capacity is rejected", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest()
		req.CurrentOccupancy = 3

		_, err := f.svc.Create(as("owner-1", permissions.RoleOwner), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("too many residents", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest()
		req.Capacity = 1
		req.CurrentOccupancy = 0
		req.Residents = []dto.ResidentRequest{{Name: "A"}, {Name: "B"}}

		_, err := f.svc.Create(as("owner-1", permissions.RoleOwner), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("hostel of another owner", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-2", nil)

		_, err := f.svc.Create(as("owner-1", permissions.RoleOwner), createRequest())
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("missing hostel", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("", hostelRepo.ErrHostelNotFound)

		_, err := f.svc.Create(as("admin-1", permissions.RoleAdmin), createRequest())
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("duplicate room number", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})

		_, err := f.svc.Create(as("owner-1", permissions.RoleOwner), createRequest())
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("hostelId alias", func(t *testing.T) {
		req := createRequest()
		req.Hostel = ""
		req.HostelID = "h7"

		assert.Equal(t, "h7", req.ToModel("u").HostelID)
	})
}

func TestRoomService_Update(t *testing.T) {
	existing := model.Room{ID: "r1", HostelID: "h1", HostelOwnerID: "owner-1", Capacity: 2, CurrentOccupancy: 1}

	t.Run("occupancy change recounts occupied rooms", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

		occupancy := 2

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil),
			f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil),
			f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("h1", nil),
			f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(existing, nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, 2, fields[model.FieldCurrentOccupancy])
					assert.NotContains(t, fields, model.FieldCapacity)

					return nil
				}),
			f.hostels.EXPECT().RecountOccupiedTx(gomock.Any(), gomock.Any(), "h1").Return(nil),
			f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", CurrentOccupancy: 2}, nil),
		)

		res, err := f.svc.Update(as("owner-1", permissions.RoleOwner), "r1", dto.UpdateRoomRequest{CurrentOccupancy: &occupancy})
		require.NoError(t, err)
		assert.Equal(t, 2, res.CurrentOccupancy)
	})

	t.Run("locked row is validated again", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		occupancy := 2
		shrunk := existing
		shrunk.Capacity = 1

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil),
			f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil),
			f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("h1", nil),
			f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(shrunk, nil),
		)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Update(as("owner-1", permissions.RoleOwner), "r1", dto.UpdateRoomRequest{CurrentOccupancy: &occupancy})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room deleted before the lock", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		rent := 100.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil)
		f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("", roomRepo.ErrRoomNotFound)

		_, err := f.svc.Update(as("owner-1", permissions.RoleOwner), "r1", dto.UpdateRoomRequest{Rent: &rent})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("capacity below occupancy", func(t *testing.T) {
		f := newFixture(t)
		capacity := 0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		_, err := f.svc.Update(as("owner-1", permissions.RoleOwner), "r1", dto.UpdateRoomRequest{Capacity: &capacity})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("cannot move between hostels", func(t *testing.T) {
		f := newFixture(t)
		other := "h2"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		_, err := f.svc.Update(as("admin-1", permissions.RoleAdmin), "r1", dto.UpdateRoomRequest{Hostel: &other})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room of another owner", func(t *testing.T) {
		f := newFixture(t)
		rent := 100.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		_, err := f.svc.Update(as("owner-2", permissions.RoleOwner), "r1", dto.UpdateRoomRequest{Rent: &rent})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("decrements the hostel counter", func(t *testing.T) {
		f := newFixture(t)
		f.runTx()

		done := make(chan events.Event, 1)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evs ...events.Event) {
			done <- evs[0]
		})

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", HostelID: "h1", HostelOwnerID: "owner-1"}, nil),
			f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil),
			f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("h1", nil),
			f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
			f.hostels.EXPECT().AdjustTotalRoomsTx(gomock.Any(), gomock.Any(), "h1", -1).Return(nil),
			f.hostels.EXPECT().RecountOccupiedTx(gomock.Any(), gomock.Any(), "h1").Return(nil),
		)

		require.NoError(t, f.svc.Delete(as("owner-1", permissions.RoleOwner), "r1"))
		assert.Equal(t, events.RoomDeleted, (<-done).Type)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Delete(as("admin-1", permissions.RoleAdmin), "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("already deleted by a concurrent request", func(t *testing.T) {
		f := newBareFixture(t)
		f.runTx()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", HostelID: "h1", HostelOwnerID: "owner-1"}, nil)
		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("owner-1", nil)
		f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("", roomRepo.ErrRoomNotFound)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.hostels.EXPECT().AdjustTotalRoomsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.Delete(as("owner-1", permissions.RoleOwner), "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("stats cache is dropped before return", func(t *testing.T) {
		f := newBareFixture(t)
		f.runTx()
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

		dropped := false
		f.cache.EXPECT().Delete(gomock.Any(), constant.CacheKeyHostelStats).DoAndReturn(func(_ context.Context, _ string) error {
			dropped = true

			return nil
		})

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", HostelID: "h1"}, nil)
		f.hostels.EXPECT().LockOwnerTx(gomock.Any(), gomock.Any(), "h1").Return("admin-1", nil)
		f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), "r1").Return("h1", nil)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.hostels.EXPECT().AdjustTotalRoomsTx(gomock.Any(), gomock.Any(), "h1", -1).Return(nil)
		f.hostels.EXPECT().RecountOccupiedTx(gomock.Any(), gomock.Any(), "h1").Return(nil)

		require.NoError(t, f.svc.Delete(as("admin-1", permissions.RoleAdmin), "r1"))
		assert.True(t, dropped)
	})
}

func TestRoomService_Options(t *testing.T) {
	f := newFixture(t)

	opts := f.svc.Options()
	assert.Len(t, opts.Types, 4)
	assert.Contains(t, opts.Facilities, "Attached Bathroom")
}
