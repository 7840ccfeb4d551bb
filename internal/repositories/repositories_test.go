package repositories_test

import (
	"context"
	"testing"
	"time"

	"carcare/internal/config"
	"carcare/internal/database"
	"carcare/internal/domain"
	"carcare/internal/models"
	"carcare/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUserAndService(t *testing.T, db *gorm.DB) (*models.User, *models.Service) {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Name: "Al", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(ctx, user))
	service := &models.Service{Title: "Oil change", Price: "49.00"}
	require.NoError(t, repositories.NewGORMServiceRepository(db).Create(ctx, service))
	return user, service
}

func TestGORMUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	first := &models.User{Name: "Al", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	err := repo.Create(ctx, &models.User{Name: "Al", Email: "a@x.com", Password: "hash"})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGORMUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Al", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Al", got.Name)

	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.True(t, domain.IsNotFound(err))
	_, err = repo.GetByID(ctx, 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestGORMServiceRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMServiceRepository(db)
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	wash := &models.Service{Title: "Wash", Description: "Exterior wash"}
	require.NoError(t, repo.Create(ctx, wash))
	polish := &models.Service{Title: "Polish", Price: "30"}
	require.NoError(t, repo.Create(ctx, polish))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Wash", all[0].Title)
	assert.Equal(t, "Polish", all[1].Title)

	got, err := repo.GetByID(ctx, polish.ID)
	require.NoError(t, err)
	assert.Equal(t, "30", got.Price)

	_, err = repo.GetByID(ctx, 12345)
	assert.True(t, domain.IsNotFound(err))
}

func TestGORMBookingRepository_CreateWithMissingReference(t *testing.T) {
	db := newTestDB(t)
	user, service := seedUserAndService(t, db)
	repo := repositories.NewGORMBookingRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &models.Booking{UserID: user.ID, ServiceID: service.ID + 100, Date: time.Now(), Status: models.BookingStatusPending})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidReference(err), "got %v", err)

	err = repo.Create(ctx, &models.Booking{UserID: user.ID + 100, ServiceID: service.ID, Date: time.Now(), Status: models.BookingStatusPending})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidReference(err), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGORMBookingRepository_ListIsCreationOrdered(t *testing.T) {
	db := newTestDB(t)
	user, service := seedUserAndService(t, db)
	repo := repositories.NewGORMBookingRepository(db)
	ctx := context.Background()

	a := &models.Booking{UserID: user.ID, ServiceID: service.ID, Date: time.Now().Add(48 * time.Hour), Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, a))
	b := &models.Booking{UserID: user.ID, ServiceID: service.ID, Date: time.Now().Add(24 * time.Hour), Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, b))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assert.Nil(t, all[0].User)

	detailed, err := repo.GetAllDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, detailed, 2)
	assert.Equal(t, a.ID, detailed[0].ID)
	require.NotNil(t, detailed[1].Service)
	assert.Equal(t, "Oil change", detailed[1].Service.Title)
}

func TestGORMBookingRepository_GetDetailedAndUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	user, service := seedUserAndService(t, db)
	repo := repositories.NewGORMBookingRepository(db)
	ctx := context.Background()

	booking := &models.Booking{UserID: user.ID, ServiceID: service.ID, Date: time.Now(), VehicleType: "SUV", Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, booking))

	detailed, err := repo.GetDetailed(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, detailed.User)
	require.NotNil(t, detailed.Service)
	assert.Equal(t, "a@x.com", detailed.User.Email)
	assert.Equal(t, "Oil change", detailed.Service.Title)

	require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed))
	got, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)

	err = repo.UpdateStatus(ctx, booking.ID+50, models.BookingStatusConfirmed)
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.GetByID(ctx, booking.ID+50)
	assert.True(t, domain.IsNotFound(err))
}
