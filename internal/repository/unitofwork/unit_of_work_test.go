package unitofwork

import (
	"context"
	"testing"
	"time"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/repository/specification"
	"image-processing-be/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedImage(t *testing.T, uow UnitOfWork, user *entity.User, filter string, at time.Time) *entity.ProcessedImage {
	t.Helper()
	img := &entity.ProcessedImage{
		UserId:            user.Id,
		UserName:          user.Name,
		OriginalFilename:  "0a1b2c3d_cat.png",
		ProcessedFilename: "processed_" + filter + "_1_0a1b2c3d_cat.png",
		FilterKind:        filter,
		CreatedAt:         at,
	}
	require.NoError(t, uow.ProcessedImageRepository().Create(context.Background(), img))
	return img
}

func TestUserRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(testsupport.OpenDB(t)).NewUnitOfWork(ctx)

	ada := &entity.User{Name: "Ada"}
	require.NoError(t, uow.UserRepository().Create(ctx, ada))
	assert.NotZero(t, ada.Id)
	assert.False(t, ada.CreatedAt.IsZero())

	err := uow.UserRepository().Create(ctx, &entity.User{Name: "Ada"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := uow.UserRepository().FindOne(ctx, specification.ByName{Name: "Ada"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ada.Id, found.Id)

	missing, err := uow.UserRepository().FindOne(ctx, specification.ByName{Name: "ada"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProcessedImageRepository_NewestFirstAndStats(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(testsupport.OpenDB(t)).NewUnitOfWork(ctx)

	ada := &entity.User{Name: "Ada"}
	require.NoError(t, uow.UserRepository().Create(ctx, ada))

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := seedImage(t, uow, ada, "grayscale", base)
	second := seedImage(t, uow, ada, "blur", base.Add(time.Minute))
	third := seedImage(t, uow, ada, "grayscale", base.Add(2*time.Minute))

	list, err := uow.ProcessedImageRepository().FindNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{third.Id, second.Id, first.Id}, []uint{list[0].Id, list[1].Id, list[2].Id})
	assert.Equal(t, "Ada", list[0].UserName)

	stats, err := uow.ProcessedImageRepository().CountByFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.FilterCount{
		{FilterKind: "grayscale", Total: 2},
		{FilterKind: "blur", Total: 1},
	}, stats)

	n, err := uow.ProcessedImageRepository().Count(ctx, specification.ByFilterKind{Kind: "blur"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUnitOfWork_ClearInTransaction(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(testsupport.OpenDB(t))
	uow := factory.NewUnitOfWork(ctx)

	ada := &entity.User{Name: "Ada"}
	require.NoError(t, uow.UserRepository().Create(ctx, ada))
	seedImage(t, uow, ada, "sepia", time.Now())

	t.Run("rollback keeps rows", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		_, err := uow.ProcessedImageRepository().DeleteAll(ctx)
		require.NoError(t, err)
		_, err = uow.UserRepository().DeleteAll(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback())

		users, _ := uow.UserRepository().Count(ctx)
		images, _ := uow.ProcessedImageRepository().Count(ctx)
		assert.Equal(t, int64(1), users)
		assert.Equal(t, int64(1), images)
	})

	t.Run("commit removes rows", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		deletedImages, err := uow.ProcessedImageRepository().DeleteAll(ctx)
		require.NoError(t, err)
		deletedUsers, err := uow.UserRepository().DeleteAll(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		assert.Equal(t, int64(1), deletedImages)
		assert.Equal(t, int64(1), deletedUsers)

		users, _ := uow.UserRepository().Count(ctx)
		images, _ := uow.ProcessedImageRepository().Count(ctx)
		assert.Zero(t, users)
		assert.Zero(t, images)
	})

	t.Run("misuse is reported", func(t *testing.T) {
		assert.Error(t, uow.Commit())
		assert.Error(t, uow.Rollback())
		require.NoError(t, uow.Begin(ctx))
		assert.Error(t, uow.Begin(ctx))
		require.NoError(t, uow.Rollback())
	})
}
