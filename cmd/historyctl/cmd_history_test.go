package main

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"image-processing-be/internal/dto"
	"image-processing-be/internal/entity"
	"image-processing-be/internal/events"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/internal/service"
	"image-processing-be/internal/testsupport"
	pkgEvents "image-processing-be/pkg/events"
	"image-processing-be/pkg/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	factory   unitofwork.RepositoryFactory
	uploads   *filestore.LocalStore
	processed *filestore.LocalStore
}

// useTestHistory points openHistory at a fresh database and temp stores.
func useTestHistory(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	uploads, err := filestore.NewLocalStore(root + "/uploads")
	require.NoError(t, err)
	processed, err := filestore.NewLocalStore(root + "/processed")
	require.NoError(t, err)

	f := &fixture{
		factory:   unitofwork.NewRepositoryFactory(testsupport.OpenDB(t)),
		uploads:   uploads,
		processed: processed,
	}

	log := logger.NewNopLogger()
	original := openHistory
	openHistory = func(context.Context) (service.IHistoryService, func(), error) {
		svc := service.NewHistoryService(f.factory, uploads, processed, events.NewNatsPublisher(nil, log), nil, nil, log)
		return svc, func() {}, nil
	}
	t.Cleanup(func() { openHistory = original })
	return f
}

func (f *fixture) seed(t *testing.T, name string, filters ...string) uint {
	t.Helper()
	ctx := context.Background()
	uow := f.factory.NewUnitOfWork(ctx)

	user := &entity.User{Name: name}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	for _, filter := range filters {
		require.NoError(t, uow.ProcessedImageRepository().Create(ctx, &entity.ProcessedImage{
			UserId:            user.Id,
			UserName:          name,
			OriginalFilename:  "abcd1234_cat.png",
			ProcessedFilename: "processed_" + filter + "_1_abcd1234_cat.png",
			FilterKind:        filter,
		}))
	}
	return user.Id
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	confirmClear = false
	historyQuery = dto.HistoryQuery{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListEmpty(t *testing.T) {
	useTestHistory(t)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history.")
}

func TestListPrintsRecords(t *testing.T) {
	f := useTestHistory(t)
	f.seed(t, "Ada", "sepia", "blur")

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "processed_sepia_1_abcd1234_cat.png")
	assert.Contains(t, out, "processed_blur_1_abcd1234_cat.png")
}

func TestListFilters(t *testing.T) {
	f := useTestHistory(t)
	f.seed(t, "Ada", "sepia", "blur")
	graceID := f.seed(t, "Grace", "sepia")

	out, err := run(t, "list", "--filter", "sepia", "--user", "Grace")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace")
	assert.NotContains(t, out, "Ada")

	out, err = run(t, "list", "--user-id", strconv.FormatUint(uint64(graceID), 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Grace")
	assert.NotContains(t, out, "Ada")
}

func TestStatsPrintsCounts(t *testing.T) {
	f := useTestHistory(t)
	f.seed(t, "Ada", "sepia", "sepia")
	f.seed(t, "Grace", "blur")

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Images: 3")
	assert.Contains(t, out, "Users:  2")
	assert.Regexp(t, `sepia\s+2`, out)
	assert.Regexp(t, `blur\s+1`, out)
}

func TestClearRequiresConfirmation(t *testing.T) {
	f := useTestHistory(t)
	f.seed(t, "Ada", "edge")

	_, err := run(t, "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
}

func TestClearDeletesEverything(t *testing.T) {
	f := useTestHistory(t)
	f.seed(t, "Ada", "edge", "negative")
	require.NoError(t, f.uploads.Put(context.Background(), "abcd1234_cat.png", []byte("x")))
	require.NoError(t, f.processed.Put(context.Background(), "processed_edge_1_abcd1234_cat.png", []byte("y")))

	out, err := run(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 images, 1 users, 1 uploaded files, 1 processed files.")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history.")
}

func TestFormatEvent(t *testing.T) {
	evt := pkgEvents.BaseEvent{
		Type:       pkgEvents.ImageProcessed,
		Data:       map[string]interface{}{"filter": "sepia"},
		OccurredAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}

	line := formatEvent(evt)
	assert.Contains(t, line, "2026-02-03T04:05:06Z")
	assert.Contains(t, line, "IMAGE_PROCESSED")
	assert.Contains(t, line, "filter:sepia")
}
