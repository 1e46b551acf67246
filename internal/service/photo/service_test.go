package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharapp/server/internal/domain"
	redisrepo "github.com/gharapp/server/internal/repository/docstore/redis"
	"github.com/gharapp/server/pkg/cloudinary"
)

type fakeUploader struct {
	uploads int
	err     error
}

func (f *fakeUploader) UploadImage(ctx context.Context, filename string, file io.Reader) (*cloudinary.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	f.uploads++

	return &cloudinary.UploadResult{
		SecureURL: fmt.Sprintf("https://cdn.example/%s", filename),
		PublicId:  fmt.Sprintf("ghar-photos/%s", filename),
	}, nil
}

func newTestService(t *testing.T) (*service, *fakeUploader) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	uploader := &fakeUploader{}

	return NewService(redisrepo.NewRepo(rc), uploader, 0), uploader
}

func uploadParams(filename string, size int64, meta Metadata) *UploadPhotoParams {
	return &UploadPhotoParams{
		Filename: filename,
		Size:     size,
		File:     strings.NewReader("image-bytes"),
		Metadata: meta,
	}
}

func TestUploadPhotoAppliesDefaults(t *testing.T) {
	s, _ := newTestService(t)

	photo, err := s.UploadPhoto(context.Background(), uploadParams("beach.jpg", 1024, Metadata{}))
	require.NoError(t, err)

	assert.Regexp(t, `^photo_\d+_[a-z0-9]{7}$`, photo.Id)
	assert.Equal(t, "https://cdn.example/beach.jpg", photo.DownloadUrl)
	assert.Equal(t, "ghar-photos/beach.jpg", photo.CloudinaryPublicId)
	assert.Equal(t, []string{"me"}, photo.Members)
	assert.Equal(t, "Random Day", photo.Occasion)
	assert.Equal(t, "Happy", photo.Mood)
	assert.Equal(t, "A beautiful memory", photo.Caption)
	assert.Equal(t, time.Now().Year(), photo.Year)
	assert.False(t, photo.Favorite)
	assert.NotZero(t, photo.CreatedAt)

	got, err := s.GetPhoto(context.Background(), photo.Id)
	require.NoError(t, err)
	assert.Equal(t, photo, got)
}

func TestUploadPhotoKeepsProvidedMetadata(t *testing.T) {
	s, _ := newTestService(t)

	photo, err := s.UploadPhoto(context.Background(), uploadParams("diwali.jpg", 1024, Metadata{
		Members:  []string{"maa", "papa"},
		Occasion: "Diwali",
		Year:     2021,
		Month:    11,
		Day:      4,
		Mood:     "Festive",
		Caption:  "Lights everywhere",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"maa", "papa"}, photo.Members)
	assert.Equal(t, "Diwali", photo.Occasion)
	assert.Equal(t, 2021, photo.Year)
	assert.Equal(t, 11, photo.Month)
	assert.Equal(t, 4, photo.Day)
	assert.Equal(t, "Festive", photo.Mood)
	assert.Equal(t, "Lights everywhere", photo.Caption)
}

func TestUploadPhotoRejectsOversizedFile(t *testing.T) {
	s, uploader := newTestService(t)

	_, err := s.UploadPhoto(context.Background(), uploadParams("huge.jpg", DefaultMaxUploadSize+1, Metadata{}))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, uploader.uploads, "nothing reaches the CDN")
}

func TestUploadPhotoNoDocumentOnUploadFailure(t *testing.T) {
	s, uploader := newTestService(t)
	uploader.err = errors.New("cdn unavailable")

	_, err := s.UploadPhoto(context.Background(), uploadParams("beach.jpg", 1024, Metadata{}))
	require.Error(t, err)

	photos, err := s.ListPhotos(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestUploadBatchSkipsOversizedAndUploadsRest(t *testing.T) {
	s, uploader := newTestService(t)

	result, err := s.UploadBatch(context.Background(), []*UploadPhotoParams{
		uploadParams("ok1.jpg", 1024, Metadata{}),
		uploadParams("huge.jpg", DefaultMaxUploadSize+1, Metadata{}),
		uploadParams("ok2.jpg", 2048, Metadata{}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"huge.jpg"}, result.Skipped)
	require.Len(t, result.Uploaded, 2)
	assert.Equal(t, 2, uploader.uploads)
}

func TestListPhotosNewestFirst(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	first, err := s.UploadPhoto(ctx, uploadParams("first.jpg", 1024, Metadata{}))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.UploadPhoto(ctx, uploadParams("second.jpg", 1024, Metadata{}))
	require.NoError(t, err)

	photos, err := s.ListPhotos(ctx, nil)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, second.Id, photos[0].Id)
	assert.Equal(t, first.Id, photos[1].Id)
}

func TestListPhotosFilters(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.UploadPhoto(ctx, uploadParams("a.jpg", 1024, Metadata{Members: []string{"maa"}, Occasion: "Diwali", Year: 2021, Mood: "Festive"}))
	require.NoError(t, err)
	b, err := s.UploadPhoto(ctx, uploadParams("b.jpg", 1024, Metadata{Members: []string{"papa"}, Occasion: "Holi", Year: 2022, Mood: "Happy"}))
	require.NoError(t, err)

	_, err = s.ToggleFavorite(ctx, b.Id)
	require.NoError(t, err)

	byMember, err := s.ListPhotos(ctx, &Filter{Member: "maa"})
	require.NoError(t, err)
	require.Len(t, byMember, 1)
	assert.Equal(t, "Diwali", byMember[0].Occasion)

	byYear, err := s.ListPhotos(ctx, &Filter{Year: 2022})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, b.Id, byYear[0].Id)

	favorites, err := s.ListPhotos(ctx, &Filter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, b.Id, favorites[0].Id)
}

func TestUpdatePhotoPatchesOnlyProvidedFields(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	photo, err := s.UploadPhoto(ctx, uploadParams("a.jpg", 1024, Metadata{Occasion: "Diwali", Caption: "Before"}))
	require.NoError(t, err)

	caption := "After"
	updated, err := s.UpdatePhoto(ctx, &UpdatePhotoParams{Id: photo.Id, Caption: &caption})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Caption)
	assert.Equal(t, "Diwali", updated.Occasion)
	assert.Equal(t, photo.DownloadUrl, updated.DownloadUrl)
	assert.GreaterOrEqual(t, updated.UpdatedAt, photo.UpdatedAt)
}

func TestUpdatePhotoNotFound(t *testing.T) {
	s, _ := newTestService(t)

	caption := "Ghost"
	_, err := s.UpdatePhoto(context.Background(), &UpdatePhotoParams{Id: "photo_0_aaaaaaa", Caption: &caption})
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestToggleFavoriteFlipsBothWays(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	photo, err := s.UploadPhoto(ctx, uploadParams("a.jpg", 1024, Metadata{}))
	require.NoError(t, err)

	toggled, err := s.ToggleFavorite(ctx, photo.Id)
	require.NoError(t, err)
	assert.True(t, toggled.Favorite)

	toggled, err = s.ToggleFavorite(ctx, photo.Id)
	require.NoError(t, err)
	assert.False(t, toggled.Favorite)
}

func TestDeletePhotoRemovesDocumentOnly(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	photo, err := s.UploadPhoto(ctx, uploadParams("a.jpg", 1024, Metadata{}))
	require.NoError(t, err)

	require.NoError(t, s.DeletePhoto(ctx, photo.Id))

	_, err = s.GetPhoto(ctx, photo.Id)
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	assert.ErrorIs(t, s.DeletePhoto(ctx, photo.Id), ErrPhotoNotFound)
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	snapshots := make(chan []domain.Photo, 4)
	stop := s.Subscribe(ctx, func(photos []domain.Photo) {
		snapshots <- photos
	}, func(err error) {
		t.Errorf("unexpected subscription error: %v", err)
	})
	defer stop()

	select {
	case initial := <-snapshots:
		assert.Empty(t, initial)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	_, err := s.UploadPhoto(ctx, uploadParams("a.jpg", 1024, Metadata{}))
	require.NoError(t, err)

	deadline := time.After(time.Second)
	for {
		select {
		case snapshot := <-snapshots:
			if len(snapshot) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for updated snapshot")
		}
	}
}
