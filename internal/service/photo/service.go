// Package photo manages the photo collection: CDN uploads, metadata
// documents, filtering and collection subscriptions. Deleting a photo
// removes the document only; the CDN asset stays behind because unsigned
// uploads cannot be deleted through the API.
package photo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
	"github.com/gharapp/server/pkg/cloudinary"
	"github.com/gharapp/server/pkg/randstr"
)

const photosCollection = "photos"

const DefaultMaxUploadSize = 10 << 20

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrFileTooLarge  = errors.New("file exceeds upload size limit")
)

type iPhotoRepo interface {
	GetDocument(ctx context.Context, collection, id string) (docstore.Document, error)
	SetDocument(ctx context.Context, params *docstore.SetDocumentParams) error
	UpdateDocument(ctx context.Context, params *docstore.UpdateDocumentParams) error
	DeleteDocument(ctx context.Context, params *docstore.DeleteDocumentParams) error
	ListDocuments(ctx context.Context, collection string) ([]docstore.Document, error)
	Subscribe(ctx context.Context, collection string, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) func()
}

type iUploader interface {
	UploadImage(ctx context.Context, filename string, file io.Reader) (*cloudinary.UploadResult, error)
}

type service struct {
	photoRepo     iPhotoRepo
	uploader      iUploader
	generator     *randstr.Generator
	maxUploadSize int64
}

func NewService(photoRepo iPhotoRepo, uploader iUploader, maxUploadSize int64) *service {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}

	return &service{
		photoRepo:     photoRepo,
		uploader:      uploader,
		generator:     randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
		maxUploadSize: maxUploadSize,
	}
}

type Filter struct {
	Member        string
	Occasion      string
	Year          int
	Mood          string
	FavoritesOnly bool
}

func (f *Filter) matches(photo domain.Photo) bool {
	if f == nil {
		return true
	}
	if f.Member != "" && !contains(photo.Members, f.Member) {
		return false
	}
	if f.Occasion != "" && photo.Occasion != f.Occasion {
		return false
	}
	if f.Year != 0 && photo.Year != f.Year {
		return false
	}
	if f.Mood != "" && photo.Mood != f.Mood {
		return false
	}
	if f.FavoritesOnly && !photo.Favorite {
		return false
	}

	return true
}

// ListPhotos returns matching photos newest first.
func (s *service) ListPhotos(ctx context.Context, filter *Filter) ([]domain.Photo, error) {
	docs, err := s.photoRepo.ListDocuments(ctx, photosCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	photos := make([]domain.Photo, 0, len(docs))
	for _, doc := range docs {
		var photo domain.Photo
		if err := json.Unmarshal(doc.Data, &photo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photo: %w", err)
		}
		if filter.matches(photo) {
			photos = append(photos, photo)
		}
	}

	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt > photos[j].CreatedAt
	})

	return photos, nil
}

func (s *service) GetPhoto(ctx context.Context, id string) (domain.Photo, error) {
	doc, err := s.photoRepo.GetDocument(ctx, photosCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return domain.Photo{}, ErrPhotoNotFound
		}
		return domain.Photo{}, fmt.Errorf("failed to get photo: %w", err)
	}

	var photo domain.Photo
	if err := json.Unmarshal(doc.Data, &photo); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to unmarshal photo: %w", err)
	}

	return photo, nil
}

// Subscribe delivers all photos newest first, now and after every change.
func (s *service) Subscribe(ctx context.Context, onSnapshot func(photos []domain.Photo), onError func(err error)) func() {
	return s.photoRepo.Subscribe(ctx, photosCollection, func(docs []docstore.Document) {
		photos := make([]domain.Photo, 0, len(docs))
		for _, doc := range docs {
			var photo domain.Photo
			if err := json.Unmarshal(doc.Data, &photo); err != nil {
				onError(fmt.Errorf("failed to unmarshal photo: %w", err))
				return
			}
			photos = append(photos, photo)
		}

		sort.Slice(photos, func(i, j int) bool {
			return photos[i].CreatedAt > photos[j].CreatedAt
		})

		onSnapshot(photos)
	}, onError)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
