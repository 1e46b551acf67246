package photo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
)

const photoIdSuffixLength = 7

func (s *service) generatePhotoId() string {
	return fmt.Sprintf("photo_%d_%s", time.Now().UnixMilli(), s.generator.GenerateRandomString(photoIdSuffixLength))
}

// Metadata carries the optional photo attributes supplied at upload
// time. Empty fields fall back to friendly defaults.
type Metadata struct {
	Members  []string
	Occasion string
	Year     int
	Month    int
	Day      int
	Mood     string
	Caption  string
}

func (m Metadata) withDefaults(now time.Time) Metadata {
	if len(m.Members) == 0 {
		m.Members = []string{"me"}
	}
	if m.Occasion == "" {
		m.Occasion = "Random Day"
	}
	if m.Year == 0 {
		m.Year = now.Year()
	}
	if m.Month == 0 {
		m.Month = int(now.Month())
	}
	if m.Day == 0 {
		m.Day = now.Day()
	}
	if m.Mood == "" {
		m.Mood = "Happy"
	}
	if m.Caption == "" {
		m.Caption = "A beautiful memory"
	}

	return m
}

type UploadPhotoParams struct {
	Filename string
	Size     int64
	File     io.Reader
	Metadata Metadata
}

// UploadPhoto pushes the image to the CDN first and writes the metadata
// document only after the upload succeeded, so every document points at
// a live asset.
func (s *service) UploadPhoto(ctx context.Context, params *UploadPhotoParams) (domain.Photo, error) {
	if params.Size > s.maxUploadSize {
		return domain.Photo{}, ErrFileTooLarge
	}

	result, err := s.uploader.UploadImage(ctx, params.Filename, params.File)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("failed to upload image: %w", err)
	}

	now := time.Now()
	meta := params.Metadata.withDefaults(now)
	photo := domain.Photo{
		Id:                 s.generatePhotoId(),
		CloudinaryPublicId: result.PublicId,
		DownloadUrl:        result.SecureURL,
		Members:            meta.Members,
		Occasion:           meta.Occasion,
		Year:               meta.Year,
		Month:              meta.Month,
		Day:                meta.Day,
		Mood:               meta.Mood,
		Caption:            meta.Caption,
		Favorite:           false,
		CreatedAt:          now.UnixMilli(),
		UpdatedAt:          now.UnixMilli(),
	}

	if err := s.photoRepo.SetDocument(ctx, &docstore.SetDocumentParams{
		Collection: photosCollection,
		Id:         photo.Id,
		Value:      photo,
	}); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to save photo: %w", err)
	}

	return photo, nil
}

type BatchResult struct {
	Uploaded []domain.Photo
	// Skipped lists filenames rejected by the size limit; the valid
	// remainder of the batch still goes through.
	Skipped []string
}

func (s *service) UploadBatch(ctx context.Context, batch []*UploadPhotoParams) (BatchResult, error) {
	var result BatchResult
	for _, params := range batch {
		if params.Size > s.maxUploadSize {
			result.Skipped = append(result.Skipped, params.Filename)
			continue
		}

		photo, err := s.UploadPhoto(ctx, params)
		if err != nil {
			return result, fmt.Errorf("failed to upload %s: %w", params.Filename, err)
		}
		result.Uploaded = append(result.Uploaded, photo)
	}

	return result, nil
}
