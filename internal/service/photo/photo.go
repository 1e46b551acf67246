package photo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
	"github.com/gharapp/server/pkg/omitnilpointers"
)

type UpdatePhotoParams struct {
	Id       string `validate:"required"`
	Members  *[]string
	Occasion *string
	Year     *int
	Month    *int
	Day      *int
	Mood     *string
	Caption  *string
}

func (s *service) UpdatePhoto(ctx context.Context, params *UpdatePhotoParams) (domain.Photo, error) {
	if _, err := s.GetPhoto(ctx, params.Id); err != nil {
		return domain.Photo{}, err
	}

	patch := omitnilpointers.OmitNilPointers(map[string]any{
		"members":  params.Members,
		"occasion": params.Occasion,
		"year":     params.Year,
		"month":    params.Month,
		"day":      params.Day,
		"mood":     params.Mood,
		"caption":  params.Caption,
	})
	patch["updatedAt"] = time.Now().UnixMilli()

	if err := s.photoRepo.UpdateDocument(ctx, &docstore.UpdateDocumentParams{
		Collection: photosCollection,
		Id:         params.Id,
		Patch:      patch,
	}); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to update photo: %w", err)
	}

	return s.GetPhoto(ctx, params.Id)
}

func (s *service) ToggleFavorite(ctx context.Context, id string) (domain.Photo, error) {
	photo, err := s.GetPhoto(ctx, id)
	if err != nil {
		return domain.Photo{}, err
	}

	if err := s.photoRepo.UpdateDocument(ctx, &docstore.UpdateDocumentParams{
		Collection: photosCollection,
		Id:         id,
		Patch: map[string]any{
			"favorite":  !photo.Favorite,
			"updatedAt": time.Now().UnixMilli(),
		},
	}); err != nil {
		return domain.Photo{}, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	photo.Favorite = !photo.Favorite

	return photo, nil
}

func (s *service) DeletePhoto(ctx context.Context, id string) error {
	err := s.photoRepo.DeleteDocument(ctx, &docstore.DeleteDocumentParams{
		Collection: photosCollection,
		Id:         id,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
