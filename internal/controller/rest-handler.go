package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gharapp/server/internal/service/gate"
	"github.com/gharapp/server/internal/service/photo"
	"github.com/gharapp/server/pkg/rest"
)

type verifyPinInput struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

func (c *controller) verifyPin(w http.ResponseWriter, r *http.Request) {
	var req verifyPinInput

	if err := rest.ReadJSON(r, &req); err != nil {
		slog.InfoContext(r.Context(), "verifyPin", "read json err", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		slog.InfoContext(r.Context(), "verifyPin", "validate err", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	result, err := c.gateService.Verify(r.Context(), req.Pin)
	if err != nil {
		if errors.Is(err, gate.ErrVerificationInProgress) {
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": "verification already in progress"})
			return
		}
		slog.InfoContext(r.Context(), "verifyPin", "verify err", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": result})
}

func (c *controller) getSession(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.gateService.Session()})
}

func (c *controller) logout(w http.ResponseWriter, r *http.Request) {
	if err := c.gateService.Logout(r.Context()); err != nil {
		slog.InfoContext(r.Context(), "logout", "err", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.gateService.Session()})
}

func (c *controller) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := c.musicService.ListPlaylists(r.Context())
	if err != nil {
		slog.InfoContext(r.Context(), "listPlaylists", "err", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": playlists})
}

func (c *controller) listPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	filter := photo.Filter{
		Member:        q.Get("member"),
		Occasion:      q.Get("occasion"),
		Year:          year,
		Mood:          q.Get("mood"),
		FavoritesOnly: q.Get("favorites") == "true",
	}

	photos, err := c.photoService.ListPhotos(r.Context(), &filter)
	if err != nil {
		slog.InfoContext(r.Context(), "listPhotos", "err", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": photos})
}

type uploadPhotosResponse struct {
	Uploaded int      `json:"uploaded"`
	Skipped  []string `json:"skipped,omitempty"`
}

// uploadPhotos takes a multipart batch under the "files" field with
// shared metadata in the remaining form values. Oversized files are
// reported as skipped, the rest go through.
func (c *controller) uploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		slog.InfoContext(r.Context(), "uploadPhotos", "parse form err", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "no files provided"})
		return
	}

	meta := photoMetadataFromForm(r)

	batch := make([]*photo.UploadPhotoParams, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			slog.InfoContext(r.Context(), "uploadPhotos", "open file err", err)
			rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
			return
		}
		defer file.Close()

		batch = append(batch, &photo.UploadPhotoParams{
			Filename: fh.Filename,
			Size:     fh.Size,
			File:     file,
			Metadata: meta,
		})
	}

	result, err := c.photoService.UploadBatch(r.Context(), batch)
	if err != nil {
		slog.InfoContext(r.Context(), "uploadPhotos", "upload err", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": uploadPhotosResponse{
		Uploaded: len(result.Uploaded),
		Skipped:  result.Skipped,
	}})
}

func photoMetadataFromForm(r *http.Request) photo.Metadata {
	var members []string
	if raw := r.FormValue("members"); raw != "" {
		for _, member := range strings.Split(raw, ",") {
			if member = strings.TrimSpace(member); member != "" {
				members = append(members, member)
			}
		}
	}

	year, _ := strconv.Atoi(r.FormValue("year"))
	month, _ := strconv.Atoi(r.FormValue("month"))
	day, _ := strconv.Atoi(r.FormValue("day"))

	return photo.Metadata{
		Members:  members,
		Occasion: r.FormValue("occasion"),
		Year:     year,
		Month:    month,
		Day:      day,
		Mood:     r.FormValue("mood"),
		Caption:  r.FormValue("caption"),
	}
}
