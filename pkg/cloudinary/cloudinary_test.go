package cloudinary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gharapp/server/pkg/cloudinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1_1/test-cloud/image/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "test-preset", r.FormValue("upload_preset"))
		assert.Equal(t, "ghar-photos", r.FormValue("folder"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cat.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://cdn.example/cat.jpg","public_id":"ghar-photos/cat"}`))
	}))
	defer srv.Close()

	client := cloudinary.NewClient(&cloudinary.Config{
		CloudName:    "test-cloud",
		UploadPreset: "test-preset",
		Folder:       "ghar-photos",
		BaseURL:      srv.URL,
	})

	result, err := client.UploadImage(context.Background(), "cat.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/cat.jpg", result.SecureURL)
	assert.Equal(t, "ghar-photos/cat", result.PublicId)
}

func TestUploadImageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upload preset not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := cloudinary.NewClient(&cloudinary.Config{
		CloudName:    "test-cloud",
		UploadPreset: "bad-preset",
		BaseURL:      srv.URL,
	})

	_, err := client.UploadImage(context.Background(), "cat.jpg", strings.NewReader("image-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
