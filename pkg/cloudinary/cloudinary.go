// Package cloudinary is a minimal client for Cloudinary's unsigned image
// upload endpoint. Uploaded assets cannot be deleted through an unsigned
// preset; deletion is handled from the Cloudinary dashboard.
package cloudinary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com"

type Config struct {
	CloudName    string
	UploadPreset string
	Folder       string
	// BaseURL overrides the API host, used in tests.
	BaseURL string
}

type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicId  string `json:"public_id"`
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg *Config) *Client {
	c := Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        *cfg,
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = defaultBaseURL
	}

	return &c
}

func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		if c.cfg.Folder != "" {
			if err := mw.WriteField("folder", c.cfg.Folder); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, body)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &result, nil
}
