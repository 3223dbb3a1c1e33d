package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUpstream reports a failure in a supporting service (image store,
// audit sink) whose success the flow requires.
var ErrUpstream = errors.New("upstream service failure")

// ImageStore archives document images and returns a stable URL for each.
type ImageStore interface {
	Upload(imageData []byte, name string) (url string, err error)
}

// CloudinaryImageStore uploads images through Cloudinary's unsigned
// upload endpoint.
type CloudinaryImageStore struct {
	uploadURL    string
	uploadPreset string
	httpClient   *http.Client
}

func NewCloudinaryImageStore(uploadURL, uploadPreset string) *CloudinaryImageStore {
	return &CloudinaryImageStore{
		uploadURL:    uploadURL,
		uploadPreset: uploadPreset,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *CloudinaryImageStore) Upload(imageData []byte, name string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name+".jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create upload form: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute upload request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: image upload failed with status %d: %s", ErrUpstream, resp.StatusCode, string(respBody))
	}

	var uploadResp struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode upload response: %v", ErrUpstream, err)
	}
	if uploadResp.SecureURL == "" {
		return "", fmt.Errorf("%w: image upload response contained no secure_url", ErrUpstream)
	}
	return uploadResp.SecureURL, nil
}
