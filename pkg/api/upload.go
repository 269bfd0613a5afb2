package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/killallgit/entropy/pkg/logger"
)

// SelectedFile describes a local dataset chosen for upload
type SelectedFile struct {
	Path string
	Name string
	Size int64
}

// SelectFile checks that path names a regular file with an accepted extension
func (c *Client) SelectFile(path string) (SelectedFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return SelectedFile{}, fmt.Errorf("%w: no file given", ErrUnsupportedFile)
	}

	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if !info.Mode().IsRegular() {
		return SelectedFile{}, fmt.Errorf("%w: %s is not a regular file", ErrUnsupportedFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if len(c.acceptedExtensions) > 0 && !slices.Contains(c.acceptedExtensions, ext) {
		return SelectedFile{}, fmt.Errorf("%w: %q is not one of %s", ErrUnsupportedFile, ext, strings.Join(c.acceptedExtensions, ", "))
	}

	return SelectedFile{Path: path, Name: info.Name(), Size: info.Size()}, nil
}

// Upload sends the file at path as the sole field of a multipart form
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	selected, err := c.SelectFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(selected.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	return c.UploadReader(ctx, selected.Name, f)
}

// UploadReader streams r to the upload endpoint under the given file name
func (c *Client) UploadReader(ctx context.Context, name string, r io.Reader) (*UploadResult, error) {
	log := logger.WithComponent("upload")

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to write file data: %w", err))
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/files/upload"), pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	log.Debug("uploading file", "name", name, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	// Unblocks the writer goroutine if the request never read the body
	pr.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp.Body)
		log.Warn("upload rejected", "status", resp.StatusCode, "detail", detail)
		if detail != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, detail)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode upload response: %v", ErrUploadFailed, err)
	}

	log.Info("file uploaded", "name", result.Filename, "uri", result.URI)
	return &result, nil
}

// readErrorDetail extracts a FastAPI style {"detail": "..."} message, or the raw text
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(payload.Detail)
		return string(b)
	}

	return strings.TrimSpace(string(raw))
}
