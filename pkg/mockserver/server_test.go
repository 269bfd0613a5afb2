package mockserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/entropy/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "file", "sales.csv", "id\n1\n")
	resp, err := http.Post(ts.URL+BasePath+"/files/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result api.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Equal(t, "sales.csv", result.Filename)
	assert.True(t, strings.HasSuffix(result.StoredName, ".csv"))
	assert.Len(t, strings.TrimSuffix(result.StoredName, ".csv"), 32)
	assert.Equal(t, "s3://uploads/"+result.StoredName, result.URI)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, int64(5), uploads[0].Size)

	// same name, same stored name
	body, contentType = multipartBody(t, "file", "sales.csv", "other")
	resp2, err := http.Post(ts.URL+BasePath+"/files/upload", contentType, body)
	require.NoError(t, err)
	defer resp2.Body.Close()
	var again api.UploadResult
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&again))
	assert.Equal(t, result.StoredName, again.StoredName)
}

func TestUploadRequiresFileField(t *testing.T) {
	ts := httptest.NewServer(New().Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "attachment", "sales.csv", "x")
	resp, err := http.Post(ts.URL+BasePath+"/files/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUploadFailure(t *testing.T) {
	ts := httptest.NewServer(New(WithUploadFailure(http.StatusInternalServerError, "bucket unavailable")).Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, "file", "sales.csv", "x")
	resp, err := http.Post(ts.URL+BasePath+"/files/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"detail":"bucket unavailable"}`, string(raw))
}

func TestRunStreamsScript(t *testing.T) {
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	req := api.RunRequest{
		FileURI:  "s3://uploads/abc.csv",
		Messages: []api.Message{api.NewUserMessage("clean it")},
	}
	payload, _ := json.Marshal(req)
	resp, err := http.Post(ts.URL+BasePath+"/agent/run", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	frames := strings.Split(strings.TrimSuffix(string(raw), "\n\n"), "\n\n")
	require.Len(t, frames, len(DefaultScript(req)))
	assert.True(t, strings.HasPrefix(frames[0], "data: "))
	assert.Contains(t, frames[len(frames)-1], `"status":"complete"`)
	assert.Contains(t, string(raw), "s3://uploads/cleaned_abc.csv")

	runs := srv.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, req.FileURI, runs[0].FileURI)
	assert.Equal(t, "clean it", runs[0].Messages[0].Content)
}

func TestRunValidatesRequest(t *testing.T) {
	ts := httptest.NewServer(New().Handler())
	defer ts.Close()

	for _, body := range []string{`{`, `{"messages":[]}`} {
		resp, err := http.Post(ts.URL+BasePath+"/agent/run", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
	}
}

func TestRunCustomScriptWithRawFrames(t *testing.T) {
	script := func(api.RunRequest) []Frame {
		return []Frame{
			{Raw: ": keepalive\n\n"},
			{Raw: "data: {broken\n\n"},
			{Event: api.AgentEvent{Status: api.StatusComplete, Message: "ok"}},
		}
	}
	ts := httptest.NewServer(New(WithScript(script)).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+BasePath+"/agent/run", "application/json", strings.NewReader(`{"file_uri":"s3://x","messages":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, ": keepalive\n\ndata: {broken\n\ndata: {\"status\":\"complete\",\"message\":\"ok\"}\n\n", string(raw))
}

func TestRunStopsWhenClientLeaves(t *testing.T) {
	ts := httptest.NewServer(New(WithDelay(time.Hour)).Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+BasePath+"/agent/run", strings.NewReader(`{"file_uri":"s3://x"}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	buf := make([]byte, 512)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "Connecting to Data Refinery")

	cancel()
	resp.Body.Close()
	// ts.Close waits for the handler, which returns once the request context ends
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(New().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New().ListenAndServe(ctx, "127.0.0.1:0")
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
