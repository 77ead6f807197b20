package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUpload(t *testing.T) {
	var gotPreset, gotFilename, gotContent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename
		buf := new(strings.Builder)
		_, err = buf.ReadFrom(file)
		require.NoError(t, err)
		gotContent = buf.String()

		json.NewEncoder(w).Encode(Result{
			SecureURL: "https://cdn.example.com/v1/mug.jpg",
			PublicID:  "mug",
			Format:    "jpg",
			Bytes:     int64(len(gotContent)),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "unsigned-products")

	result, err := client.Upload(context.Background(), Upload{
		Filename: "mug.jpg",
		Body:     strings.NewReader("fake-image-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/v1/mug.jpg", result.SecureURL)
	assert.Equal(t, "unsigned-products", gotPreset)
	assert.Equal(t, "mug.jpg", gotFilename)
	assert.Equal(t, "fake-image-bytes", gotContent)
}

func TestClientUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "missing-preset")

	_, err := client.Upload(context.Background(), Upload{
		Filename: "mug.jpg",
		Body:     strings.NewReader("bytes"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrUploadRejected.Message)
}

func TestClientUploadMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "preset")

	_, err := client.Upload(context.Background(), Upload{
		Filename: "mug.jpg",
		Body:     strings.NewReader("bytes"),
	})
	require.Error(t, err)
}

func TestClientUploadUnreachableHost(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "preset")

	_, err := client.Upload(context.Background(), Upload{
		Filename: "mug.jpg",
		Body:     strings.NewReader("bytes"),
	})
	require.Error(t, err)
}
