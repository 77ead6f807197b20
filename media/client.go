package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
)

// Client uploads through an unsigned upload preset, the way image CDNs
// expose browser-direct uploads: multipart POST with the file and the preset
// name, JSON response carrying the hosted URL.
type Client struct {
	endpoint string
	preset   string
	http     *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(endpoint, preset string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		preset:   preset,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Upload(ctx context.Context, up Upload) (*Result, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", up.Filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not build upload form")
	}
	if _, err := io.Copy(part, up.Body); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not read upload body")
	}
	if err := form.WriteField("upload_preset", c.preset); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not build upload form")
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, ErrUploadRejected.Category, ErrUploadRejected.Message).
			WithTextCode(ErrUploadRejected.TextCode)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, errors.New(ErrUploadRejected.Message, ErrUploadRejected.Category).
			WithTextCode(ErrUploadRejected.TextCode).
			WithMetadata(map[string]any{
				"status":   res.StatusCode,
				"response": string(payload),
			})
	}

	var result Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not decode upload response")
	}
	if result.SecureURL == "" {
		return nil, errors.New("upload response missing secure_url", errors.CategoryInternal)
	}
	return &result, nil
}
