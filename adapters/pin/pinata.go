// Package pin talks to the Pinata pinning service. The broker treats it as
// an opaque content-addressable store: pin bytes, pin JSON, enumerate pins.
package pin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

const defaultBaseURL = "https://api.pinata.cloud"

// Client implements ports.Pinner against the Pinata REST API.
type Client struct {
	baseURL string
	jwt     string
	http    *http.Client
}

var _ ports.Pinner = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Pinata client authenticated with the given JWT
func NewClient(jwt string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		jwt:     jwt,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

type pinListResponse struct {
	Rows []struct {
		IpfsPinHash string `json:"ipfs_pin_hash"`
		Metadata    struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"rows"`
}

func storageErr(op string, err error) error {
	return fmt.Errorf("pinata %s: %v: %w", op, err, core.ErrStorageUnavailable)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return storageErr(path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return storageErr(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return storageErr(path, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return storageErr(path, err)
	}
	return nil
}

// PinFile pins the raw bytes under the given display name and returns the
// content address
func (c *Client) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", storageErr("pinFileToIPFS", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", storageErr("pinFileToIPFS", err)
	}

	meta, _ := json.Marshal(map[string]string{"name": name})
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", storageErr("pinFileToIPFS", err)
	}
	if err := mw.Close(); err != nil {
		return "", storageErr("pinFileToIPFS", err)
	}

	var out pinResponse
	if err := c.do(ctx, http.MethodPost, "/pinning/pinFileToIPFS", mw.FormDataContentType(), &buf, &out); err != nil {
		return "", err
	}
	return out.IpfsHash, nil
}

// PinJSON pins the JSON encoding of payload and returns the content address
func (c *Client) PinJSON(ctx context.Context, name string, payload any) (string, error) {
	body, err := json.Marshal(map[string]any{
		"pinataContent":  payload,
		"pinataMetadata": map[string]string{"name": name},
	})
	if err != nil {
		return "", storageErr("pinJSONToIPFS", err)
	}

	var out pinResponse
	if err := c.do(ctx, http.MethodPost, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	return out.IpfsHash, nil
}

// Pins enumerates the currently pinned objects, most recent first as the
// provider reports them
func (c *Client) Pins(ctx context.Context) ([]core.Pin, error) {
	var out pinListResponse
	if err := c.do(ctx, http.MethodGet, "/data/pinList?status=pinned&pageLimit=1000", "", nil, &out); err != nil {
		return nil, err
	}

	pins := make([]core.Pin, 0, len(out.Rows))
	for _, row := range out.Rows {
		pins = append(pins, core.Pin{
			CID:  row.IpfsPinHash,
			Name: row.Metadata.Name,
		})
	}
	return pins, nil
}
