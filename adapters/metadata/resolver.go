// Package metadata resolves ipfs:// content addresses to their JSON
// metadata documents through an HTTP gateway.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

const ipfsScheme = "ipfs://"

// Resolver implements ports.MetadataResolver over an IPFS HTTP gateway.
type Resolver struct {
	gateway string
	http    *http.Client
}

var _ ports.MetadataResolver = (*Resolver)(nil)

// NewResolver creates a resolver using the given gateway base URL, e.g.
// "https://gateway.pinata.cloud/ipfs/". A nil client gets a sane default.
func NewResolver(gatewayURL string, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if !strings.HasSuffix(gatewayURL, "/") {
		gatewayURL += "/"
	}
	return &Resolver{
		gateway: gatewayURL,
		http:    client,
	}
}

func metadataErr(uri string, err error) error {
	return fmt.Errorf("resolve %s: %v: %w", uri, err, core.ErrMetadataUnavailable)
}

// GatewayURL rewrites an ipfs:// locator to a fetchable gateway URL,
// validating the content address. Plain http(s) URLs pass through.
func (r *Resolver) GatewayURL(uri string) (string, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri, nil
	}

	if !strings.HasPrefix(uri, ipfsScheme) {
		return "", metadataErr(uri, fmt.Errorf("unsupported scheme"))
	}

	rest := strings.TrimPrefix(uri, ipfsScheme)
	cidPart, _, _ := strings.Cut(rest, "/")
	if _, err := cid.Decode(cidPart); err != nil {
		return "", metadataErr(uri, fmt.Errorf("bad content address: %w", err))
	}

	return r.gateway + rest, nil
}

// Resolve fetches and decodes the metadata document at uri, rewriting the
// embedded image reference to a gateway URL
func (r *Resolver) Resolve(ctx context.Context, uri string) (*core.Metadata, error) {
	url, err := r.GatewayURL(uri)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, metadataErr(uri, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, metadataErr(uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, metadataErr(uri, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var md core.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, metadataErr(uri, err)
	}

	if strings.HasPrefix(md.Image, ipfsScheme) {
		imageURL, err := r.GatewayURL(md.Image)
		if err != nil {
			return nil, err
		}
		md.Image = imageURL
	}

	return &md, nil
}
