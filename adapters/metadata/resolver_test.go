package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickbyblock/broker/core"
)

const (
	metaCID  = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	imageCID = "QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR"
)

func TestResolveRewritesURIs(t *testing.T) {
	var gateway string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/"+metaCID, r.URL.Path)
		fmt.Fprintf(w, `{"name":"Pearl","description":"Necklace","image":"ipfs://%s","price":"250"}`, imageCID)
	}))
	defer ts.Close()
	gateway = ts.URL + "/ipfs/"

	r := NewResolver(gateway, nil)

	md, err := r.Resolve(context.Background(), "ipfs://"+metaCID)
	require.NoError(t, err)
	assert.Equal(t, "Pearl", md.Name)
	assert.Equal(t, "Necklace", md.Description)
	assert.Equal(t, "250", md.Price)
	assert.Equal(t, gateway+imageCID, md.Image)
}

func TestResolvePassesThroughHTTPImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"a","description":"b","image":"https://example.com/x.png"}`)
	}))
	defer ts.Close()

	r := NewResolver(ts.URL+"/ipfs/", nil)

	md, err := r.Resolve(context.Background(), "ipfs://"+metaCID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.png", md.Image)
}

func TestResolveRejectsBadContentAddress(t *testing.T) {
	r := NewResolver("https://gateway.example/ipfs/", nil)

	_, err := r.Resolve(context.Background(), "ipfs://not-a-cid")
	assert.ErrorIs(t, err, core.ErrMetadataUnavailable)
}

func TestResolveRejectsUnknownScheme(t *testing.T) {
	r := NewResolver("https://gateway.example/ipfs/", nil)

	_, err := r.Resolve(context.Background(), "ftp://whatever")
	assert.ErrorIs(t, err, core.ErrMetadataUnavailable)
}

func TestResolveNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	r := NewResolver(ts.URL+"/ipfs/", nil)

	_, err := r.Resolve(context.Background(), "ipfs://"+metaCID)
	assert.ErrorIs(t, err, core.ErrMetadataUnavailable)
}

func TestResolveBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>definitely not json</html>")
	}))
	defer ts.Close()

	r := NewResolver(ts.URL+"/ipfs/", nil)

	_, err := r.Resolve(context.Background(), "ipfs://"+metaCID)
	assert.ErrorIs(t, err, core.ErrMetadataUnavailable)
}

func TestGatewayURLHandlesPaths(t *testing.T) {
	r := NewResolver("https://gateway.example/ipfs/", nil)

	url, err := r.GatewayURL("ipfs://" + metaCID + "/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/ipfs/"+metaCID+"/metadata.json", url)
}
