package pin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickbyblock/broker/core"
)

func TestPinFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		assert.Equal(t, "Bearer test-jwt", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "Asset_Pearl", header.Filename)

		var meta map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("pinataMetadata")), &meta))
		assert.Equal(t, "Asset_Pearl", meta["name"])

		fmt.Fprint(w, `{"IpfsHash":"QmImageHash"}`)
	}))
	defer ts.Close()

	c := NewClient("test-jwt", WithBaseURL(ts.URL))

	cid, err := c.PinFile(context.Background(), "Asset_Pearl", strings.NewReader("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "QmImageHash", cid)
}

func TestPinJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinJSONToIPFS", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			PinataContent  map[string]string `json:"pinataContent"`
			PinataMetadata map[string]string `json:"pinataMetadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Metadata_Pearl", body.PinataMetadata["name"])
		assert.Equal(t, "Pearl", body.PinataContent["name"])

		fmt.Fprint(w, `{"IpfsHash":"QmMetaHash"}`)
	}))
	defer ts.Close()

	c := NewClient("test-jwt", WithBaseURL(ts.URL))

	cid, err := c.PinJSON(context.Background(), "Metadata_Pearl", map[string]string{"name": "Pearl"})
	require.NoError(t, err)
	assert.Equal(t, "QmMetaHash", cid)
}

func TestPins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/pinList", r.URL.Path)
		assert.Equal(t, "pinned", r.URL.Query().Get("status"))

		fmt.Fprint(w, `{"rows":[
			{"ipfs_pin_hash":"QmMeta1","metadata":{"name":"Metadata_One"}},
			{"ipfs_pin_hash":"QmImg1","metadata":{"name":"Asset_One"}}
		]}`)
	}))
	defer ts.Close()

	c := NewClient("test-jwt", WithBaseURL(ts.URL))

	pins, err := c.Pins(context.Background())
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, core.Pin{CID: "QmMeta1", Name: "Metadata_One"}, pins[0])
	assert.Equal(t, core.Pin{CID: "QmImg1", Name: "Asset_One"}, pins[1])
}

func TestErrorStatusWrapsStorageUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewClient("bad-jwt", WithBaseURL(ts.URL))

	_, err := c.PinJSON(context.Background(), "x", map[string]string{})
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)

	_, err = c.Pins(context.Background())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}
