package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

const goodListing = `name,size,cksum
MOD11A2.A2005001.h09v05.006.2015041111111.hdf,5032177,1472
MOD11A2.A2005001.h08v05.006.2015041222222.hdf,5100210,9981
MOD11A2.A2005001.h08v04.006.2015041333333.hdf,4881122,3317
MOD11A2.A2005001.h08v05.006.2015041222222.hdf,5100210,9981
`

const malformedListing = `name,size,cksum
MOD11A2.A2005001.h08v05.006.2015041222222.hdf,5100210,9981
not-a-granule-name,123,456
`

func TestParseTileListing(t *testing.T) {
	tiles, err := parseTileListing(strings.NewReader(goodListing))
	assert.Nil(t, err)
	// Deduplicated, ordered by (V, H)
	assert.Equal(t, []model.TileID{
		{H: 8, V: 4},
		{H: 8, V: 5},
		{H: 9, V: 5},
	}, tiles)
}

func TestParseTileListing_FailsLoudlyOnMalformedRow(t *testing.T) {
	_, err := parseTileListing(strings.NewReader(malformedListing))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Row)
}

func TestParseTileListing_EmptyListing(t *testing.T) {
	_, err := parseTileListing(strings.NewReader("name,size,cksum\n"))
	assert.NotNil(t, err)
}

func TestResolver_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goodListing))
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, &util.BasicLogContext{Name: "catalog-test"})
	tiles, err := resolver.Resolve(context.Background())
	assert.Nil(t, err)
	assert.Len(t, tiles, 3)
}

func TestResolver_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, &util.BasicLogContext{Name: "catalog-test"})
	_, err := resolver.Resolve(context.Background())
	assert.NotNil(t, err)
}
