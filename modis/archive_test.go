package modis

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

const granuleFeb1 = "MOD11A2.A2005032.h08v05.006.2015041111111.hdf"
const granuleFeb9 = "MOD11A2.A2005040.h08v05.006.2015041222222.hdf"
const granuleOtherTile = "MOD11A2.A2005032.h09v05.006.2015041333333.hdf"

const productListing = `<html><body>
<a href="2005.01.25/">2005.01.25/</a>
<a href="2005.02.01/">2005.02.01/</a>
<a href="2005.02.09/">2005.02.09/</a>
<a href="2005.03.05/">2005.03.05/</a>
</body></html>`

const dayListingFeb1 = `<html><body>
<a href="` + granuleFeb1 + `">` + granuleFeb1 + `</a>
<a href="` + granuleFeb1 + `.xml">` + granuleFeb1 + `.xml</a>
<a href="` + granuleOtherTile + `">` + granuleOtherTile + `</a>
</body></html>`

const dayListingFeb9 = `<html><body>
<a href="` + granuleFeb9 + `">` + granuleFeb9 + `</a>
</body></html>`

type fakeArchive struct {
	t             *testing.T
	failuresLeft  int
	sawAuthHeader bool
}

func (f *fakeArchive) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/MOLT/MOD11A2.006/", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
			assert.Equal(f.t, expected, auth)
			f.sawAuthHeader = true
		}
		switch r.URL.Path {
		case "/MOLT/MOD11A2.006/":
			w.Write([]byte(productListing))
		case "/MOLT/MOD11A2.006/2005.02.01/":
			w.Write([]byte(dayListingFeb1))
		case "/MOLT/MOD11A2.006/2005.02.09/":
			w.Write([]byte(dayListingFeb9))
		case "/MOLT/MOD11A2.006/2005.02.01/" + granuleFeb1:
			if f.failuresLeft > 0 {
				f.failuresLeft--
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("HDF-CONTENT-FEB1"))
		case "/MOLT/MOD11A2.006/2005.02.09/" + granuleFeb9:
			w.Write([]byte("HDF-CONTENT-FEB9"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func testClient(t *testing.T, server *httptest.Server) *ArchiveClient {
	return NewArchiveClient(server.URL,
		util.Credentials{Username: "user", Password: "pass"},
		&util.BasicLogContext{Name: "archive-test"})
}

func mustProduct(t *testing.T) model.Product {
	product, err := model.LookupProduct("MOD11A2.006")
	assert.Nil(t, err)
	return product
}

func TestArchiveClient_FetchMonth(t *testing.T) {
	archive := &fakeArchive{t: t}
	server := httptest.NewServer(archive.handler())
	defer server.Close()

	destDir := t.TempDir()
	first, last := model.MonthRange(2005, 2)
	granules, err := testClient(t, server).Fetch(context.Background(),
		mustProduct(t), model.TileID{H: 8, V: 5}, first, last, destDir)

	assert.Nil(t, err)
	assert.Len(t, granules, 2)
	assert.True(t, archive.sawAuthHeader, "no Basic auth header sent")

	assert.Equal(t, time.Date(2005, time.February, 1, 0, 0, 0, 0, time.UTC), granules[0].Date)
	assert.Equal(t, model.TileID{H: 8, V: 5}, granules[0].Tile)

	content, err := os.ReadFile(filepath.Join(destDir, granuleFeb1))
	assert.Nil(t, err)
	assert.Equal(t, "HDF-CONTENT-FEB1", string(content))
}

func TestArchiveClient_SkipsSidecarsAndForeignTiles(t *testing.T) {
	archive := &fakeArchive{t: t}
	server := httptest.NewServer(archive.handler())
	defer server.Close()

	destDir := t.TempDir()
	first, last := model.MonthRange(2005, 2)
	granules, err := testClient(t, server).Fetch(context.Background(),
		mustProduct(t), model.TileID{H: 8, V: 5}, first, last, destDir)

	assert.Nil(t, err)
	for _, granule := range granules {
		assert.Contains(t, granule.Path, "h08v05")
	}
	_, err = os.Stat(filepath.Join(destDir, granuleOtherTile))
	assert.True(t, os.IsNotExist(err))
}

func TestArchiveClient_RetriesTransientFailures(t *testing.T) {
	retryDelay = time.Millisecond
	archive := &fakeArchive{t: t, failuresLeft: 2}
	server := httptest.NewServer(archive.handler())
	defer server.Close()

	client := testClient(t, server)
	first, last := model.MonthRange(2005, 2)

	granules, err := client.Fetch(context.Background(),
		mustProduct(t), model.TileID{H: 8, V: 5}, first, last, t.TempDir())
	assert.Nil(t, err)
	assert.Len(t, granules, 2)
	assert.Zero(t, archive.failuresLeft)
}

func TestArchiveClient_FetchErrorOnMissingRange(t *testing.T) {
	archive := &fakeArchive{t: t}
	server := httptest.NewServer(archive.handler())
	defer server.Close()

	first, last := model.MonthRange(2009, 6)
	_, err := testClient(t, server).Fetch(context.Background(),
		mustProduct(t), model.TileID{H: 8, V: 5}, first, last, t.TempDir())

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "MOD11A2.006", fetchErr.Product)
}

func TestArchiveClient_CancelledContext(t *testing.T) {
	archive := &fakeArchive{t: t}
	server := httptest.NewServer(archive.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first, last := model.MonthRange(2005, 2)
	_, err := testClient(t, server).Fetch(ctx,
		mustProduct(t), model.TileID{H: 8, V: 5}, first, last, t.TempDir())
	assert.NotNil(t, err)
}
