package util

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

var sharedClient *http.Client

// HTTPClient returns the shared HTTP client used for archive and catalog
// requests. The cookie jar matters: the Earthdata login flow redirects
// through urs.earthdata.nasa.gov and hands back a session cookie that must
// accompany the retried data request.
func HTTPClient() *http.Client {
	if sharedClient == nil {
		jar, _ := cookiejar.New(nil)
		sharedClient = &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Minute,
		}
	}
	return sharedClient
}
