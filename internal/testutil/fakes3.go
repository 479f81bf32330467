// internal/testutil/fakes3.go
package testutil

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeS3Bucket is the bucket name FakeS3 serves.
const FakeS3Bucket = "test-bucket"

// FakeS3 is a minimal S3-compatible endpoint for object store tests. It
// serves a fixed set of keys and records the copy and delete requests the
// client issues, so tests can assert on the exact keys touched.
type FakeS3 struct {
	mu      sync.Mutex
	keys    []string
	copies  []string
	deletes []string
	srv     *httptest.Server
}

// NewFakeS3 starts a stub server holding the given object keys. The
// server is closed when the test finishes.
func NewFakeS3(t *testing.T, keys ...string) *FakeS3 {
	t.Helper()

	f := &FakeS3{keys: keys}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// Endpoint returns the host:port for the object store client.
func (f *FakeS3) Endpoint() string {
	return strings.TrimPrefix(f.srv.URL, "http://")
}

// Copies returns the destination keys of copy requests, in order.
func (f *FakeS3) Copies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.copies...)
}

// Deletes returns the keys of delete requests, in order.
func (f *FakeS3) Deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

func (f *FakeS3) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/"+FakeS3Bucket)
	key = strings.TrimPrefix(key, "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		f.writeList(w, r.URL.Query().Get("prefix"))
	case r.Method == http.MethodPut && r.Header.Get("X-Amz-Copy-Source") != "":
		f.copies = append(f.copies, key)
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<CopyObjectResult><ETag>"0"</ETag><LastModified>2024-01-01T00:00:00.000Z</LastModified></CopyObjectResult>`)
	case r.Method == http.MethodDelete:
		f.deletes = append(f.deletes, key)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodHead:
		for _, k := range f.keys {
			if k == key {
				w.Header().Set("Content-Length", "1")
				w.Header().Set("Last-Modified", "Mon, 01 Jan 2024 00:00:00 GMT")
				w.Header().Set("ETag", `"0"`)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *FakeS3) writeList(w http.ResponseWriter, prefix string) {
	type contents struct {
		Key          string `xml:"Key"`
		LastModified string `xml:"LastModified"`
		ETag         string `xml:"ETag"`
		Size         int64  `xml:"Size"`
	}
	type result struct {
		XMLName     xml.Name   `xml:"ListBucketResult"`
		Name        string     `xml:"Name"`
		Prefix      string     `xml:"Prefix"`
		KeyCount    int        `xml:"KeyCount"`
		IsTruncated bool       `xml:"IsTruncated"`
		Contents    []contents `xml:"Contents"`
	}

	res := result{Name: FakeS3Bucket, Prefix: prefix}
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			res.Contents = append(res.Contents, contents{
				Key:          k,
				LastModified: "2024-01-01T00:00:00.000Z",
				ETag:         `"0"`,
				Size:         1,
			})
		}
	}
	res.KeyCount = len(res.Contents)

	w.Header().Set("Content-Type", "application/xml")
	_ = xml.NewEncoder(w).Encode(res)
}
