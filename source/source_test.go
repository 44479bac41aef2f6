package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/etnz/exposure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/holdings.csv":
			w.Header().Set("Content-Type", "application/octet-stream")
			io.WriteString(w, "Name,Weight\nAlpha,60\nBeta,40\n")
		case "/api/holdings":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"data":{"rows":[{"name":"Alpha","weight":0.6}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client(), JSONPath: "$.data.rows"}

	raw, err := f.Fetch(context.Background(), srv.URL+"/holdings.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Weight"}, raw.Columns)
	assert.Len(t, raw.Rows, 2)

	raw, err = f.Fetch(context.Background(), srv.URL+"/api/holdings")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "weight"}, raw.Columns)
	assert.Equal(t, [][]string{{"Alpha", "0.6"}}, raw.Rows)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.csv")
	assert.ErrorIs(t, err, exposure.ErrSourceRead)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: NewHTTPClient(50*time.Millisecond, false)}
	_, err := f.Fetch(context.Background(), srv.URL+"/slow.csv")
	assert.ErrorIs(t, err, exposure.ErrSourceRead)
}

type fakeS3 struct {
	objects map[string]string
}

func (f fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(body)),
		ContentType: aws.String("text/csv"),
	}, nil
}

func TestFetch_S3(t *testing.T) {
	f := &Fetcher{S3: fakeS3{objects: map[string]string{
		"funds/2025/holdings": "Holding,% of fund\nAlpha,1\n",
	}}}

	raw, err := f.Fetch(context.Background(), "s3://funds/2025/holdings")
	require.NoError(t, err)
	assert.Equal(t, "s3://funds/2025/holdings", raw.Source)
	assert.Len(t, raw.Rows, 1)

	_, err = f.Fetch(context.Background(), "s3://funds/other")
	assert.ErrorIs(t, err, exposure.ErrSourceRead)
	_, err = f.Fetch(context.Background(), "s3://funds")
	assert.ErrorIs(t, err, exposure.ErrSourceRead)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://my-bucket/path/to/holdings.csv")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/holdings.csv", key)

	for _, bad := range []string{"s3://bucket", "s3:///key", "https://bucket/key"} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fund.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Weight\nAlpha,100\n"), 0644))

	raw, err := (&Fetcher{}).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 1)

	_, err = (&Fetcher{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, exposure.ErrSourceRead)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "A.CSV", "notes.txt", "portfolio_summary.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.csv"), 0755))

	files, err := Discover(dir, filepath.Join(dir, "portfolio_summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.CSV", "b.csv"}, files)

	// an output written elsewhere does not hide an input of the same name
	files, err = Discover(dir, filepath.Join(t.TempDir(), "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.CSV", "b.csv", "portfolio_summary.csv"}, files)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	files, err = Discover(".", "portfolio_summary.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"A.CSV", "b.csv"}, files)

	_, err = Discover(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)
}

func TestReadCSVFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("Name,Weight\nAlpha,100\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("Name,Weight\n\"unterminated\n"), 0644))

	var log exposure.SkipLog
	tables := ReadCSVFiles(dir, []string{"a.csv", "b.csv", "gone.csv"}, &log)
	require.Len(t, tables, 1)
	assert.Equal(t, "a.csv", tables[0].Source)
	require.Len(t, log, 2)
	assert.Equal(t, "b.csv", log[0].Source)
	assert.Equal(t, "gone.csv", log[1].Source)
	assert.Equal(t, "read failure", log[1].Reason())
}

func TestDiskCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, "Name,Weight\nAlpha,100\n")
	}))
	defer srv.Close()

	day := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	client := &http.Client{Transport: &diskCache{base: http.DefaultTransport, dir: t.TempDir(), now: func() time.Time { return day }}}

	for n := 0; n < 2; n++ {
		body, _, err := wget(context.Background(), client, srv.URL+"/holdings.csv")
		require.NoError(t, err)
		assert.Contains(t, string(body), "Alpha")
	}
	assert.Equal(t, 1, hits)

	day = day.AddDate(0, 0, 1)
	_, _, err := wget(context.Background(), client, srv.URL+"/holdings.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}
