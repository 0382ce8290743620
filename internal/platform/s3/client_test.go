package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gkepool/internal/config"
)

// testClient creates a Client backed by a test HTTP server. The handler
// receives real path-style S3 requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient:   &http.Client{Transport: &http.Transport{}},
	})
	return newClient(client, "audit", "reports")
}

// xmlResponse writes an S3-style XML response.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// memoryBucket is a minimal path-style S3 bucket.
type memoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *memoryBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/audit"), "/")
	switch {
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		body := `<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><Name>audit</Name><IsTruncated>false</IsTruncated>`
		for k := range b.objects {
			body += "<Contents><Key>" + k + "</Key></Contents>"
		}
		xmlResponse(w, http.StatusOK, body+"</ListBucketResult>")
	case r.Method == http.MethodGet:
		data, ok := b.objects[key]
		if !ok {
			xmlResponse(w, http.StatusNotFound, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), config.Reports{
		Bucket:    "audit",
		Prefix:    "gkepool",
		Endpoint:  "https://storage.example.com",
		Region:    "eu-central-1",
		PathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://audit/gkepool/x.json", client.Location("x.json"))
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()

	bucket := &memoryBucket{objects: map[string][]byte{}}
	client := testClient(t, bucket)
	ctx := context.Background()

	require.NoError(t, client.PutObject(ctx, "b.json", "application/json", []byte(`{"n":2}`)))
	require.NoError(t, client.PutObject(ctx, "a.json", "application/json", []byte(`{"n":1}`)))
	assert.Contains(t, bucket.objects, "reports/a.json")

	keys, err := client.ListObjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, keys)

	data, err := client.GetObject(ctx, "a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))

	missing, err := client.GetObject(ctx, "c.json")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClient_PutObjectError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
	}))

	err := client.PutObject(context.Background(), "a.json", "application/json", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object s3://audit/reports/a.json")
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(errors.New("boom")))
	assert.True(t, isNotFoundError(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.True(t, isNotFoundError(&smithy.GenericAPIError{Code: "404"}))
	assert.False(t, isNotFoundError(&smithy.GenericAPIError{Code: "AccessDenied"}))
}
