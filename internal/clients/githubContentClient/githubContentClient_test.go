package githubcontentclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	cache "github.com/RobsonDevCode/firmscan/internal/caching"
	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	"github.com/RobsonDevCode/firmscan/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, intervalMs int) (*GithubContentClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &configuration.Config{
		GithubClientSettings: configuration.GithubClientSettings{
			BaseUrl:           server.URL,
			RequestIntervalMs: intervalMs,
		},
	}

	client, err := NewGithubContentClient(config, &cache.Cache{})
	require.NoError(t, err)

	return client, server
}

func TestGetTree_RequestSpacing(t *testing.T) {
	var mu sync.Mutex
	var receivedAt []time.Time

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		receivedAt = append(receivedAt, time.Now())
		mu.Unlock()

		fmt.Fprint(w, `{"sha":"abc","tree":[],"truncated":false}`)
	})

	const interval = 60
	client, _ := newTestClient(t, handler, interval)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetTree("acme", "firmware", "main", context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, receivedAt, 3)
	sort.Slice(receivedAt, func(i, j int) bool { return receivedAt[i].Before(receivedAt[j]) })

	// issuance of consecutive requests must be at least the configured
	// interval apart, small slack for timer resolution
	minGap := time.Duration(interval)*time.Millisecond - 10*time.Millisecond
	assert.GreaterOrEqual(t, receivedAt[1].Sub(receivedAt[0]), minGap)
	assert.GreaterOrEqual(t, receivedAt[2].Sub(receivedAt[1]), minGap)
}

func TestGetTree_RateLimitClassification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(90*time.Second).Unix()))
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newTestClient(t, handler, 1)
	_, err := client.GetTree("acme", "firmware", "main", context.Background())

	var rateLimited *models.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.GreaterOrEqual(t, rateLimited.RetryAfter, time.Second)
	assert.LessOrEqual(t, rateLimited.RetryAfter, 91*time.Second)
}

func TestGetTree_ForbiddenWithoutExhaustedHeaderIsRequestFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newTestClient(t, handler, 1)
	_, err := client.GetTree("acme", "firmware", "main", context.Background())

	var requestFailed *models.RequestFailedError
	require.ErrorAs(t, err, &requestFailed)
	assert.Equal(t, http.StatusForbidden, requestFailed.StatusCode)
}

func TestGetDefaultBranch_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, handler, 1)
	_, err := client.GetDefaultBranch("acme", "gone", context.Background())

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetDefaultBranch_CachesLookups(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"name":"firmware","default_branch":"develop"}`)
	})

	client, _ := newTestClient(t, handler, 1)

	for i := 0; i < 3; i++ {
		branch, err := client.GetDefaultBranch("acme", "firmware", context.Background())
		require.NoError(t, err)
		assert.Equal(t, "develop", branch)
	}

	assert.Equal(t, 1, calls)
}

func TestGetFileContent_DecodesInlineContent(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("#include <FastLED.h>\n"))
	// github wraps base64 payloads across lines
	wrapped := encoded[:10] + "\n" + encoded[10:]

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"path":"src/main.cpp","sha":"abc","content":%q,"encoding":"base64"}`, wrapped)
	})

	client, _ := newTestClient(t, handler, 1)
	content, err := client.GetFileContent("acme", "firmware", "src/main.cpp", context.Background())

	require.NoError(t, err)
	assert.Equal(t, "#include <FastLED.h>\n", content)
}

func TestGetFileContent_ResolvesOversizedFilesThroughBlobApi(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("big file body"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/acme/firmware/contents/src/big.cpp":
			fmt.Fprint(w, `{"path":"src/big.cpp","sha":"blob-sha","size":2097152,"content":"","encoding":"none"}`)
		case r.URL.Path == "/repos/acme/firmware/git/blobs/blob-sha":
			fmt.Fprintf(w, `{"sha":"blob-sha","content":%q,"encoding":"base64"}`, encoded)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	client, _ := newTestClient(t, handler, 1)
	content, err := client.GetFileContent("acme", "firmware", "src/big.cpp", context.Background())

	require.NoError(t, err)
	assert.Equal(t, "big file body", content)
}

func TestGetFileContent_DecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		blobBody string
	}{
		{name: "empty blob", blobBody: `{"sha":"blob-sha","content":"","encoding":"base64"}`},
		{name: "not base64", blobBody: `{"sha":"blob-sha","content":"!!! not base64 !!!","encoding":"base64"}`},
		{name: "unexpected encoding", blobBody: `{"sha":"blob-sha","content":"cGxhaW4=","encoding":"utf-8"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/repos/acme/firmware/git/blobs/blob-sha" {
					fmt.Fprint(w, tt.blobBody)
					return
				}

				fmt.Fprint(w, `{"path":"src/big.cpp","sha":"blob-sha","content":"","encoding":"none"}`)
			})

			client, _ := newTestClient(t, handler, 1)
			_, err := client.GetFileContent("acme", "firmware", "src/big.cpp", context.Background())

			var decodeFailed *models.DecodeFailedError
			require.ErrorAs(t, err, &decodeFailed)
		})
	}
}

func TestGetFileContent_SendsBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprintf(w, `{"path":"f.h","sha":"s","content":%q,"encoding":"base64"}`,
			base64.StdEncoding.EncodeToString([]byte("x")))
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &configuration.Config{
		GithubClientSettings: configuration.GithubClientSettings{
			BaseUrl:           server.URL,
			PAT:               "secret-token",
			RequestIntervalMs: 1,
		},
	}

	client, err := NewGithubContentClient(config, &cache.Cache{})
	require.NoError(t, err)

	_, err = client.GetFileContent("acme", "firmware", "f.h", context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}
