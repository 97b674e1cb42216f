package githubcontentclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	cache "github.com/RobsonDevCode/firmscan/internal/caching"
	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	"github.com/RobsonDevCode/firmscan/internal/configuration"
	"github.com/sony/gobreaker"
)

type GithubContentService interface {
	GetDefaultBranch(owner string, repo string, ctx context.Context) (string, error)
	GetTree(owner string, repo string, branch string, ctx context.Context) (models.GithubTreeResponse, error)
	GetFileContent(owner string, repo string, path string, ctx context.Context) (string, error)
}

type GithubContentClient struct {
	client              *http.Client
	cb                  *gobreaker.CircuitBreaker
	baseUrl             *url.URL
	cache               *cache.Cache
	personalAccessToken *string
	minRequestInterval  time.Duration

	// watermark for request spacing, every outbound call reserves the next
	// slot under this lock so concurrent callers stay serialized
	rateMu        sync.Mutex
	nextRequestAt time.Time
}

const contentCacheTtl = 15 * time.Minute

func NewGithubContentClient(config *configuration.Config, cache *cache.Cache) (*GithubContentClient, error) {
	client := &http.Client{
		Timeout: 1 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	cbSettings := gobreaker.Settings{
		Name:        "github-content-client",
		MaxRequests: 5,
		Interval:    3 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("Circuit breaker state changed from %v to %v\n", from, to)
		},
	}

	baseUrl, err := url.Parse(config.GithubClientSettings.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url to a url type, %w", err)
	}
	cb := gobreaker.NewCircuitBreaker(cbSettings)

	return &GithubContentClient{
		client:              client,
		cb:                  cb,
		baseUrl:             baseUrl,
		cache:               cache,
		personalAccessToken: &config.GithubClientSettings.PAT,
		minRequestInterval:  time.Duration(config.GithubClientSettings.RequestIntervalMs) * time.Millisecond,
	}, nil
}

func (c *GithubContentClient) GetDefaultBranch(owner string, repo string, ctx context.Context) (string, error) {
	key := fmt.Sprintf("default-branch:%s/%s", owner, repo)

	branch, err := c.cache.GetOrCreate(key, contentCacheTtl, func() (interface{}, error) {
		requestUrl := fmt.Sprintf("%s/repos/%s/%s", c.baseUrl, owner, repo)

		var repository models.GithubRepository
		if err := c.getJson(requestUrl, &repository, ctx); err != nil {
			return nil, err
		}

		if repository.DefaultBranch == "" {
			return nil, fmt.Errorf("error repository %s/%s has no default branch", owner, repo)
		}

		return repository.DefaultBranch, nil
	})
	if err != nil {
		return "", err
	}

	result, ok := branch.(string)
	if !ok {
		return "", fmt.Errorf("unexpected response type when converting response")
	}

	return result, nil
}

func (c *GithubContentClient) GetTree(owner string, repo string, branch string, ctx context.Context) (models.GithubTreeResponse, error) {
	requestUrl := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseUrl, owner, repo, url.PathEscape(branch))

	var tree models.GithubTreeResponse
	if err := c.getJson(requestUrl, &tree, ctx); err != nil {
		return models.GithubTreeResponse{}, err
	}

	return tree, nil
}

func (c *GithubContentClient) GetFileContent(owner string, repo string, path string, ctx context.Context) (string, error) {
	key := fmt.Sprintf("content:%s/%s/%s", owner, repo, path)

	content, err := c.cache.GetOrCreate(key, contentCacheTtl, func() (interface{}, error) {
		requestUrl := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseUrl, owner, repo, escapePath(path))

		var contentResponse models.GithubContentResponse
		if err := c.getJson(requestUrl, &contentResponse, ctx); err != nil {
			return nil, err
		}

		if contentResponse.Content != "" {
			decoded, err := decodeBase64Content(contentResponse.Content)
			if err != nil {
				return nil, &models.DecodeFailedError{Path: path, Reason: err.Error()}
			}
			return decoded, nil
		}

		// the contents api leaves content empty for files over its inline
		// size limit, resolve those through the blobs api
		return c.getBlobContent(owner, repo, path, contentResponse.Sha, ctx)
	})
	if err != nil {
		return "", err
	}

	result, ok := content.(string)
	if !ok {
		return "", fmt.Errorf("unexpected response type when converting response")
	}

	return result, nil
}

func (c *GithubContentClient) getBlobContent(owner string, repo string, path string, sha string, ctx context.Context) (string, error) {
	if sha == "" {
		return "", &models.DecodeFailedError{Path: path, Reason: "no content and no blob sha to resolve"}
	}

	requestUrl := fmt.Sprintf("%s/repos/%s/%s/git/blobs/%s", c.baseUrl, owner, repo, sha)

	var blob models.GithubBlobResponse
	if err := c.getJson(requestUrl, &blob, ctx); err != nil {
		return "", err
	}

	if blob.Content == "" {
		return "", &models.DecodeFailedError{Path: path, Reason: "blob content is empty"}
	}

	if blob.Encoding != "base64" {
		return "", &models.DecodeFailedError{Path: path, Reason: fmt.Sprintf("unexpected blob encoding %q", blob.Encoding)}
	}

	decoded, err := decodeBase64Content(blob.Content)
	if err != nil {
		return "", &models.DecodeFailedError{Path: path, Reason: err.Error()}
	}

	return decoded, nil
}

func (c *GithubContentClient) getJson(requestUrl string, out interface{}, ctx context.Context) error {
	c.waitForTurn()

	cbResult, err := c.cb.Execute(func() (interface{}, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create http request: %w", err)
		}

		request.Header.Set("Accept", "application/vnd.github+json")
		if c.personalAccessToken != nil && *c.personalAccessToken != "" {
			request.Header.Set("Authorization", "Bearer "+*c.personalAccessToken)
		}

		response, err := c.client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("client response error: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode > 299 {
			return nil, classifyResponse(response, requestUrl)
		}

		body, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}

		return body, nil
	})
	if err != nil {
		return err
	}

	body, ok := cbResult.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response type when converting response")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshalling response from %s: %w", requestUrl, err)
	}

	return nil
}

// waitForTurn reserves the next request slot. The reservation is made under
// the lock so two concurrent callers can never claim the same slot, the
// sleep itself happens outside it.
func (c *GithubContentClient) waitForTurn() {
	c.rateMu.Lock()
	now := time.Now()
	if c.nextRequestAt.Before(now) {
		c.nextRequestAt = now
	}

	wait := c.nextRequestAt.Sub(now)
	c.nextRequestAt = c.nextRequestAt.Add(c.minRequestInterval)
	c.rateMu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
}

func classifyResponse(response *http.Response, requestUrl string) error {
	if response.StatusCode == http.StatusForbidden &&
		response.Header.Get("X-RateLimit-Remaining") == "0" {
		return &models.RateLimitedError{RetryAfter: retryAfterFrom(response.Header)}
	}

	if response.StatusCode == http.StatusNotFound {
		return &models.NotFoundError{Resource: requestUrl}
	}

	return &models.RequestFailedError{StatusCode: response.StatusCode, Url: requestUrl}
}

func retryAfterFrom(header http.Header) time.Duration {
	reset, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return time.Minute
	}

	wait := time.Until(time.Unix(reset, 0))
	if wait < time.Second {
		wait = time.Second
	}

	return wait
}

func decodeBase64Content(content string) (string, error) {
	cleaned := strings.ReplaceAll(content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("content is not valid base64: %w", err)
	}

	return string(decoded), nil
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}

	return strings.Join(parts, "/")
}
