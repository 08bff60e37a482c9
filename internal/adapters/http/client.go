package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

const defaultUserAgent = "weth-wrapper/1.0"

type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Status)
}

type FetchOptions struct {
	Method            string
	Query             interface{}
	Body              interface{}
	AdditionalHeaders map[string]string
}

type APIClient struct {
	UserAgent  string
	HTTPClient *http.Client
	Log        *logger.ClassLogger
}

// NewAPIClient returns a JSON client; a zero timeout means no client-side limit.
func NewAPIClient(timeout time.Duration) *APIClient {
	apiClient := &APIClient{
		UserAgent: defaultUserAgent,
		HTTPClient: &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
			Timeout:   timeout,
		},
	}
	apiClient.Log = logger.NewLogger(apiClient)
	return apiClient
}

func (c *APIClient) generateHeaders(hasBody bool) map[string]string {
	headers := map[string]string{
		"Accept":        "application/json",
		"User-Agent":    c.UserAgent,
		"Cache-Control": "no-cache",
	}
	if hasBody {
		headers["Content-Type"] = "application/json"
	}
	return headers
}

// Fetch performs the request and returns the raw body of a 2xx response.
// Non-2xx responses come back as *HTTPError.
func (c *APIClient) Fetch(ctx context.Context, endpoint string, opts *FetchOptions) ([]byte, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}

	if opts.Query != nil {
		encoded, err := utils.EncodeURLParams(opts.Query)
		if err != nil {
			return nil, err
		}
		if encoded != "" {
			sep := "?"
			if strings.Contains(endpoint, "?") {
				sep = "&"
			}
			endpoint += sep + encoded
		}
	}

	var reqBody io.Reader
	var bodyCopy []byte
	hasBody := opts.Method != http.MethodGet && opts.Body != nil
	if hasBody {
		jsonBody, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyCopy = jsonBody
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.generateHeaders(hasBody) {
		req.Header.Set(key, value)
	}
	for key, value := range opts.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	if hasBody {
		c.Log.JustLog(fmt.Sprintf("%s %s\nBody:\n%s", opts.Method, endpoint, utils.BeautifyJSON(bodyCopy)))
	} else {
		c.Log.JustLog(fmt.Sprintf("%s %s", opts.Method, endpoint))
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.Log.JustLog(fmt.Sprintf("Response %d Body:\n%s", res.StatusCode, utils.BeautifyJSON(resBodyBytes)))

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return resBodyBytes, nil
	}

	return nil, &HTTPError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       resBodyBytes,
	}
}

func (c *APIClient) FetchJSON(ctx context.Context, endpoint string, opts *FetchOptions, out interface{}) error {
	body, err := c.Fetch(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
