package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/config"
	"github.com/samandr77/microservices/condo/pkg/transport"
)

const (
	defaultRetryWaitMax = time.Second * 2
	maxRawMessageLen    = 200
)

// Client talks to the condominium backend API. Idempotent reads go through a
// retrying client (transport errors only); writes are sent exactly once.
type Client struct {
	baseURL      string
	authScheme   string
	securityPath string
	read         *http.Client
	write        *http.Client
}

func NewClient(cfg config.Backend) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = transport.NewRoundTripper(http.DefaultTransport)

	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		authScheme:   cfg.AuthScheme,
		securityPath: cfg.SecurityPath,
		read:         retryClient.StandardClient(),
		write: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport.NewRoundTripper(http.DefaultTransport),
		},
	}
}

func (c *Client) newRequest(ctx context.Context, s entity.Session, method, path string, body io.Reader) (*http.Request, error) {
	if s.Token == "" {
		return nil, entity.ErrNoAuthToken
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.authScheme+" "+s.Token)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do sends the request and returns the body of a 2xx answer. Any other status
// becomes an *entity.RemoteError.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	hc := c.write
	if req.Method == http.MethodGet {
		hc = c.read
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s %s: %w", entity.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response body: %w", entity.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.WarnContext(req.Context(), "backend answered with error",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

		return nil, resp.StatusCode, &entity.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(body),
		}
	}

	return body, resp.StatusCode, nil
}

func (c *Client) doJSON(ctx context.Context, s entity.Session, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		j, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		body = bytes.NewReader(j)
	}

	req, err := c.newRequest(ctx, s, method, path, body)
	if err != nil {
		return err
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, _, err := c.do(req)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	err = json.Unmarshal(respBody, out)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// ExtractMessage pulls a human readable message out of an error body: the
// first of error/detail/message/mensaje, a short raw body, or a generic text.
func ExtractMessage(body []byte) string {
	body = bytes.TrimSpace(body)

	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err == nil {
		for _, key := range []string{"error", "detail", "message", "mensaje"} {
			raw, ok := m[key]
			if !ok {
				continue
			}

			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
	}

	if len(body) != 0 && len(body) <= maxRawMessageLen && !bytes.HasPrefix(body, []byte("<")) {
		return string(body)
	}

	return entity.ErrMsgBackend
}

func isNotFound(err error) bool {
	var re *entity.RemoteError

	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}
