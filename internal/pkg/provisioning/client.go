package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// ErrEmptySeed indicates a 2xx answer without an encrypted_seed field.
	ErrEmptySeed = errors.New("provisioning: response has no encrypted_seed")
	// ErrRejected indicates the API refused the request; retrying will not help.
	ErrRejected = errors.New("provisioning: request rejected")
)

const maxResponseBytes = 64 << 10

// Request is the body the provisioning API expects.
type Request struct {
	StudentID     string `json:"student_id"`
	GitHubRepoURL string `json:"github_repo_url"`
	PublicKey     string `json:"public_key"`
}

type response struct {
	EncryptedSeed string `json:"encrypted_seed"`
	Error         string `json:"error"`
	Message       string `json:"message"`
}

type Client struct {
	url         string
	http        *http.Client
	backoffBase time.Duration
	maxRetries  uint64
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithBackoff sets the fibonacci base delay and the number of retries.
func WithBackoff(base time.Duration, retries uint64) Option {
	return func(cl *Client) {
		cl.backoffBase = base
		cl.maxRetries = retries
	}
}

func New(url string, opts ...Option) *Client {
	c := &Client{
		url:         url,
		http:        &http.Client{Timeout: 10 * time.Second},
		backoffBase: 500 * time.Millisecond,
		maxRetries:  4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEncryptedSeed posts req and returns the base64 encrypted seed.
// Network failures, 429 and 5xx answers are retried; other 4xx answers are
// returned as ErrRejected with the API message.
func (c *Client) FetchEncryptedSeed(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	b := retry.NewFibonacci(c.backoffBase)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(c.maxRetries, b)

	var seed string
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		s, retryable, err := c.post(ctx, payload)
		if err != nil {
			if retryable {
				return retry.RetryableError(err)
			}
			return err
		}
		seed = s
		return nil
	})
	if err != nil {
		return "", err
	}

	return seed, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", true, err
	}

	var out response
	_ = json.Unmarshal(body, &out)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", true, fmt.Errorf("provisioning: %s", resp.Status)
	case resp.StatusCode >= http.StatusBadRequest:
		msg := strings.TrimSpace(out.Error + " " + out.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", false, fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, msg)
	}

	seed := strings.TrimSpace(out.EncryptedSeed)
	if seed == "" {
		return "", false, ErrEmptySeed
	}
	return seed, false, nil
}
