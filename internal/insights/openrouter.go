package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// OpenRouter generates insights through OpenRouter's chat completions API.
type OpenRouter struct {
	httpClient       *http.Client
	apiKey           string
	baseURL          string
	model            string
	maxTokens        int
	temperature      float64
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// APIError represents a structured provider error response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// ClientOptions tunes the HTTP behavior of provider-backed generators.
// Zero-valued fields keep the client defaults.
type ClientOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewOpenRouter returns a generator with default timeouts and retry strategy.
func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		httpClient:       &http.Client{Timeout: 60 * time.Second},
		apiKey:           apiKey,
		baseURL:          "https://openrouter.ai/api/v1",
		model:            model,
		maxTokens:        300,
		temperature:      0.3,
		retryMaxAttempts: 3,
		retryBaseDelay:   500 * time.Millisecond,
		retryMaxDelay:    4 * time.Second,
	}
}

// NewOpenRouterWithOptions is NewOpenRouter with the configured timeout and
// retry strategy applied.
func NewOpenRouterWithOptions(apiKey, model string, o ClientOptions) *OpenRouter {
	c := NewOpenRouter(apiKey, model)
	if o.Timeout > 0 {
		c.httpClient = &http.Client{Timeout: o.Timeout}
	}
	if o.MaxAttempts > 0 {
		c.retryMaxAttempts = o.MaxAttempts
	}
	if o.BaseDelay > 0 {
		c.retryBaseDelay = o.BaseDelay
	}
	if o.MaxDelay > 0 {
		c.retryMaxDelay = o.MaxDelay
	}
	return c
}

// NewOpenRouterWithBaseURL allows injecting a custom base URL (used in tests).
func NewOpenRouterWithBaseURL(apiKey, model, baseURL string) *OpenRouter {
	c := NewOpenRouter(apiKey, model)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

func (c *OpenRouter) Generate(ctx context.Context, r Report) ([]string, error) {
	if c.apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is missing")
	}
	if c.model == "" {
		return nil, errors.New("model cannot be empty")
	}
	system, user := buildPrompts(r)
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < c.retryMaxAttempts {
				lastErr = err
				time.Sleep(backoff)
				backoff *= 2
				continue
			}
			return nil, fmt.Errorf("http request: %w", err)
		}

		text, retry, retryAfter, err := c.handleResponse(resp)
		if err == nil {
			return parseBullets(text), nil
		}
		lastErr = err
		if !retry || attempt == c.retryMaxAttempts {
			break
		}
		sleep := withJitter(backoff)
		if retryAfter > 0 {
			// the provider asked for a specific pause
			sleep = retryAfter
		} else if c.retryMaxDelay > 0 && sleep > c.retryMaxDelay {
			sleep = c.retryMaxDelay
		}
		time.Sleep(sleep)
		backoff *= 2
	}
	return nil, lastErr
}

// handleResponse consumes one HTTP response. retry reports whether the failure
// is worth another attempt (429 and 5xx are, everything else is not).
func (c *OpenRouter) handleResponse(resp *http.Response) (text string, retry bool, retryAfter time.Duration, err error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		if v, ok := raw["error"].(map[string]any); ok {
			if msg, ok := v["message"].(string); ok {
				apiErr.Message = msg
			}
			if code, ok := v["code"].(string); ok {
				apiErr.Code = code
			}
		}
		retry = resp.StatusCode == http.StatusTooManyRequests ||
			(resp.StatusCode >= 500 && resp.StatusCode <= 599)
		if retry {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
					retryAfter = time.Duration(secs) * time.Second
				}
			}
		}
		return "", retry, retryAfter, apiErr
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, 0, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, 0, errors.New("no choices in response")
	}
	return out.Choices[0].Message.Content, false, 0, nil
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

// parseRetryAfterSeconds interprets a Retry-After header value as seconds or
// an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}
