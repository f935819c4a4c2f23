package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultPrefix = "@upstash/ratelimit"

// Upstash is a fixed-window counter kept in Upstash Redis and reached through its REST API.
// Each window gets its own key, so a counter never needs resetting; PEXPIRE only garbage-collects it.
type Upstash struct {
	url    string
	token  string
	max    int
	window time.Duration
	prefix string
	client *http.Client
	now    func() time.Time
}

// NewUpstash builds a limiter allowing max requests per window. A nil client uses http.DefaultClient.
func NewUpstash(url, token string, max int, window time.Duration, client *http.Client) *Upstash {
	if client == nil {
		client = http.DefaultClient
	}
	if window < time.Millisecond {
		window = time.Millisecond
	}
	return &Upstash{
		url:    url,
		token:  token,
		max:    max,
		window: window,
		prefix: defaultPrefix,
		client: client,
		now:    time.Now,
	}
}

type pipelineResult struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (u *Upstash) Limit(ctx context.Context, key string) (Decision, error) {
	windowMs := u.window.Milliseconds()
	bucket := u.now().UnixMilli() / windowMs
	redisKey := u.prefix + ":" + key + ":" + strconv.FormatInt(bucket, 10)

	cmds := [][]any{
		{"INCR", redisKey},
		{"PEXPIRE", redisKey, windowMs, "NX"},
	}
	body, err := json.Marshal(cmds)
	if err != nil {
		return Decision{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url+"/pipeline", bytes.NewReader(body))
	if err != nil {
		return Decision{}, err
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("upstash: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Decision{}, fmt.Errorf("upstash: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("upstash: status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var results []pipelineResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return Decision{}, fmt.Errorf("upstash: decode: %w", err)
	}
	if len(results) != len(cmds) {
		return Decision{}, fmt.Errorf("upstash: expected %d results, got %d", len(cmds), len(results))
	}
	for _, r := range results {
		if r.Error != "" {
			return Decision{}, errors.New("upstash: " + r.Error)
		}
	}

	var count int
	if err := json.Unmarshal(results[0].Result, &count); err != nil {
		return Decision{}, fmt.Errorf("upstash: INCR result: %w", err)
	}

	remaining := u.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Success:   count <= u.max,
		Limit:     u.max,
		Remaining: remaining,
		Reset:     time.UnixMilli((bucket + 1) * windowMs),
	}, nil
}
