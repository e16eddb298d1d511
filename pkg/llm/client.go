// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

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

// Client is a connection to a model provider's completion api.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is a single completion request.
type Prompt struct {
	Model string

	System string
	User   string

	Temperature float64
	MaxTokens   int
}

var (
	ErrThrottled     = errors.New("llm: request throttled")
	ErrMissingAPIKey = errors.New("llm: missing api key")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// StatusError is returned when a provider replies with a non 2xx status.
type StatusError struct {
	Provider string
	Code     int
	Body     string

	// RetryAfter is the wait requested by the provider, if any.
	RetryAfter time.Duration
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("llm: %s: status %d: %s", err.Provider, err.Code, err.Body)
}

// Is reports throttling responses as ErrThrottled.
func (err *StatusError) Is(target error) bool {
	return target == ErrThrottled && err.Code == http.StatusTooManyRequests
}

// postJSON posts body as json to url and decodes the response into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("llm: %s: %w", provider, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("llm: %s: %w", provider, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{
			Provider:   provider,
			Code:       res.StatusCode,
			Body:       string(bytes.TrimSpace(data)),
			RetryAfter: parseRetryAfter(res.Header.Get("Retry-After")),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("llm: %s: decoding response: %w", provider, err)
	}

	return nil
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if date, err := http.ParseTime(value); err == nil {
		if wait := time.Until(date); wait > 0 {
			return wait
		}
	}

	return 0
}
