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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClients(t *testing.T) {
	tests := []struct {
		kind     string
		path     string
		auth     string
		response string
	}{
		{"openai", "/chat/completions", "Authorization", `{"choices":[{"message":{"role":"assistant","content":" e4\n"}}]}`},
		{"anthropic", "/messages", "X-Api-Key", `{"content":[{"type":"text","text":" e4\n"}]}`},
		{"cohere", "/chat", "Authorization", `{"message":{"content":[{"type":"text","text":" e4\n"}]}}`},
	}

	for _, test := range tests {
		t.Run(test.kind, func(t *testing.T) {
			var body map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != test.path {
					t.Errorf("request path = %s, want %s", r.URL.Path, test.path)
				}

				if r.Header.Get(test.auth) == "" {
					t.Errorf("request has no %s header", test.auth)
				}

				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decoding request: %v", err)
				}

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(test.response))
			}))
			defer server.Close()

			client := constructors[test.kind](ProviderConfig{BaseURL: server.URL + "/"}, "key", server.Client())

			text, err := client.Complete(context.Background(), Prompt{
				Model:       "model",
				System:      "system",
				User:        "user",
				Temperature: 0.3,
				MaxTokens:   10,
			})
			if err != nil {
				t.Fatalf("Complete: %v", err)
			}

			if text != " e4\n" {
				t.Errorf("Complete = %q, want %q", text, " e4\n")
			}

			if body["model"] != "model" || body["max_tokens"] != float64(10) {
				t.Errorf("unexpected request body %v", body)
			}
		})
	}
}

func TestClientThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, `{"error":"slow down"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAI(ProviderConfig{BaseURL: server.URL}, "key", server.Client())

	_, err := client.Complete(context.Background(), Prompt{Model: "model"})
	if !errors.Is(err, ErrThrottled) {
		t.Fatalf("Complete error = %v, want %v", err, ErrThrottled)
	}

	var status *StatusError
	if !errors.As(err, &status) || status.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", status)
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCohere(ProviderConfig{BaseURL: server.URL}, "key", server.Client())

	_, err := client.Complete(context.Background(), Prompt{Model: "model"})

	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusInternalServerError {
		t.Fatalf("Complete error = %v, want a 500 status error", err)
	}

	if errors.Is(err, ErrThrottled) {
		t.Error("server error reported as throttling")
	}
}

func TestClientEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAI(ProviderConfig{BaseURL: server.URL}, "key", server.Client())
	if _, err := client.Complete(context.Background(), Prompt{}); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Complete error = %v, want %v", err, ErrEmptyResponse)
	}
}
