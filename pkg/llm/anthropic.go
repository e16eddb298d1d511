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
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
)

// Anthropic is a client of the messages api.
type Anthropic struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewAnthropic(config ProviderConfig, apiKey string, client *http.Client) Client {
	return &Anthropic{
		http:    client,
		baseURL: baseURL(config.BaseURL, anthropicBaseURL),
		apiKey:  apiKey,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (client *Anthropic) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body := anthropicRequest{
		Model:       prompt.Model,
		System:      prompt.System,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt.User}},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	}

	headers := map[string]string{
		"x-api-key":         client.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var res anthropicResponse
	if err := postJSON(ctx, client.http, "anthropic", client.baseURL+"/messages", headers, body, &res); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range res.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return text.String(), nil
}
