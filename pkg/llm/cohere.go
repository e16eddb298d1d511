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

const cohereBaseURL = "https://api.cohere.com/v2"

// Cohere is a client of the v2 chat api.
type Cohere struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewCohere(config ProviderConfig, apiKey string, client *http.Client) Client {
	return &Cohere{
		http:    client,
		baseURL: baseURL(config.BaseURL, cohereBaseURL),
		apiKey:  apiKey,
	}
}

type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cohereRequest struct {
	Model       string          `json:"model"`
	Messages    []cohereMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type cohereResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

func (client *Cohere) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body := cohereRequest{
		Model: prompt.Model,
		Messages: []cohereMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + client.apiKey}

	var res cohereResponse
	if err := postJSON(ctx, client.http, "cohere", client.baseURL+"/chat", headers, body, &res); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range res.Message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return text.String(), nil
}
