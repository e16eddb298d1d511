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

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI is a client of the chat completions api. Any endpoint compatible
// with it can be used by changing the base url.
type OpenAI struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewOpenAI(config ProviderConfig, apiKey string, client *http.Client) Client {
	return &OpenAI{
		http:    client,
		baseURL: baseURL(config.BaseURL, openAIBaseURL),
		apiKey:  apiKey,
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (client *OpenAI) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body := openAIRequest{
		Model: prompt.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + client.apiKey}

	var res openAIResponse
	if err := postJSON(ctx, client.http, "openai", client.baseURL+"/chat/completions", headers, body, &res); err != nil {
		return "", err
	}

	if len(res.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return res.Choices[0].Message.Content, nil
}

func baseURL(configured, fallback string) string {
	if configured == "" {
		return fallback
	}

	return strings.TrimSuffix(configured, "/")
}
