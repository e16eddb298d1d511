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
	"fmt"
	"time"
)

// ProviderConfig configures a single model provider and its models.
type ProviderConfig struct {
	Enabled bool `yaml:"enabled"`

	// Kind is the api the provider speaks: openai, anthropic or cohere.
	// It defaults to the name of the provider.
	Kind string `yaml:"kind"`

	APIKeyEnv string        `yaml:"api-key-env"`
	BaseURL   string        `yaml:"base-url"`
	Timeout   time.Duration `yaml:"timeout"`

	RateLimit RateLimitConfig `yaml:"rate-limit"`

	Models []ModelConfig `yaml:"models"`
}

type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests-per-minute"`
	Burst             int           `yaml:"burst"`
	RetryAfter        time.Duration `yaml:"retry-after"`
	MaxRetries        int           `yaml:"max-retries"`
}

type ModelConfig struct {
	Name        string   `yaml:"name"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max-tokens"`
}

// PromptConfig configures the prompts sent to the models. System and User
// are text/template overrides of the default prompts.
type PromptConfig struct {
	LegalMoves bool   `yaml:"legal-moves"`
	System     string `yaml:"system"`
	User       string `yaml:"user"`
}

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 10
	DefaultTimeout     = 30 * time.Second
	DefaultRetryAfter  = 10 * time.Second
	DefaultMaxRetries  = 3
)

// Normalize fills in the defaults of any unset fields. name is the name the
// provider is configured under.
func (config *ProviderConfig) Normalize(name string) {
	if config.Kind == "" {
		config.Kind = name
	}

	if config.APIKeyEnv == "" {
		config.APIKeyEnv = DefaultKeyEnv(config.Kind)
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if config.RateLimit.Burst <= 0 {
		config.RateLimit.Burst = 1
	}

	if config.RateLimit.RetryAfter <= 0 {
		config.RateLimit.RetryAfter = DefaultRetryAfter
	}

	if config.RateLimit.MaxRetries <= 0 {
		config.RateLimit.MaxRetries = DefaultMaxRetries
	}

	for i := range config.Models {
		model := &config.Models[i]
		if model.Temperature == nil {
			temperature := DefaultTemperature
			model.Temperature = &temperature
		}

		if model.MaxTokens <= 0 {
			model.MaxTokens = DefaultMaxTokens
		}
	}
}

// DefaultKeyEnv returns the environment variable which holds the api key
// of the given kind of provider.
func DefaultKeyEnv(kind string) string {
	switch kind {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "cohere":
		return "COHERE_API_KEY"
	default:
		return ""
	}
}

func (config *ProviderConfig) Validate(name string) error {
	if _, found := constructors[config.Kind]; !found {
		return fmt.Errorf("provider %s: unknown kind %q", name, config.Kind)
	}

	if len(config.Models) == 0 {
		return fmt.Errorf("provider %s: no models", name)
	}

	for _, model := range config.Models {
		if model.Name == "" {
			return fmt.Errorf("provider %s: model without a name", name)
		}
	}

	return nil
}
