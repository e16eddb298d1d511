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
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Constructor creates a client of a provider's api.
type Constructor func(config ProviderConfig, apiKey string, client *http.Client) Client

var constructors = map[string]Constructor{
	"openai":    NewOpenAI,
	"anthropic": NewAnthropic,
	"cohere":    NewCohere,
}

// Kinds returns the provider apis which are supported.
func Kinds() []string {
	kinds := make([]string, 0, len(constructors))
	for kind := range constructors {
		kinds = append(kinds, kind)
	}

	sort.Strings(kinds)
	return kinds
}

// ConfigError is a configuration error of a single provider. A provider
// with a configuration error is left out of the run.
type ConfigError struct {
	Provider string
	Err      error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("provider %s: %v", err.Provider, err.Err)
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

type provider struct {
	config ProviderConfig
	client Client
}

// Registry holds the clients of every usable provider, each with its own
// shared rate limiter.
type Registry struct {
	providers map[string]*provider
	names     []string

	prompter *Prompter
}

// NewRegistry creates clients for the enabled providers. Providers which
// can't be used are reported as errors and left out of the registry.
func NewRegistry(configs map[string]ProviderConfig, prompter *Prompter) (*Registry, []error) {
	registry := &Registry{
		providers: map[string]*provider{},
		prompter:  prompter,
	}

	var errs []error
	for _, name := range sortedNames(configs) {
		config := configs[name]
		config.Normalize(name)

		if !config.Enabled {
			logrus.Debugf("provider %s is disabled", name)
			continue
		}

		if err := config.Validate(name); err != nil {
			errs = append(errs, &ConfigError{Provider: name, Err: err})
			continue
		}

		apiKey := os.Getenv(config.APIKeyEnv)
		if config.APIKeyEnv == "" || apiKey == "" {
			errs = append(errs, &ConfigError{
				Provider: name,
				Err:      fmt.Errorf("%w: $%s is not set", ErrMissingAPIKey, config.APIKeyEnv),
			})
			continue
		}

		client := constructors[config.Kind](config, apiKey, &http.Client{})
		registry.Register(name, config, client)
	}

	return registry, errs
}

// Register adds a provider with the given client to the registry. The
// client is wrapped in a new rate limiter for the provider.
func (registry *Registry) Register(name string, config ProviderConfig, client Client) {
	config.Normalize(name)

	if _, found := registry.providers[name]; !found {
		registry.names = append(registry.names, name)
		sort.Strings(registry.names)
	}

	limiter := NewLimiter(name, config.RateLimit)
	registry.providers[name] = &provider{
		config: config,
		client: limiter.Limit(client, config.Timeout),
	}
}

// Models returns the identities of every model in the registry, as
// provider/model.
func (registry *Registry) Models() []string {
	var models []string
	for _, name := range registry.names {
		for _, model := range registry.providers[name].config.Models {
			models = append(models, name+"/"+model.Name)
		}
	}

	return models
}

var ErrUnknownModel = errors.New("llm: unknown model")

// Player returns a new player for the model with the given identity.
func (registry *Registry) Player(id string) (*Player, error) {
	name, model, found := strings.Cut(id, "/")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}

	provider, found := registry.providers[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}

	for _, config := range provider.config.Models {
		if config.Name == model {
			return NewPlayer(id, config, provider.client, registry.prompter), nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
}

// Status describes a configured provider.
type Status struct {
	Name    string
	Kind    string
	Enabled bool
	KeyEnv  string
	HasKey  bool
	Models  []string
}

// Describe returns the status of every configured provider.
func Describe(configs map[string]ProviderConfig) []Status {
	statuses := make([]Status, 0, len(configs))
	for _, name := range sortedNames(configs) {
		config := configs[name]
		config.Normalize(name)

		status := Status{
			Name:    name,
			Kind:    config.Kind,
			Enabled: config.Enabled,
			KeyEnv:  config.APIKeyEnv,
			HasKey:  config.APIKeyEnv != "" && os.Getenv(config.APIKeyEnv) != "",
		}

		for _, model := range config.Models {
			status.Models = append(status.Models, model.Name)
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func sortedNames(configs map[string]ProviderConfig) []string {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
