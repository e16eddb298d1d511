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

package tournament

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"laptudirm.com/x/llmchess/pkg/common"
	"laptudirm.com/x/llmchess/pkg/llm"
	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Game modes.
const (
	ModeEngine = "engine"
	ModeLLM    = "llm"
)

// Colors the models can play against the engine.
const (
	ColorWhite     = "white"
	ColorBlack     = "black"
	ColorAlternate = "alternate"
)

type Config struct {
	// Name of the run, used for its output directory.
	Name string `yaml:"name"`

	// Directory under which the run's output is stored.
	Output string `yaml:"output"`

	// Number of games that will be played concurrently.
	Concurrency int `yaml:"concurrency"`

	// Strict makes any invalid condition abort the run, instead of only
	// leaving out the invalid conditions.
	Strict bool `yaml:"strict"`

	Engine EngineConfig `yaml:"engine"`
	Game   GameConfig   `yaml:"game"`

	Prompt    llm.PromptConfig              `yaml:"prompt"`
	Providers map[string]llm.ProviderConfig `yaml:"providers"`
}

type EngineConfig struct {
	match.EngineConfig `yaml:",inline"`

	SkillLevels []int `yaml:"skill-levels"`
}

type GameConfig struct {
	// The game that will be played.
	Oracle string `yaml:"oracle"`

	// Position the games start from. Empty for the standard position.
	StartFEN string `yaml:"start-fen"`

	GamesPerSkillLevel int `yaml:"games-per-skill-level"`
	LLMvsLLMGames      int `yaml:"llm-vs-llm-games"`

	Modes []string `yaml:"modes"`

	// Color of the models against the engine.
	LLMColor string `yaml:"llm-color"`

	match.Rules `yaml:",inline"`
}

// StockfishEnv overrides the configured engine command.
const StockfishEnv = "STOCKFISH_PATH"

// LoadConfig reads the run configuration from the given yaml file. Any
// .env file in the working directory is loaded into the environment first.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses, normalizes and validates a yaml run configuration.
func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cmd := os.Getenv(StockfishEnv); cmd != "" {
		config.Engine.Cmd = cmd
	}

	config.Normalize()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Normalize fills in the defaults of any unset fields.
func (config *Config) Normalize() {
	if config.Name == "" {
		config.Name = "run"
	}

	if config.Output == "" {
		config.Output = common.ResultsDirectory
	}

	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	if config.Engine.Name == "" {
		config.Engine.Name = "Stockfish"
	}

	if config.Engine.Cmd == "" {
		config.Engine.Cmd = "stockfish"
	}

	config.Engine.Normalize()

	if config.Engine.SkillLevels == nil {
		config.Engine.SkillLevels = []int{0, 10, 20}
	}

	if config.Game.Oracle == "" {
		config.Game.Oracle = "chess"
	}

	if config.Game.Modes == nil {
		config.Game.Modes = []string{ModeEngine}
	}

	if config.Game.LLMColor == "" {
		config.Game.LLMColor = ColorWhite
	}

	config.Game.Rules.Normalize()
}

// Validate checks the parts of the configuration every game depends on.
// Errors specific to a condition are reported by Plan instead.
func (config *Config) Validate() error {
	if games.GetOracle(config.Game.Oracle) == nil {
		return fmt.Errorf("config: unknown game %q", config.Game.Oracle)
	}

	if config.Game.StartFEN != "" {
		if err := games.GetOracle(config.Game.Oracle).Initialize(config.Game.StartFEN); err != nil {
			return fmt.Errorf("config: start-fen: %w", err)
		}
	}

	for _, mode := range config.Game.Modes {
		if mode != ModeEngine && mode != ModeLLM {
			return fmt.Errorf("config: invalid mode %q", mode)
		}
	}

	switch config.Game.LLMColor {
	case ColorWhite, ColorBlack, ColorAlternate:
	default:
		return fmt.Errorf("config: invalid llm-color %q", config.Game.LLMColor)
	}

	if config.Game.GamesPerSkillLevel < 0 || config.Game.LLMvsLLMGames < 0 {
		return errors.New("config: negative game count")
	}

	if err := config.Game.Rules.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// HasMode reports whether the given mode is enabled.
func (config *Config) HasMode(mode string) bool {
	for _, enabled := range config.Game.Modes {
		if enabled == mode {
			return true
		}
	}

	return false
}
