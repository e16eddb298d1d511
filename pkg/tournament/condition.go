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

	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Condition is the configuration a single game is played under.
type Condition struct {
	Number int    `json:"number"`
	Mode   string `json:"mode"`

	White string `json:"white"`
	Black string `json:"black"`

	// The model and the engine's skill level in engine games.
	Model      string      `json:"model,omitempty"`
	ModelColor games.Color `json:"model_color"`
	SkillLevel int         `json:"skill_level"`

	// Repetition is the index of the game among those with the same
	// players and skill level.
	Repetition int `json:"repetition"`
}

// Player returns the identity of the player of the given side.
func (cond *Condition) Player(side games.Color) string {
	if side == games.White {
		return cond.White
	}

	return cond.Black
}

func (cond Condition) String() string {
	if cond.Mode == ModeEngine {
		return fmt.Sprintf("%s vs skill level %d (%s, game %d)", cond.Model, cond.SkillLevel, cond.ModelColor, cond.Repetition+1)
	}

	return fmt.Sprintf("%s vs %s (game %d)", cond.White, cond.Black, cond.Repetition+1)
}

// ConditionError is an invalid condition which can't be played.
type ConditionError struct {
	Condition Condition
	Err       error
}

func (err *ConditionError) Error() string {
	return fmt.Sprintf("condition %s: %v", err.Condition, err.Err)
}

func (err *ConditionError) Unwrap() error {
	return err.Err
}

var ErrNoConditions = errors.New("tournament: no playable conditions")

// EngineName returns the identity of the engine at the given skill level.
func EngineName(name string, level int) string {
	return fmt.Sprintf("%s (level %d)", name, level)
}

// Plan lists every game of the run for the given models: each model against
// each skill level of the engine, and each pair of models against each
// other. Invalid conditions are left out and reported as errors.
func Plan(config Config, models []string) ([]Condition, []error) {
	var conditions []Condition
	var errs []error

	if config.HasMode(ModeEngine) && config.Game.GamesPerSkillLevel > 0 {
		for _, model := range models {
			// the model is player 0, and skill level i is player i+1
			for _, encounter := range Encounters(&Gauntlet{}, len(config.Engine.SkillLevels)+1) {
				level := config.Engine.SkillLevels[encounter[1]-1]

				cond := Condition{Mode: ModeEngine, Model: model, SkillLevel: level}
				if level < match.MinSkillLevel || level > match.MaxSkillLevel {
					errs = append(errs, &ConditionError{
						Condition: cond,
						Err:       fmt.Errorf("skill level %d out of range [%d, %d]", level, match.MinSkillLevel, match.MaxSkillLevel),
					})
					continue
				}

				engine := EngineName(config.Engine.Name, level)
				for rep := 0; rep < config.Game.GamesPerSkillLevel; rep++ {
					cond.Repetition = rep
					cond.ModelColor = modelColor(config.Game.LLMColor, rep)

					cond.White, cond.Black = model, engine
					if cond.ModelColor == games.Black {
						cond.White, cond.Black = engine, model
					}

					conditions = append(conditions, cond)
				}
			}
		}
	}

	if config.HasMode(ModeLLM) && config.Game.LLMvsLLMGames > 0 && len(models) > 1 {
		for _, encounter := range Encounters(&RoundRobin{}, len(models)) {
			p1, p2 := encounter[0], encounter[1]
			if p1 > p2 {
				p1, p2 = p2, p1
			}

			for rep := 0; rep < config.Game.LLMvsLLMGames; rep++ {
				cond := Condition{
					Mode:       ModeLLM,
					White:      models[p1],
					Black:      models[p2],
					Repetition: rep,
				}

				// switch colors every game
				if rep%2 == 1 {
					cond.White, cond.Black = cond.Black, cond.White
				}

				conditions = append(conditions, cond)
			}
		}
	}

	for i := range conditions {
		conditions[i].Number = i + 1
	}

	return conditions, errs
}

func modelColor(setting string, rep int) games.Color {
	switch setting {
	case ColorBlack:
		return games.Black
	case ColorAlternate:
		return games.Color(rep % 2)
	default:
		return games.White
	}
}
