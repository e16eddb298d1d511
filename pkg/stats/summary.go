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

package stats

import (
	"sort"

	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Game modes.
const (
	EngineMode = "engine"
	LLMMode    = "llm"
)

// Game is the part of a game record which the statistics are built from.
type Game struct {
	Mode string

	// Players indexed by color. In engine games, the model plays the side
	// ModelColor and the engine plays at SkillLevel.
	Players    [2]string
	ModelColor games.Color
	SkillLevel int

	Result      match.Result
	Termination match.Termination
	ForfeitedBy *games.Color

	Illegal [2]int
}

// Score is a tally of game results from one player's perspective.
type Score struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	// Aborted games have no result.
	Aborted int `json:"aborted"`

	// Forfeits counts the games lost (or aborted) by running out of
	// retries. They are also counted as losses or aborted games.
	Forfeits int `json:"forfeits"`
}

func (score Score) Games() int {
	return score.Wins + score.Draws + score.Losses + score.Aborted
}

func (score Score) rate(n int) float64 {
	if score.Games() == 0 {
		return 0
	}

	return float64(n) / float64(score.Games())
}

func (score Score) WinRate() float64     { return score.rate(score.Wins) }
func (score Score) DrawRate() float64    { return score.rate(score.Draws) }
func (score Score) LossRate() float64    { return score.rate(score.Losses) }
func (score Score) AbortRate() float64   { return score.rate(score.Aborted) }
func (score Score) ForfeitRate() float64 { return score.rate(score.Forfeits) }

// Elo returns the elo estimate of the score and its error margin.
func (score Score) Elo() (elo, margin float64) {
	lower, elo, upper := Elo(score.Wins, score.Draws, score.Losses)
	return elo, EloError(lower, elo, upper)
}

func (score *Score) add(game *Game, side games.Color) {
	if game.ForfeitedBy != nil && *game.ForfeitedBy == side {
		score.Forfeits++
	}

	winner, decided := game.Result.Winner()
	switch {
	case game.Result == match.Draw:
		score.Draws++
	case !decided:
		score.Aborted++
	case winner == side:
		score.Wins++
	default:
		score.Losses++
	}
}

// LevelStats is the score of a model against one skill level of the engine.
type LevelStats struct {
	Model      string  `json:"model"`
	SkillLevel int     `json:"skill_level"`
	Score      Score   `json:"score"`
	WinRate    float64 `json:"win_rate"`
	DrawRate   float64 `json:"draw_rate"`
	LossRate   float64 `json:"loss_rate"`
	Elo        float64 `json:"elo"`
	EloError   float64 `json:"elo_error"`
}

// ModelStats is the overall record of a model across every game it played.
type ModelStats struct {
	Model string `json:"model"`
	Score Score  `json:"score"`

	WinRate float64 `json:"win_rate"`

	IllegalMoves int     `json:"illegal_moves"`
	MeanIllegal  float64 `json:"mean_illegal_moves"`
	ForfeitRate  float64 `json:"forfeit_rate"`
}

// PairStats is the score of the first of two models against the second.
type PairStats struct {
	Players [2]string `json:"players"`
	Score   Score     `json:"score"`
}

// Summary holds the statistics of a run.
type Summary struct {
	TotalGames int `json:"total_games"`

	// Results of the games against the engine.
	ModelWins  int `json:"llm_wins"`
	EngineWins int `json:"engine_wins"`
	Draws      int `json:"draws"`
	Aborted    int `json:"aborted"`

	Terminations map[match.Termination]int `json:"terminations"`

	Levels   []LevelStats `json:"skill_levels"`
	Models   []ModelStats `json:"models"`
	Pairings []PairStats  `json:"pairings"`
}

type levelKey struct {
	model string
	level int
}

// Summarize computes the statistics of the given games.
func Summarize(gs []Game) Summary {
	summary := Summary{
		TotalGames:   len(gs),
		Terminations: map[match.Termination]int{},
	}

	levels := map[levelKey]*Score{}
	models := map[string]*ModelStats{}
	pairs := map[[2]string]*Score{}

	model := func(name string) *ModelStats {
		if _, found := models[name]; !found {
			models[name] = &ModelStats{Model: name}
		}

		return models[name]
	}

	for i := range gs {
		game := &gs[i]
		summary.Terminations[game.Termination]++

		switch game.Mode {
		case EngineMode:
			side := game.ModelColor
			name := game.Players[side]

			key := levelKey{name, game.SkillLevel}
			if _, found := levels[key]; !found {
				levels[key] = &Score{}
			}
			levels[key].add(game, side)

			stats := model(name)
			stats.Score.add(game, side)
			stats.IllegalMoves += game.Illegal[side]

			winner, decided := game.Result.Winner()
			switch {
			case game.Result == match.Draw:
				summary.Draws++
			case !decided:
				summary.Aborted++
			case winner == side:
				summary.ModelWins++
			default:
				summary.EngineWins++
			}

		case LLMMode:
			for _, side := range []games.Color{games.White, games.Black} {
				stats := model(game.Players[side])
				stats.Score.add(game, side)
				stats.IllegalMoves += game.Illegal[side]
			}

			// pairs are keyed in name order so both colors count together
			first := games.White
			if game.Players[games.Black] < game.Players[games.White] {
				first = games.Black
			}

			key := [2]string{game.Players[first], game.Players[first.Other()]}
			if _, found := pairs[key]; !found {
				pairs[key] = &Score{}
			}
			pairs[key].add(game, first)
		}
	}

	for key, score := range levels {
		elo, margin := score.Elo()
		summary.Levels = append(summary.Levels, LevelStats{
			Model:      key.model,
			SkillLevel: key.level,
			Score:      *score,
			WinRate:    score.WinRate(),
			DrawRate:   score.DrawRate(),
			LossRate:   score.LossRate(),
			Elo:        elo,
			EloError:   margin,
		})
	}

	sort.Slice(summary.Levels, func(i, j int) bool {
		a, b := summary.Levels[i], summary.Levels[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}

		return a.SkillLevel < b.SkillLevel
	})

	for _, stats := range models {
		stats.WinRate = stats.Score.WinRate()
		stats.ForfeitRate = stats.Score.ForfeitRate()
		if n := stats.Score.Games(); n > 0 {
			stats.MeanIllegal = float64(stats.IllegalMoves) / float64(n)
		}

		summary.Models = append(summary.Models, *stats)
	}

	sort.Slice(summary.Models, func(i, j int) bool {
		return summary.Models[i].Model < summary.Models[j].Model
	})

	for players, score := range pairs {
		summary.Pairings = append(summary.Pairings, PairStats{Players: players, Score: *score})
	}

	sort.Slice(summary.Pairings, func(i, j int) bool {
		a, b := summary.Pairings[i].Players, summary.Pairings[j].Players
		if a[0] != b[0] {
			return a[0] < b[0]
		}

		return a[1] < b[1]
	})

	return summary
}
