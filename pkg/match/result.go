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

package match

import (
	"fmt"

	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Result represents the result of a single game from white's perspective.
type Result int

const (
	BlackWins Result = -1
	Draw      Result = 0
	WhiteWins Result = +1

	// NoResult is the result of a game which was stopped before it could
	// be decided on the board.
	NoResult Result = 2
)

// GameLostBy maps the losing side to the game's Result.
var GameLostBy = [2]Result{
	games.White: BlackWins,
	games.Black: WhiteWins,
}

// GameWonBy maps the winning side to the game's Result.
var GameWonBy = [2]Result{
	games.White: WhiteWins,
	games.Black: BlackWins,
}

// String returns a string representation of the given Result.
func (result Result) String() string {
	switch result {
	case WhiteWins:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case BlackWins:
		return "0-1"
	default:
		return "*"
	}
}

// Winner returns the winning side, if there is one.
func (result Result) Winner() (games.Color, bool) {
	switch result {
	case WhiteWins:
		return games.White, true
	case BlackWins:
		return games.Black, true
	default:
		return 0, false
	}
}

func (result Result) MarshalText() ([]byte, error) {
	return []byte(result.String()), nil
}

func (result *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1-0":
		*result = WhiteWins
	case "1/2-1/2":
		*result = Draw
	case "0-1":
		*result = BlackWins
	case "*":
		*result = NoResult
	default:
		return fmt.Errorf("match: invalid result %q", text)
	}

	return nil
}

// Termination classifies how a game ended.
type Termination string

const (
	Checkmate      Termination = "checkmate"
	NaturalDraw    Termination = "draw"
	Forfeit        Termination = "forfeit"
	MaxPlies       Termination = "max-plies"
	AdapterFailure Termination = "adapter-failure"
	Cancelled      Termination = "cancelled"
)

const (
	ReasonIllegalMoveLimit = "illegal move limit exceeded"
	ReasonMaxPlies         = "maximum ply count reached"
	ReasonCancelled        = "run cancelled"
)

// Rules are the adjudication rules which every game of a run is played by.
type Rules struct {
	// Number of rejected proposals a player may make on a single ply.
	// One more rejection forfeits the game.
	MaxRetries int `yaml:"max-retries"`

	MaxPlies       int    `yaml:"max-plies"`
	MaxPliesResult string `yaml:"max-plies-result"` // draw | aborted
	ForfeitPenalty string `yaml:"forfeit-penalty"`  // loss | aborted
}

// DefaultRules returns the rules used when a run doesn't set its own.
func DefaultRules() Rules {
	return Rules{
		MaxRetries:     3,
		MaxPlies:       400,
		MaxPliesResult: "draw",
		ForfeitPenalty: "loss",
	}
}

// Normalize fills in the defaults of any unset fields.
func (rules *Rules) Normalize() {
	defaults := DefaultRules()

	if rules.MaxRetries <= 0 {
		rules.MaxRetries = defaults.MaxRetries
	}

	if rules.MaxPlies <= 0 {
		rules.MaxPlies = defaults.MaxPlies
	}

	if rules.MaxPliesResult == "" {
		rules.MaxPliesResult = defaults.MaxPliesResult
	}

	if rules.ForfeitPenalty == "" {
		rules.ForfeitPenalty = defaults.ForfeitPenalty
	}
}

func (rules *Rules) Validate() error {
	switch rules.MaxPliesResult {
	case "draw", "aborted":
	default:
		return fmt.Errorf("rules: invalid max-plies-result %q", rules.MaxPliesResult)
	}

	switch rules.ForfeitPenalty {
	case "loss", "aborted":
	default:
		return fmt.Errorf("rules: invalid forfeit-penalty %q", rules.ForfeitPenalty)
	}

	return nil
}
