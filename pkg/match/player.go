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
	"context"

	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Player is anything which can propose moves in a game: a language model
// or a chess engine.
type Player interface {
	Name() string

	// Propose returns the player's next move for the given request as an
	// unvalidated string. Errors are failures of the player itself, never
	// bad moves.
	Propose(ctx context.Context, req Request) (string, error)

	Close() error
}

// Request is the state of the game a player is asked to move in.
type Request struct {
	StartFEN string
	FEN      string
	Board    string
	History  string

	// Moves are the moves made so far in UCI notation.
	Moves []string

	Side games.Color

	// Legal are the legal moves in SAN.
	Legal []string

	// Rejected are the proposals already refused on this ply.
	Rejected []string
}
