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
	"time"

	"github.com/google/uuid"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Ply is a single resolved (or forfeited) half-move of a game.
type Ply struct {
	Number int         `json:"ply"`
	Color  games.Color `json:"color"`

	SAN string `json:"san,omitempty"`
	UCI string `json:"uci,omitempty"`

	// Rejected holds every proposal which was refused on this ply, in the
	// order they were made.
	Rejected []string `json:"rejected,omitempty"`
}

// Record is the complete record of a finished game.
type Record struct {
	ID uuid.UUID `json:"id"`

	White string `json:"white"`
	Black string `json:"black"`

	StartFEN string `json:"start_fen"`
	FinalFEN string `json:"final_fen"`

	Moves []Ply `json:"moves"`

	// Unresolved is the ply on which the game stopped, if it stopped
	// before a move could be made on it.
	Unresolved *Ply `json:"unresolved,omitempty"`

	// Illegal is the number of rejected proposals by each side.
	Illegal [2]int `json:"illegal"`

	Result      Result       `json:"result"`
	Termination Termination  `json:"termination"`
	Reason      string       `json:"reason"`
	ForfeitedBy *games.Color `json:"forfeited_by,omitempty"`
	Error       string       `json:"error,omitempty"`

	PGN string `json:"pgn,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Name returns the name of the player of the given side.
func (record *Record) Name(side games.Color) string {
	if side == games.White {
		return record.White
	}

	return record.Black
}

// Plies returns the number of moves made on the board.
func (record *Record) Plies() int {
	return len(record.Moves)
}

// Duration returns the wall time the game took.
func (record *Record) Duration() time.Duration {
	return record.FinishedAt.Sub(record.StartedAt)
}
