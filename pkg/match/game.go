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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// State is the state of a game's state machine.
type State int

const (
	AwaitingWhiteMove State = iota
	AwaitingBlackMove
	Terminated
)

func (state State) String() string {
	switch state {
	case AwaitingWhiteMove:
		return "awaiting white move"
	case AwaitingBlackMove:
		return "awaiting black move"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

func awaiting(side games.Color) State {
	if side == games.White {
		return AwaitingWhiteMove
	}

	return AwaitingBlackMove
}

// Game is a single game between two players. A Game is played only once.
type Game struct {
	ID uuid.UUID

	// Players are indexed by their color.
	Players [2]Player

	Oracle   games.Oracle
	StartFEN string

	Rules Rules

	// Additional PGN tags of the game.
	Tags []games.Tag

	state State
	ready bool
}

// NewGame creates a new game of chess between the given players.
func NewGame(white, black Player, startFEN string, rules Rules) *Game {
	rules.Normalize()
	return &Game{
		ID:       uuid.New(),
		Players:  [2]Player{white, black},
		Oracle:   games.GetOracle("chess"),
		StartFEN: startFEN,
		Rules:    rules,
	}
}

func (game *Game) State() State {
	return game.state
}

// Play plays the game to its end and returns its record. Cancellation of
// ctx is only checked between plies: the calls of the current ply are made
// with a context detached from ctx, so that they can finish.
func (game *Game) Play(ctx context.Context) *Record {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}

	game.Rules.Normalize()

	record := &Record{
		ID:        game.ID,
		White:     game.Players[games.White].Name(),
		Black:     game.Players[games.Black].Name(),
		StartFEN:  game.StartFEN,
		Result:    NoResult,
		StartedAt: time.Now(),
	}

	defer game.finish(record)

	oracle := game.Oracle
	if err := oracle.Initialize(game.StartFEN); err != nil {
		game.fail(record, err)
		return record
	}

	game.ready = true
	game.state = awaiting(oracle.SideToMove())
	plyCtx := context.WithoutCancel(ctx)

	for {
		if result, reason := oracle.GameResult(); result != games.Ongoing {
			game.adjudicate(record, result, reason)
			return record
		}

		if len(record.Moves) >= game.Rules.MaxPlies {
			game.terminate(record, MaxPlies, ReasonMaxPlies)
			if game.Rules.MaxPliesResult == "draw" {
				record.Result = Draw
			}

			return record
		}

		if ctx.Err() != nil {
			game.terminate(record, Cancelled, ReasonCancelled)
			return record
		}

		side := oracle.SideToMove()
		player := game.Players[side]

		req := NewRequest(oracle, game.StartFEN, record.Moves)
		resolution, err := Resolve(plyCtx, oracle, player, req, game.Rules.MaxRetries)

		ply := Ply{
			Number:   len(record.Moves) + 1,
			Color:    side,
			Rejected: resolution.Rejected,
		}

		record.Illegal[side] += len(resolution.Rejected)

		if err != nil {
			record.Unresolved = &ply
			game.fail(record, fmt.Errorf("%s: %w", player.Name(), err))
			return record
		}

		if resolution.Forfeit {
			record.Unresolved = &ply
			game.forfeit(record, side)
			return record
		}

		if err := oracle.MakeMove(resolution.Move); err != nil {
			record.Unresolved = &ply
			game.fail(record, err)
			return record
		}

		ply.SAN, ply.UCI = resolution.Move.SAN, resolution.Move.UCI
		record.Moves = append(record.Moves, ply)

		logrus.WithFields(logrus.Fields{
			"game": game.ID,
			"ply":  ply.Number,
		}).Debugf("%s played %s", player.Name(), ply.SAN)

		game.state = awaiting(oracle.SideToMove())
	}
}

func (game *Game) adjudicate(record *Record, result games.Result, reason string) {
	stm := game.Oracle.SideToMove()

	switch result {
	case games.StmWins:
		record.Result = GameWonBy[stm]
	case games.XtmWins:
		record.Result = GameWonBy[stm.Other()]
	case games.Draw:
		record.Result = Draw
		game.terminate(record, NaturalDraw, strings.ToLower(reason))
		return
	}

	game.terminate(record, Checkmate, strings.ToLower(reason))
}

// forfeit ends the game with a loss for the given side. A forfeit is never
// a draw: with the aborted penalty the game has no result, but the side
// which forfeited is still recorded.
func (game *Game) forfeit(record *Record, side games.Color) {
	game.terminate(record, Forfeit, ReasonIllegalMoveLimit)
	record.ForfeitedBy = &side

	if game.Rules.ForfeitPenalty == "loss" {
		record.Result = GameLostBy[side]
	}
}

func (game *Game) fail(record *Record, err error) {
	game.terminate(record, AdapterFailure, "adapter failure: "+err.Error())
	record.Error = err.Error()
}

func (game *Game) terminate(record *Record, termination Termination, reason string) {
	game.state = Terminated
	record.Termination = termination
	record.Reason = reason
}

func (game *Game) finish(record *Record) {
	record.FinishedAt = time.Now()

	if !game.ready {
		return
	}

	record.FinalFEN = game.Oracle.FEN()

	tags := []games.Tag{
		{Key: "Date", Value: record.StartedAt.Format("2006.01.02")},
		{Key: "White", Value: record.White},
		{Key: "Black", Value: record.Black},
		{Key: "Result", Value: record.Result.String()},
		{Key: "Termination", Value: record.Reason},
	}

	if game.StartFEN != "" {
		tags = append(tags,
			games.Tag{Key: "SetUp", Value: "1"},
			games.Tag{Key: "FEN", Value: game.StartFEN},
		)
	}

	record.PGN = game.Oracle.PGN(append(tags, game.Tags...)...)
}
