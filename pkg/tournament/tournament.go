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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/match/games"
	"laptudirm.com/x/llmchess/pkg/stats"
)

// ReportInterval is the number of games between progress reports.
const ReportInterval = 5

func NewTournament(config Config, players PlayerFactory, conditions []Condition) *Tournament {
	return &Tournament{
		Config:     config,
		Players:    players,
		Conditions: conditions,
		Results:    &ResultSet{},
		Out:        os.Stdout,
	}
}

// Tournament plays the games of a run concurrently and collects their
// records.
type Tournament struct {
	Config Config

	Players    PlayerFactory
	Conditions []Condition

	Results *ResultSet

	// Store journals every finished game if it is set.
	Store *Store

	// Out receives the progress reports.
	Out io.Writer
}

// Start plays every condition of the tournament and returns once all the
// games have finished. If ctx is cancelled, no new games are started and
// the games in flight stop after their current ply; their records are
// still collected. The returned error only reports failures to persist
// the results.
func (tour *Tournament) Start(ctx context.Context) error {
	conditions := make(chan Condition)
	results := make(chan Entry)

	var workers errgroup.Group

	workers.Go(func() error {
		defer close(conditions)

		for _, cond := range tour.Conditions {
			select {
			case conditions <- cond:
			case <-ctx.Done():
				logrus.Warnf("run cancelled, skipping the remaining games")
				return nil
			}
		}

		return nil
	})

	for i := 0; i < tour.Config.Concurrency; i++ {
		workers.Go(func() error {
			for cond := range conditions {
				if ctx.Err() != nil {
					continue
				}

				results <- tour.RunGame(ctx, cond)
			}

			return nil
		})
	}

	go func() {
		_ = workers.Wait()
		close(results)
	}()

	return tour.ResultHandler(results)
}

// RunGame plays a single game under the given condition.
func (tour *Tournament) RunGame(ctx context.Context, cond Condition) Entry {
	logrus.Infof(
		"\x1b[33mStarting\x1b[0m Game #%d: %s vs %s\n",
		cond.Number, cond.White, cond.Black,
	)

	white, black, err := tour.players(ctx, cond)
	if err != nil {
		return Entry{Condition: cond, Record: failedRecord(cond, err)}
	}

	defer white.Close()
	defer black.Close()

	game := match.NewGame(white, black, tour.Config.Game.StartFEN, tour.Config.Game.Rules)
	game.Oracle = games.GetOracle(tour.Config.Game.Oracle)
	game.Tags = []games.Tag{
		{Key: "Event", Value: tour.Config.Name},
		{Key: "Round", Value: strconv.Itoa(cond.Number)},
	}

	record := game.Play(ctx)
	return Entry{Condition: cond, Record: *record}
}

func (tour *Tournament) players(ctx context.Context, cond Condition) (white, black match.Player, err error) {
	var players [2]match.Player
	for _, side := range []games.Color{games.White, games.Black} {
		id := cond.Player(side)

		var player match.Player
		if cond.Mode == ModeEngine && id != cond.Model {
			player, err = tour.Players.Engine(ctx, cond.SkillLevel)
		} else {
			player, err = tour.Players.Model(id)
		}

		if err != nil {
			if players[games.White] != nil {
				_ = players[games.White].Close()
			}

			return nil, nil, fmt.Errorf("%s: %w", id, err)
		}

		players[side] = player
	}

	return players[games.White], players[games.Black], nil
}

// failedRecord is the record of a game which couldn't be started. A game
// whose players were interrupted by the run's cancellation is cancelled,
// not failed.
func failedRecord(cond Condition, err error) match.Record {
	now := time.Now()
	record := match.Record{
		ID:          uuid.New(),
		White:       cond.White,
		Black:       cond.Black,
		Result:      match.NoResult,
		Termination: match.AdapterFailure,
		Reason:      "adapter failure: " + err.Error(),
		Error:       err.Error(),
		StartedAt:   now,
		FinishedAt:  now,
	}

	if errors.Is(err, context.Canceled) {
		record.Termination = match.Cancelled
		record.Reason = match.ReasonCancelled
	}

	return record
}

// ResultHandler is the only writer of the tournament's results. It journals
// and logs every finished game and reports the standings periodically.
func (tour *Tournament) ResultHandler(results <-chan Entry) error {
	var errs []error

	for entry := range results {
		tour.Results.Add(entry)

		if tour.Store != nil {
			if err := tour.Store.Append(entry); err != nil {
				logrus.Errorf("journaling game #%d: %v", entry.Condition.Number, err)
				errs = append(errs, err)
			}
		}

		logger := logrus.WithFields(logrus.Fields{
			"game":    entry.ID,
			"plies":   entry.Plies(),
			"illegal": fmt.Sprintf("%d/%d", entry.Illegal[games.White], entry.Illegal[games.Black]),
		})

		if entry.Termination == match.AdapterFailure {
			logger.Warnf(
				"\x1b[31mFailed\x1b[0m Game #%d: %s vs %s: %s\n",
				entry.Condition.Number, entry.White, entry.Black, entry.Error,
			)
		} else {
			logger.Infof(
				"\x1b[32mFinished\x1b[0m Game #%d: %s vs %s: %s %s\n",
				entry.Condition.Number, entry.White, entry.Black, entry.Result, entry,
			)
		}

		if n := tour.Results.Len(); n%ReportInterval == 0 && n < len(tour.Conditions) {
			tour.Report()
		}
	}

	return errors.Join(errs...)
}

// Report prints the standings of the games so far.
func (tour *Tournament) Report() {
	stats.Report(tour.Out, tour.Results.Summary())
}
