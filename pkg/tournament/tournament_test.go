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
	"sync"
	"testing"

	"laptudirm.com/x/llmchess/pkg/match"
)

// firstMovePlayer always plays the first legal move.
type firstMovePlayer struct {
	name string

	onPropose func()
}

func (player *firstMovePlayer) Name() string { return player.name }
func (player *firstMovePlayer) Close() error { return nil }

func (player *firstMovePlayer) Propose(ctx context.Context, req match.Request) (string, error) {
	if player.onPropose != nil {
		player.onPropose()
	}

	return req.Legal[0], nil
}

type fakeFactory struct {
	mu sync.Mutex

	// failLevel makes the first engine started at that level fail.
	failLevel int
	failed    bool

	onPropose func()
	engines   int

	// onStart runs before every engine start, which then fails if the
	// run was cancelled.
	onStart func()
}

func (factory *fakeFactory) Model(id string) (match.Player, error) {
	return &firstMovePlayer{name: id, onPropose: factory.onPropose}, nil
}

func (factory *fakeFactory) Engine(ctx context.Context, level int) (match.Player, error) {
	factory.mu.Lock()
	defer factory.mu.Unlock()

	if factory.onStart != nil {
		factory.onStart()
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("engine: starting: %w", err)
		}
	}

	if level == factory.failLevel && !factory.failed {
		factory.failed = true
		return nil, errors.New("engine crashed on startup")
	}

	factory.engines++
	return &firstMovePlayer{name: EngineName("Fake", level)}, nil
}

func testConfig() Config {
	config := Config{Concurrency: 2}
	config.Engine.Name = "Fake"
	config.Engine.SkillLevels = []int{0, 10, 20}
	config.Game.GamesPerSkillLevel = 3
	config.Game.MaxPlies = 10
	config.Normalize()
	return config
}

func runTournament(t *testing.T, ctx context.Context, config Config, factory PlayerFactory) *Tournament {
	t.Helper()

	conditions, errs := Plan(config, []string{"fake/model"})
	if len(errs) > 0 {
		t.Fatalf("Plan: %v", errs)
	}

	tour := NewTournament(config, factory, conditions)
	tour.Out = io.Discard

	if err := tour.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	return tour
}

func TestTournament(t *testing.T) {
	factory := &fakeFactory{failLevel: -1}
	tour := runTournament(t, context.Background(), testConfig(), factory)

	entries := tour.Results.Entries()
	if len(entries) != 9 {
		t.Fatalf("got %d records, want 9", len(entries))
	}

	seen := map[int]bool{}
	levels := map[int]int{}
	for _, entry := range entries {
		seen[entry.Condition.Number] = true
		levels[entry.Condition.SkillLevel]++

		if entry.Termination != match.MaxPlies || entry.Plies() != 10 {
			t.Errorf("game #%d ended by %s after %d plies", entry.Condition.Number, entry.Termination, entry.Plies())
		}
	}

	if len(seen) != 9 {
		t.Errorf("got %d distinct games, want 9", len(seen))
	}

	for _, level := range []int{0, 10, 20} {
		if levels[level] != 3 {
			t.Errorf("skill level %d has %d games, want 3", level, levels[level])
		}
	}

	if factory.engines != 9 {
		t.Errorf("started %d engines, want one per game", factory.engines)
	}
}

func TestTournamentFailedGame(t *testing.T) {
	factory := &fakeFactory{failLevel: 10}
	tour := runTournament(t, context.Background(), testConfig(), factory)

	entries := tour.Results.Entries()
	if len(entries) != 9 {
		t.Fatalf("got %d records, want 9", len(entries))
	}

	failed := 0
	for _, entry := range entries {
		if entry.Termination == match.AdapterFailure {
			failed++

			if entry.Result != match.NoResult || entry.Error == "" {
				t.Errorf("failed game recorded as %s (%q)", entry.Result, entry.Error)
			}
		}
	}

	if failed != 1 {
		t.Errorf("got %d failed games, want 1", failed)
	}
}

func TestTournamentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := testConfig()
	config.Concurrency = 1

	factory := &fakeFactory{failLevel: -1, onPropose: cancel}
	tour := runTournament(t, ctx, config, factory)

	entries := tour.Results.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d records, want only the game in flight", len(entries))
	}

	if entries[0].Termination != match.Cancelled || entries[0].Plies() != 1 {
		t.Errorf("game in flight ended by %s after %d plies", entries[0].Termination, entries[0].Plies())
	}
}

func TestTournamentCancelledDuringEngineStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := testConfig()
	config.Concurrency = 1

	factory := &fakeFactory{failLevel: -1, onStart: cancel}
	tour := runTournament(t, ctx, config, factory)

	entries := tour.Results.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d records, want only the game in flight", len(entries))
	}

	if entries[0].Termination != match.Cancelled || entries[0].Reason != match.ReasonCancelled {
		t.Errorf("game ended by %s (%q), want cancelled", entries[0].Termination, entries[0].Reason)
	}

	if entries[0].Result != match.NoResult {
		t.Errorf("cancelled game has result %s", entries[0].Result)
	}
}

func TestTournamentStore(t *testing.T) {
	config := testConfig()
	config.Output = t.TempDir()

	conditions, _ := Plan(config, []string{"fake/model"})

	tour := NewTournament(config, &fakeFactory{failLevel: -1}, conditions)
	tour.Out = io.Discard

	store, err := NewStore(config.Output, config.Name, testTime)
	if err != nil {
		t.Fatal(err)
	}
	tour.Store = store

	if err := tour.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// the journal alone holds every game before the results are saved
	journaled, err := LoadResults(store.Dir)
	if err != nil {
		t.Fatalf("LoadResults(journal): %v", err)
	}

	if len(journaled) != 9 {
		t.Errorf("journal has %d games, want 9", len(journaled))
	}

	if err := store.Save(tour.Results.Entries()); err != nil {
		t.Fatal(err)
	}

	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	saved, err := LoadResults(store.Dir)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}

	if len(saved) != 9 || saved[0].Condition.Model != "fake/model" {
		t.Errorf("saved results don't match the run: %d games", len(saved))
	}
}
