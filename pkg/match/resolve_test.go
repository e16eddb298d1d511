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
	"errors"
	"testing"

	"laptudirm.com/x/llmchess/pkg/match/games"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		proposals []string
		retries   int

		forfeit  bool
		rejected int
		move     string
	}{
		{"legal first try", []string{"e4"}, 3, false, 0, "e2e4"},
		{"uci", []string{"g1f3"}, 3, false, 0, "g1f3"},
		{"three bad then legal", []string{"Ke2", "hello", "e5", "d4"}, 3, false, 3, "d2d4"},
		{"four bad forfeits", []string{"Ke2", "hello", "e5", "0-0", "d4"}, 3, true, 4, ""},
		{"no retries", []string{"x", "e4"}, 0, true, 1, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			oracle := games.GetOracle("chess")
			if err := oracle.Initialize(""); err != nil {
				t.Fatal(err)
			}

			player := &scriptedPlayer{name: "model", moves: test.proposals}
			req := NewRequest(oracle, "", nil)

			resolution, err := Resolve(context.Background(), oracle, player, req, test.retries)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if resolution.Forfeit != test.forfeit {
				t.Errorf("Forfeit = %v, want %v", resolution.Forfeit, test.forfeit)
			}

			if len(resolution.Rejected) != test.rejected {
				t.Errorf("len(Rejected) = %d, want %d", len(resolution.Rejected), test.rejected)
			}

			if !test.forfeit && resolution.Move.UCI != test.move {
				t.Errorf("Move = %s, want %s", resolution.Move.UCI, test.move)
			}
		})
	}
}

func TestResolveFeedsBackRejections(t *testing.T) {
	oracle := games.GetOracle("chess")
	if err := oracle.Initialize(""); err != nil {
		t.Fatal(err)
	}

	player := &scriptedPlayer{name: "model", moves: []string{"Qh5", "e4"}}
	if _, err := Resolve(context.Background(), oracle, player, NewRequest(oracle, "", nil), 3); err != nil {
		t.Fatal(err)
	}

	if len(player.requests) != 2 {
		t.Fatalf("player was asked %d times, want 2", len(player.requests))
	}

	if len(player.requests[0].Rejected) != 0 {
		t.Errorf("first request has rejections %v", player.requests[0].Rejected)
	}

	if got := player.requests[1].Rejected; len(got) != 1 || got[0] != "Qh5" {
		t.Errorf("second request rejections = %v, want [Qh5]", got)
	}

	if len(player.requests[0].Legal) != 20 {
		t.Errorf("request has %d legal moves, want 20", len(player.requests[0].Legal))
	}
}

func TestResolveAdapterError(t *testing.T) {
	oracle := games.GetOracle("chess")
	if err := oracle.Initialize(""); err != nil {
		t.Fatal(err)
	}

	player := &scriptedPlayer{name: "model", moves: []string{"nonsense"}, err: errAdapter}

	resolution, err := Resolve(context.Background(), oracle, player, NewRequest(oracle, "", nil), 3)
	if !errors.Is(err, errAdapter) {
		t.Fatalf("Resolve error = %v, want %v", err, errAdapter)
	}

	if resolution.Forfeit {
		t.Error("adapter error was treated as a forfeit")
	}

	if len(resolution.Rejected) != 1 {
		t.Errorf("len(Rejected) = %d, want 1", len(resolution.Rejected))
	}
}
