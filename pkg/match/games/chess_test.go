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

package games

import (
	"errors"
	"strings"
	"testing"
)

func newOracle(t *testing.T, fen string) *ChessOracle {
	t.Helper()

	oracle := &ChessOracle{}
	if err := oracle.Initialize(fen); err != nil {
		t.Fatalf("Initialize(%q): %v", fen, err)
	}

	return oracle
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		proposal string
		want     string
		err      error
	}{
		{"san pawn push", "e4", "e2e4", nil},
		{"san knight", "Nf3", "g1f3", nil},
		{"uci", "e2e4", "e2e4", nil},
		{"uci upper case", "G1F3", "g1f3", nil},
		{"surrounding whitespace", "  d4\n", "d2d4", nil},
		{"prose", "I play e4", "", ErrIllegalMove},
		{"move number", "1.e4", "", ErrIllegalMove},
		{"two tokens", "e4 e5", "", ErrIllegalMove},
		{"illegal move", "e5", "", ErrIllegalMove},
		{"empty", "", "", ErrIllegalMove},
		{"wrong case san", "nf3", "", ErrIllegalMove},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			oracle := newOracle(t, "")

			mov, err := oracle.Parse(test.proposal)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("Parse(%q) error = %v, want %v", test.proposal, err, test.err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q): %v", test.proposal, err)
			}

			if mov.UCI != test.want {
				t.Errorf("Parse(%q) = %s, want %s", test.proposal, mov.UCI, test.want)
			}
		})
	}
}

func TestParseCastlingNotation(t *testing.T) {
	oracle := newOracle(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")

	if mov, err := oracle.Parse("O-O"); err != nil || mov.UCI != "e1g1" {
		t.Errorf("Parse(O-O) = %v, %v; want e1g1", mov, err)
	}

	if _, err := oracle.Parse("0-0"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Parse(0-0) error = %v, want %v", err, ErrIllegalMove)
	}
}

func TestParseCheckSuffix(t *testing.T) {
	// Scholar's mate, one move before the mate.
	oracle := newOracle(t, "r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 2 3")

	for _, proposal := range []string{"Qxf7", "Qxf7#", "h5f7"} {
		mov, err := oracle.Parse(proposal)
		if err != nil {
			t.Fatalf("Parse(%q): %v", proposal, err)
		}

		if mov.SAN != "Qxf7#" {
			t.Errorf("Parse(%q).SAN = %s, want Qxf7#", proposal, mov.SAN)
		}
	}
}

func TestCheckmate(t *testing.T) {
	oracle := newOracle(t, "")

	for _, san := range []string{"f3", "e5", "g4", "Qh4#"} {
		mov, err := oracle.Parse(san)
		if err != nil {
			t.Fatalf("Parse(%q): %v", san, err)
		}

		if result, _ := oracle.GameResult(); result != Ongoing {
			t.Fatalf("game over before %s", san)
		}

		if err := oracle.MakeMove(mov); err != nil {
			t.Fatalf("MakeMove(%v): %v", mov, err)
		}
	}

	result, reason := oracle.GameResult()
	if result != XtmWins || reason != "Checkmate" {
		t.Errorf("GameResult() = %d %q, want XtmWins Checkmate", result, reason)
	}

	if got, want := oracle.History(), "1. f3 e5 2. g4 Qh4#"; got != want {
		t.Errorf("History() = %q, want %q", got, want)
	}

	if oracle.SideToMove() != White {
		t.Errorf("SideToMove() = %s, want white", oracle.SideToMove())
	}
}

func TestStalemate(t *testing.T) {
	oracle := newOracle(t, "7k/8/6Q1/8/8/8/8/K7 w - - 0 1")

	mov, err := oracle.Parse("Qf7")
	if err != nil {
		t.Fatal(err)
	}

	if err := oracle.MakeMove(mov); err != nil {
		t.Fatal(err)
	}

	result, reason := oracle.GameResult()
	if result != Draw || reason != "Stalemate" {
		t.Errorf("GameResult() = %d %q, want Draw Stalemate", result, reason)
	}
}

func TestInitializeInvalidFEN(t *testing.T) {
	oracle := &ChessOracle{}
	if err := oracle.Initialize("not a fen"); err == nil {
		t.Error("Initialize accepted an invalid fen")
	}
}

func TestBoardAndHistory(t *testing.T) {
	oracle := newOracle(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")

	board := strings.Split(oracle.Board(), "\n")
	if len(board) != 8 {
		t.Fatalf("Board() has %d ranks, want 8", len(board))
	}

	if board[0] != "r n b q k b n r" || board[4] != ". . . . P . . ." {
		t.Errorf("unexpected board:\n%s", oracle.Board())
	}

	mov, err := oracle.Parse("e5")
	if err != nil {
		t.Fatal(err)
	}

	if err := oracle.MakeMove(mov); err != nil {
		t.Fatal(err)
	}

	if got, want := oracle.History(), "1... e5"; got != want {
		t.Errorf("History() = %q, want %q", got, want)
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("black")); err != nil || c != Black {
		t.Errorf("UnmarshalText(black) = %v, %v", c, err)
	}

	if err := c.UnmarshalText([]byte("green")); err == nil {
		t.Error("UnmarshalText accepted an invalid color")
	}

	if White.Other() != Black || Black.Other() != White {
		t.Error("Other() does not flip the side")
	}
}
