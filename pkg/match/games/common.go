package games

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrAmbiguousMove = errors.New("ambiguous move")
)

// GetOracle returns a fresh oracle for the given game name, or nil if no
// such game is known. An empty name selects chess.
func GetOracle(name string) Oracle {
	switch name {
	case "chess", "":
		return &ChessOracle{}
	default:
		return nil
	}
}

// Oracle is the authority on the rules of a game. It owns the board of a
// single game and is never shared between games.
type Oracle interface {
	// Initialize sets up the given position, or the standard starting
	// position if fen is empty.
	Initialize(fen string) error

	SideToMove() Color
	LegalMoves() []Move

	// Parse strictly converts a proposal into one of the legal moves of
	// the current position. It never guesses.
	Parse(proposal string) (Move, error)
	MakeMove(mov Move) error

	FEN() string
	Board() string
	History() string

	GameResult() (Result, string)
	PGN(tags ...Tag) string
}

// Move is a move which has been validated by an Oracle.
type Move struct {
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

type Tag struct {
	Key, Value string
}

type Result uint8

const (
	Ongoing Result = iota
	StmWins
	XtmWins
	Draw
)

// Color is the side of a player, and doubles as an index into arrays
// which hold data for both sides.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opponent of the given side.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "?"
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("games: invalid color %q", text)
	}

	return nil
}
