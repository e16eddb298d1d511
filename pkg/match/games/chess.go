package games

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// ChessOracle implements Oracle for standard chess.
type ChessOracle struct {
	game  *chess.Game
	moves []*chess.Move
	legal []Move

	// The SAN history of the game, along with the move number and side
	// of the first move, which depend on the starting position.
	history   []string
	firstMove int
	firstSide Color
}

func (oracle *ChessOracle) Initialize(fenstr string) error {
	var options []func(*chess.Game)
	if fenstr != "" {
		fen, err := chess.FEN(fenstr)
		if err != nil {
			return fmt.Errorf("chess: invalid fen %q: %w", fenstr, err)
		}

		options = append(options, fen)
	}

	oracle.game = chess.NewGame(options...)
	oracle.history = nil

	oracle.firstSide = oracle.SideToMove()
	oracle.firstMove = 1
	if fields := strings.Fields(oracle.FEN()); len(fields) == 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			oracle.firstMove = n
		}
	}

	oracle.generate()
	return nil
}

func (oracle *ChessOracle) SideToMove() Color {
	if oracle.game.Position().Turn() == chess.Black {
		return Black
	}

	return White
}

func (oracle *ChessOracle) LegalMoves() []Move {
	return oracle.legal
}

func (oracle *ChessOracle) Parse(proposal string) (Move, error) {
	proposal = strings.TrimSpace(proposal)
	if proposal == "" || strings.ContainsAny(proposal, " \t\r\n") {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, proposal)
	}

	san, uci := -1, -1
	for i, mov := range oracle.legal {
		if stripCheck(mov.SAN) == stripCheck(proposal) {
			san = i
		}

		if strings.EqualFold(mov.UCI, proposal) {
			uci = i
		}
	}

	switch {
	case san >= 0 && uci >= 0 && san != uci:
		// the two readings disagree, so the proposal can't be trusted
		return Move{}, fmt.Errorf("%w: %q", ErrAmbiguousMove, proposal)
	case san >= 0:
		return oracle.legal[san], nil
	case uci >= 0:
		return oracle.legal[uci], nil
	}

	return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, proposal)
}

func (oracle *ChessOracle) MakeMove(mov Move) error {
	for i, legal := range oracle.legal {
		if legal.UCI != mov.UCI {
			continue
		}

		if err := oracle.game.Move(oracle.moves[i]); err != nil {
			return err
		}

		oracle.history = append(oracle.history, legal.SAN)
		oracle.generate()
		return nil
	}

	return fmt.Errorf("%w: %s", ErrIllegalMove, mov.UCI)
}

func (oracle *ChessOracle) FEN() string {
	return oracle.game.Position().String()
}

// Board returns the board from white's perspective, with one rank per line,
// upper-case letters for white pieces and dots for empty squares.
func (oracle *ChessOracle) Board() string {
	placement := strings.Fields(oracle.FEN())[0]

	ranks := strings.Split(placement, "/")
	lines := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		squares := make([]string, 0, 8)
		for _, char := range rank {
			if char >= '1' && char <= '8' {
				for n := 0; n < int(char-'0'); n++ {
					squares = append(squares, ".")
				}

				continue
			}

			squares = append(squares, string(char))
		}

		lines = append(lines, strings.Join(squares, " "))
	}

	return strings.Join(lines, "\n")
}

// History returns the moves played so far in numbered SAN, like the
// movetext of a PGN file: "1. e4 e5 2. Nf3".
func (oracle *ChessOracle) History() string {
	var b strings.Builder

	number, side := oracle.firstMove, oracle.firstSide
	for i, san := range oracle.history {
		if i > 0 {
			b.WriteByte(' ')
		}

		switch {
		case side == White:
			fmt.Fprintf(&b, "%d. ", number)
		case i == 0:
			fmt.Fprintf(&b, "%d... ", number)
		}

		b.WriteString(san)

		if side == Black {
			number++
		}
		side = side.Other()
	}

	return b.String()
}

func (oracle *ChessOracle) GameResult() (Result, string) {
	game := oracle.game

	// Threefold repetitions and the 50-move rule are only claimable, so
	// claim them on behalf of the players.
	if game.Outcome() == chess.NoOutcome {
		for _, method := range game.EligibleDraws() {
			if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
				_ = game.Draw(method)
				break
			}
		}
	}

	switch game.Outcome() {
	case chess.NoOutcome:
		return Ongoing, ""
	case chess.Draw:
		return Draw, drawReason(game.Method())
	}

	winner := White
	if game.Outcome() == chess.BlackWon {
		winner = Black
	}

	if winner == oracle.SideToMove() {
		return StmWins, "Checkmate"
	}

	return XtmWins, "Checkmate"
}

func (oracle *ChessOracle) PGN(tags ...Tag) string {
	for _, tag := range tags {
		oracle.game.AddTagPair(tag.Key, tag.Value)
	}

	return oracle.game.String()
}

func (oracle *ChessOracle) generate() {
	position := oracle.game.Position()

	oracle.moves = oracle.game.ValidMoves()
	oracle.legal = make([]Move, len(oracle.moves))
	for i, mov := range oracle.moves {
		oracle.legal[i] = Move{
			UCI: chess.UCINotation{}.Encode(position, mov),
			SAN: chess.AlgebraicNotation{}.Encode(position, mov),
		}
	}
}

// stripCheck removes a single trailing check or mate marker so that
// "Qxf7" and "Qxf7#" are treated as the same move.
func stripCheck(san string) string {
	if strings.HasSuffix(san, "+") || strings.HasSuffix(san, "#") {
		return san[:len(san)-1]
	}

	return san
}

func drawReason(method chess.Method) string {
	switch method {
	case chess.Stalemate:
		return "Stalemate"
	case chess.InsufficientMaterial:
		return "Insufficient Material"
	case chess.ThreefoldRepetition:
		return "Threefold Repetition"
	case chess.FivefoldRepetition:
		return "Fivefold Repetition"
	case chess.FiftyMoveRule:
		return "50-move Rule"
	case chess.SeventyFiveMoveRule:
		return "75-move Rule"
	default:
		return "Draw"
	}
}
