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

	"github.com/sirupsen/logrus"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

// Resolution is the outcome of resolving a single ply.
type Resolution struct {
	// Move is the accepted move. It is only valid if Forfeit is false.
	Move games.Move

	// Rejected holds every refused proposal in order.
	Rejected []string

	// Forfeit reports whether the player ran out of retries.
	Forfeit bool
}

// Resolve asks the player for a move until it proposes a legal one, or
// until more than maxRetries proposals have been rejected, which forfeits
// the ply. Only the player to move is ever asked. Errors from the player
// are returned unchanged and don't count as rejections.
func Resolve(ctx context.Context, oracle games.Oracle, player Player, req Request, maxRetries int) (Resolution, error) {
	var resolution Resolution

	for {
		req.Rejected = append([]string(nil), resolution.Rejected...)

		proposal, err := player.Propose(ctx, req)
		if err != nil {
			return resolution, err
		}

		mov, err := oracle.Parse(proposal)
		if err == nil {
			resolution.Move = mov
			return resolution, nil
		}

		resolution.Rejected = append(resolution.Rejected, proposal)
		logrus.WithFields(logrus.Fields{
			"player":  player.Name(),
			"attempt": len(resolution.Rejected),
		}).Warnf("rejected proposal %q: %v", proposal, err)

		if len(resolution.Rejected) > maxRetries {
			resolution.Forfeit = true
			return resolution, nil
		}
	}
}

// NewRequest builds the request for the side to move in the given game.
func NewRequest(oracle games.Oracle, startFEN string, moves []Ply) Request {
	req := Request{
		StartFEN: startFEN,
		FEN:      oracle.FEN(),
		Board:    oracle.Board(),
		History:  oracle.History(),
		Side:     oracle.SideToMove(),
	}

	req.Moves = make([]string, len(moves))
	for i, ply := range moves {
		req.Moves[i] = ply.UCI
	}

	legal := oracle.LegalMoves()
	req.Legal = make([]string, len(legal))
	for i, mov := range legal {
		req.Legal[i] = mov.SAN
	}

	return req
}
