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
	"sync"
)

// scriptedPlayer proposes its moves in order, and returns err once it runs
// out of moves (or a nil error with "resign" if err is unset).
type scriptedPlayer struct {
	name  string
	moves []string
	err   error

	mu       sync.Mutex
	requests []Request
	closed   bool
}

func (player *scriptedPlayer) Name() string {
	return player.name
}

func (player *scriptedPlayer) Propose(ctx context.Context, req Request) (string, error) {
	player.mu.Lock()
	defer player.mu.Unlock()

	player.requests = append(player.requests, req)

	if len(player.moves) == 0 {
		if player.err != nil {
			return "", player.err
		}

		return "resign", nil
	}

	mov := player.moves[0]
	player.moves = player.moves[1:]
	return mov, nil
}

func (player *scriptedPlayer) Close() error {
	player.closed = true
	return nil
}

var errAdapter = errors.New("connection reset")

// shufflePlayer plays knight moves back and forth forever.
type shufflePlayer struct {
	name  string
	moves []string
	index int
}

func (player *shufflePlayer) Name() string { return player.name }
func (player *shufflePlayer) Close() error { return nil }

func (player *shufflePlayer) Propose(ctx context.Context, req Request) (string, error) {
	mov := player.moves[player.index%len(player.moves)]
	player.index++
	return mov, nil
}
