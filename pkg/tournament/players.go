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

	"laptudirm.com/x/llmchess/pkg/llm"
	"laptudirm.com/x/llmchess/pkg/match"
)

// PlayerFactory creates the players of a game.
type PlayerFactory interface {
	// Model returns a player for the model with the given identity.
	Model(id string) (match.Player, error)

	// Engine starts a new engine at the given skill level.
	Engine(ctx context.Context, level int) (match.Player, error)
}

// Players creates models from a provider registry and engines from an
// engine configuration.
type Players struct {
	Registry *llm.Registry
	Config   match.EngineConfig
}

var _ PlayerFactory = (*Players)(nil)

func (players *Players) Model(id string) (match.Player, error) {
	player, err := players.Registry.Player(id)
	if err != nil {
		return nil, err
	}

	return player, nil
}

func (players *Players) Engine(ctx context.Context, level int) (match.Player, error) {
	player, err := match.NewEnginePlayer(ctx, players.Config, level)
	if err != nil {
		return nil, err
	}

	return player, nil
}
