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

package llm

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"laptudirm.com/x/llmchess/pkg/match"
)

// Player is a language model playing chess.
type Player struct {
	id     string
	model  ModelConfig
	client Client

	prompter *Prompter
}

var _ match.Player = (*Player)(nil)

func NewPlayer(id string, model ModelConfig, client Client, prompter *Prompter) *Player {
	return &Player{id: id, model: model, client: client, prompter: prompter}
}

// Name returns the identity of the model as provider/model.
func (player *Player) Name() string {
	return player.id
}

func (player *Player) Propose(ctx context.Context, req match.Request) (string, error) {
	system, user, err := player.prompter.Build(req)
	if err != nil {
		return "", err
	}

	logrus.Tracef("(%s)< %s", player.id, user)

	prompt := Prompt{
		Model:       player.model.Name,
		System:      system,
		User:        user,
		Temperature: DefaultTemperature,
		MaxTokens:   player.model.MaxTokens,
	}

	if player.model.Temperature != nil {
		prompt.Temperature = *player.model.Temperature
	}

	text, err := player.client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	logrus.Debugf("(%s)> %s", player.id, text)
	return strings.TrimSpace(text), nil
}

// Close is a no-op: the clients of a provider outlive its players.
func (player *Player) Close() error {
	return nil
}
