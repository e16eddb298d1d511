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
	"fmt"
	"strings"
	"text/template"

	"github.com/MakeNowJust/heredoc/v2"
	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/match/games"
)

var DefaultSystemPrompt = heredoc.Doc(`
	You are a chess player. You will receive the current state of the chess board and need to make the next move.

	Rules:
	1. Respond ONLY with your next move in standard algebraic notation (e.g., "e4", "Nf3", etc.)
	2. Do not explain your move or add any other text
	3. If you make an illegal move {{.Limit}} times, you lose the game
	4. Consider the position carefully before making your move

	Current position and move history will be provided in the user messages.
`)

var DefaultUserPrompt = heredoc.Doc(`
	Current board position (from white's perspective):
	{{.Board}}

	Move history:
	{{if .History}}{{.History}}{{else}}(none){{end}}

	{{.Side}} to move.
	{{- if .ShowLegal}}

	Legal moves: {{join .Legal ", "}}
	{{- end}}
	{{- if .Rejected}}

	These moves were rejected as illegal: {{join .Rejected ", "}}
	{{- end}}

	Make your move:
`)

// Prompter renders the prompts of a game's requests.
type Prompter struct {
	system *template.Template
	user   *template.Template

	legal bool
	limit int
}

// promptData is the data available to the prompt templates.
type promptData struct {
	Board, History, FEN string

	Side string

	ShowLegal bool
	Legal     []string
	Rejected  []string

	// Limit is the number of rejections which lose the game.
	Limit int
}

// NewPrompter compiles the configured prompts. maxRetries is the retry
// limit of the games the prompts are used in.
func NewPrompter(config PromptConfig, maxRetries int) (*Prompter, error) {
	system, user := config.System, config.User
	if system == "" {
		system = DefaultSystemPrompt
	}

	if user == "" {
		user = DefaultUserPrompt
	}

	funcs := template.FuncMap{"join": strings.Join}

	var prompter Prompter
	var err error

	if prompter.system, err = template.New("system").Funcs(funcs).Parse(system); err != nil {
		return nil, fmt.Errorf("prompt: system: %w", err)
	}

	if prompter.user, err = template.New("user").Funcs(funcs).Parse(user); err != nil {
		return nil, fmt.Errorf("prompt: user: %w", err)
	}

	prompter.legal = config.LegalMoves
	prompter.limit = maxRetries + 1
	return &prompter, nil
}

// Build renders the system and user prompts for the given request.
func (prompter *Prompter) Build(req match.Request) (system, user string, err error) {
	side := "White"
	if req.Side == games.Black {
		side = "Black"
	}

	data := promptData{
		Board:     req.Board,
		History:   req.History,
		FEN:       req.FEN,
		Side:      side,
		ShowLegal: prompter.legal,
		Legal:     req.Legal,
		Rejected:  req.Rejected,
		Limit:     prompter.limit,
	}

	var b strings.Builder
	if err := prompter.system.Execute(&b, data); err != nil {
		return "", "", err
	}

	system = strings.TrimSpace(b.String())

	b.Reset()
	if err := prompter.user.Execute(&b, data); err != nil {
		return "", "", err
	}

	return system, strings.TrimSpace(b.String()), nil
}
