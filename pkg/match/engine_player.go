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
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinSkillLevel = 0
	MaxSkillLevel = 20
)

// EnginePlayer plays the moves of a UCI engine at a fixed skill level.
type EnginePlayer struct {
	engine *Engine
	name   string

	moveTime time.Duration
	timeout  time.Duration
}

var _ Player = (*EnginePlayer)(nil)

// NewEnginePlayer starts a new instance of the configured engine set to
// the given skill level.
func NewEnginePlayer(ctx context.Context, config EngineConfig, level int) (*EnginePlayer, error) {
	if level < MinSkillLevel || level > MaxSkillLevel {
		return nil, fmt.Errorf("engine: skill level %d out of range [%d, %d]", level, MinSkillLevel, MaxSkillLevel)
	}

	config.Normalize()

	options := map[string]string{}
	for name, value := range config.Options {
		options[name] = value
	}
	options["Skill Level"] = strconv.Itoa(level)

	engine, err := StartEngine(ctx, config, options)
	if err != nil {
		return nil, err
	}

	return newEnginePlayer(engine, fmt.Sprintf("%s (level %d)", config.Name, level), config), nil
}

func newEnginePlayer(engine *Engine, name string, config EngineConfig) *EnginePlayer {
	return &EnginePlayer{
		engine:   engine,
		name:     name,
		moveTime: config.MoveTime,
		timeout:  config.Timeout + config.MoveTime,
	}
}

func (player *EnginePlayer) Name() string {
	return player.name
}

func (player *EnginePlayer) Propose(ctx context.Context, req Request) (string, error) {
	position := "position startpos"
	if req.StartFEN != "" {
		position = "position fen " + req.StartFEN
	}

	if len(req.Moves) > 0 {
		position += " moves " + strings.Join(req.Moves, " ")
	}

	if err := player.engine.Write(position); err != nil {
		return "", err
	}

	if err := player.engine.Write("go movetime %d", player.moveTime.Milliseconds()); err != nil {
		return "", err
	}

	line, err := player.engine.Await(ctx, "^bestmove", player.timeout)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("engine: malformed reply %q", line)
	}

	return fields[1], nil
}

func (player *EnginePlayer) Close() error {
	return player.engine.Close()
}
