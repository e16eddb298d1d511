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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeUCI is an in-process UCI engine which always plays bestmove, and
// stays silent after a go command if mute is set.
type fakeUCI struct {
	bestmove string
	mute     bool

	mu       sync.Mutex
	commands []string
}

func (fake *fakeUCI) start(t *testing.T) *Engine {
	t.Helper()

	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()

	go func() {
		defer stdoutW.Close()

		scanner := bufio.NewScanner(stdinR)
		for scanner.Scan() {
			command := scanner.Text()

			fake.mu.Lock()
			fake.commands = append(fake.commands, command)
			fake.mu.Unlock()

			switch {
			case command == "uci":
				fmt.Fprintln(stdoutW, "id name Fake")
				fmt.Fprintln(stdoutW, "uciok")
			case command == "isready":
				fmt.Fprintln(stdoutW, "readyok")
			case strings.HasPrefix(command, "go"):
				if !fake.mute {
					fmt.Fprintln(stdoutW, "info depth 1 score cp 20")
					fmt.Fprintln(stdoutW, "bestmove", fake.bestmove)
				}
			case command == "quit":
				return
			}
		}
	}()

	engine := newEngine("fake", stdinW, stdoutR)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func (fake *fakeUCI) received(prefix string) []string {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	var lines []string
	for _, command := range fake.commands {
		if strings.HasPrefix(command, prefix) {
			lines = append(lines, command)
		}
	}

	return lines
}

func TestEngineHandshake(t *testing.T) {
	fake := &fakeUCI{bestmove: "e2e4"}
	engine := fake.start(t)

	options := map[string]string{"Skill Level": "5", "Hash": "16"}
	if err := engine.Initialize(context.Background(), options); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := engine.NewGame(context.Background()); err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	got := fake.received("setoption")
	want := []string{
		"setoption name Hash value 16",
		"setoption name Skill Level value 5",
	}

	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("options = %q, want %q", got, want)
	}

	if len(fake.received("ucinewgame")) != 1 {
		t.Error("engine was not told about the new game")
	}
}

func TestEnginePlayerPropose(t *testing.T) {
	fake := &fakeUCI{bestmove: "g1f3"}
	engine := fake.start(t)

	if err := engine.Initialize(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	config := EngineConfig{MoveTime: 50 * time.Millisecond, Timeout: time.Second}
	player := newEnginePlayer(engine, "fake", config)

	req := Request{Moves: []string{"e2e4", "e7e5"}}
	mov, err := player.Propose(context.Background(), req)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	if mov != "g1f3" {
		t.Errorf("Propose = %s, want g1f3", mov)
	}

	if got := fake.received("position"); len(got) != 1 || got[0] != "position startpos moves e2e4 e7e5" {
		t.Errorf("position = %q", got)
	}

	if got := fake.received("go"); len(got) != 1 || got[0] != "go movetime 50" {
		t.Errorf("go = %q", got)
	}

	req = Request{StartFEN: "8/8/8/8/8/8/8/K6k w - - 0 1"}
	if _, err := player.Propose(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if got := fake.received("position fen"); len(got) != 1 || got[0] != "position fen "+req.StartFEN {
		t.Errorf("position = %q", got)
	}
}

func TestEngineTimeout(t *testing.T) {
	fake := &fakeUCI{mute: true}
	engine := fake.start(t)

	config := EngineConfig{MoveTime: 10 * time.Millisecond, Timeout: 50 * time.Millisecond}
	player := newEnginePlayer(engine, "fake", config)

	_, err := player.Propose(context.Background(), Request{})
	if !errors.Is(err, ErrReadTimeout) {
		t.Fatalf("Propose error = %v, want %v", err, ErrReadTimeout)
	}
}

func TestEngineExited(t *testing.T) {
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()

	go func() {
		_, _ = io.Copy(io.Discard, stdinR)
	}()

	engine := newEngine("crashed", stdinW, stdoutR)
	defer engine.Close()

	stdoutW.Close()

	_, err := engine.Await(context.Background(), "^uciok", time.Second)
	if err == nil || errors.Is(err, ErrReadTimeout) {
		t.Fatalf("Await error = %v, want an exit error", err)
	}
}

func TestEngineSkillLevelRange(t *testing.T) {
	for _, level := range []int{-1, 21} {
		if _, err := NewEnginePlayer(context.Background(), EngineConfig{Cmd: "true"}, level); err == nil {
			t.Errorf("skill level %d was accepted", level)
		}
	}
}
