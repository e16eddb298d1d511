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
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EngineConfig struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"args"`

	InitStr string `yaml:"init-string"`

	Options map[string]string `yaml:"options"`

	// MoveTime is the search time of the engine per move.
	MoveTime time.Duration `yaml:"movetime"`

	// Timeout bounds every wait for a reply from the engine.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	DefaultMoveTime      = 100 * time.Millisecond
	DefaultEngineTimeout = 10 * time.Second
)

// Normalize fills in the defaults of any unset fields.
func (config *EngineConfig) Normalize() {
	if config.Name == "" {
		config.Name = "Engine"
	}

	if config.MoveTime <= 0 {
		config.MoveTime = DefaultMoveTime
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultEngineTimeout
	}
}

// StartEngine starts the configured engine process and initializes it for
// a new game. Any options are set before the game starts.
func StartEngine(ctx context.Context, config EngineConfig, options map[string]string) (*Engine, error) {
	config.Normalize()

	process := exec.Command(config.Cmd, strings.Fields(config.Arg)...)
	process.Dir = config.Dir

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := process.Start(); err != nil {
		return nil, fmt.Errorf("engine: starting %s: %w", config.Name, err)
	}

	engine := newEngine(config.Name, stdin, stdout)
	engine.cmd = process
	engine.timeout = config.Timeout

	if config.InitStr != "" {
		if err := engine.Write(config.InitStr); err != nil {
			_ = engine.Close()
			return nil, err
		}
	}

	if err := engine.Initialize(ctx, options); err != nil {
		_ = engine.Close()
		return nil, err
	}

	if err := engine.NewGame(ctx); err != nil {
		_ = engine.Close()
		return nil, err
	}

	return engine, nil
}

func newEngine(name string, w io.Writer, r io.Reader) *Engine {
	engine := &Engine{
		name:    name,
		writer:  bufio.NewWriter(w),
		lines:   make(chan string),
		done:    make(chan struct{}),
		timeout: DefaultEngineTimeout,
	}

	if closer, ok := w.(io.Closer); ok {
		engine.stdin = closer
	}

	go func() {
		defer close(engine.lines)

		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				engine.err = err
				return
			}

			line = strings.Trim(line, " \n\t\r")
			logrus.Debugf("(%s)> %s", engine.name, line)

			select {
			case engine.lines <- line:
			case <-engine.done:
				return
			}
		}
	}()

	return engine
}

// Engine is a connection to a UCI engine.
type Engine struct {
	name string

	cmd   *exec.Cmd
	stdin io.Closer

	writer *bufio.Writer

	lines chan string
	done  chan struct{}
	once  sync.Once

	// err is the error which stopped the reader. It is set before lines
	// is closed.
	err error

	timeout time.Duration
}

// NewGame prepares the engine for a new game of chess.
func (engine *Engine) NewGame(ctx context.Context) error {
	if err := engine.Write("ucinewgame"); err != nil {
		return err
	}

	return engine.Synchronize(ctx)
}

// Initialize initializes the engine on startup and sets the given options.
func (engine *Engine) Initialize(ctx context.Context, options map[string]string) error {
	if err := engine.Write("uci"); err != nil {
		return err
	}

	if _, err := engine.Await(ctx, "^uciok", engine.timeout); err != nil {
		return fmt.Errorf("engine: uci handshake: %w", err)
	}

	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := engine.Write("setoption name %s value %s", name, options[name]); err != nil {
			return err
		}
	}

	return engine.Synchronize(ctx)
}

// Synchronize waits for the engine to complete some time consuming task
// and synchronizes the interface with it.
func (engine *Engine) Synchronize(ctx context.Context) error {
	if err := engine.Write("isready"); err != nil {
		return err
	}

	_, err := engine.Await(ctx, "^readyok", engine.timeout)
	return err
}

// Close asks the engine to quit and releases its resources. The process is
// killed if it doesn't exit in time.
func (engine *Engine) Close() error {
	var err error
	engine.once.Do(func() {
		close(engine.done)
		_ = engine.Write("quit")

		if engine.stdin != nil {
			_ = engine.stdin.Close()
		}

		if engine.cmd == nil || engine.cmd.Process == nil {
			return
		}

		exited := make(chan error, 1)
		go func() { exited <- engine.cmd.Wait() }()

		select {
		case <-exited:
		case <-time.After(engine.timeout):
			err = engine.cmd.Process.Kill()
		}
	})

	return err
}

var ErrReadTimeout = errors.New("engine: read i/o timeout")

// Await is a utility function which waits for a line matching the given
// pattern from the engine, with a fixed timeout.
func (engine *Engine) Await(ctx context.Context, pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-timer.C:
			return "", ErrReadTimeout

		case line, ok := <-engine.lines:
			if !ok {
				// engine closed its output
				if engine.err != nil && !errors.Is(engine.err, io.EOF) {
					return "", fmt.Errorf("engine: %w", engine.err)
				}

				return "", fmt.Errorf("engine: %s exited", engine.name)
			}

			if regex.MatchString(line) {
				return line, nil
			}
		}
	}
}

func (engine *Engine) Write(format string, a ...any) error {
	logrus.Debugf("("+engine.name+")< "+format, a...)

	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}

	return engine.writer.Flush()
}
