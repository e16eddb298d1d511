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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/llmchess/pkg/llm"
	"laptudirm.com/x/llmchess/pkg/manager"
	"laptudirm.com/x/llmchess/pkg/tournament"
)

func Run() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run config-file",
		Short: "Play the games described by a run configuration",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`run plays every game of the given run configuration and
			saves the results, a summary and the games' pgns into the
			run's output directory.

			API keys are read from the environment, after loading any
			.env file in the working directory. If the engine command
			names an engine installed with 'llmchess engine install',
			the installed binary is used.

			Interrupting a run finishes the games in progress after
			their current move and saves everything played so far.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := tournament.LoadConfig(args[0])
			if err != nil {
				return err
			}

			if output, _ := cmd.Flags().GetString("output"); output != "" {
				config.Output = output
			}

			if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
				config.Concurrency = concurrency
			}

			config.Engine.Cmd = resolveEngine(config.Engine.Cmd)

			registry, conditions, err := plan(config)
			if err != nil {
				return err
			}

			store, err := tournament.NewStore(config.Output, config.Name, time.Now())
			if err != nil {
				return err
			}

			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			players := &tournament.Players{
				Registry: registry,
				Config:   config.Engine.EngineConfig,
			}

			tour := tournament.NewTournament(config, players, conditions)
			tour.Store = store

			logrus.Infof("Playing \x1b[33m%d\x1b[0m games with %d workers", len(conditions), config.Concurrency)
			runErr := tour.Start(ctx)

			saveErr := store.Save(tour.Results.Entries())
			tour.Report()

			if saveErr == nil {
				logrus.Infof("Results saved to \x1b[32m%s\x1b[0m", store.Dir)
			}

			return errors.Join(runErr, saveErr)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Override the output directory")
	cmd.Flags().IntP("concurrency", "j", 0, "Override the number of concurrent games")

	return cmd
}

// plan sets up the providers of a run and lists its games. Configuration
// errors only leave out the affected providers and conditions, unless the
// run is strict.
func plan(config tournament.Config) (*llm.Registry, []tournament.Condition, error) {
	prompter, err := llm.NewPrompter(config.Prompt, config.Game.MaxRetries)
	if err != nil {
		return nil, nil, err
	}

	registry, providerErrs := llm.NewRegistry(config.Providers, prompter)
	conditions, conditionErrs := tournament.Plan(config, registry.Models())

	errs := append(providerErrs, conditionErrs...)
	for _, err := range errs {
		logrus.Warn(err)
	}

	if config.Strict && len(errs) > 0 {
		return nil, nil, fmt.Errorf("run: %d configuration errors in strict mode: %w", len(errs), errors.Join(errs...))
	}

	if len(conditions) == 0 {
		return nil, nil, tournament.ErrNoConditions
	}

	return registry, conditions, nil
}

// resolveEngine maps an engine command to the binary of an installed
// engine if there is one, and returns the command unchanged otherwise.
func resolveEngine(command string) string {
	if strings.ContainsRune(command, filepath.Separator) {
		return command
	}

	engines, err := manager.Open(manager.DefaultRoot)
	if err != nil {
		logrus.Debug(err)
		return command
	}

	binary, err := engines.Lookup(command)
	if err != nil {
		logrus.Debug(err)
		return command
	}

	logrus.WithField("binary", binary).Debug("Using installed engine")
	return binary
}
