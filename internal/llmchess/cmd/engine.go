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
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/llmchess/pkg/manager"
)

func Engine() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engine",
		Short: "Manage the chess engines the language models play against",
	}

	cmd.AddCommand(Install())
	cmd.AddCommand(List())
	cmd.AddCommand(Remove())
	return cmd
}

func Install() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install { engine owner/engine git-url }[@version]",
		Short: "Install the given chess engine",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`install builds the given engine from source and installs
			it into llmchess so that runs can use it by name in their
			engine command.

			The formats supported for the engine name are <name>,
			<owner>/<name> (for engines on github), or a full <url> to
			a git repository. The <name> format is only supported for
			the engines llmchess is configured by default for.

			The version may be 'stable' (the default), 'latest', or the
			name of a tag in the engine's repository.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			engines, err := manager.Open(manager.DefaultRoot)
			if err != nil {
				return err
			}

			identifier, version, _ := strings.Cut(args[0], "@")
			engine, installed, err := engines.Install(identifier, version)
			if err != nil {
				return err
			}

			if setMain, _ := cmd.Flags().GetBool("main"); setMain {
				return engines.SetMainVersion(engine.Name, installed.Name)
			}

			return nil
		},
	}

	cmd.Flags().BoolP("main", "m", false, "Make the new version the engine's main version")
	return cmd
}

func List() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the installed engines and their versions",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			engines, err := manager.Open(manager.DefaultRoot)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(engines.Engines))
			for name, info := range engines.Engines {
				if len(info.Versions) > 0 {
					names = append(names, name)
				}
			}

			if len(names) == 0 {
				fmt.Println("\x1b[31mNo Engines Downloaded.\x1b[0m")
				return nil
			}

			sort.Strings(names)
			fmt.Print("\x1b[32mInstalled Engines\x1b[0m:\n\n")
			for _, engine := range names {
				info := engines.Engines[engine]

				versions := ""
				for _, version := range info.Versions {
					if version == info.Current {
						versions = "\x1b[33m" + version + "\x1b[0m " + versions
					} else {
						versions += version + " "
					}
				}

				name := fmt.Sprintf("\x1b[34m%s\x1b[0m:", engine)
				fmt.Printf("- %-20s %s\n", name, versions)
			}

			return nil
		},
	}
}

func Remove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove engine[@version]",
		Short: "Uninstall the given engine, or one of its versions",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			engines, err := manager.Open(manager.DefaultRoot)
			if err != nil {
				return err
			}

			name, version, hasVersion := strings.Cut(args[0], "@")
			name = strings.ToLower(name)

			info, found := engines.Engines[name]
			if !found || len(info.Versions) == 0 {
				fmt.Printf("Engine \x1b[32m%s\x1b[0m is not installed.\n", name)
				return nil
			}

			versions := info.Versions
			if hasVersion {
				versions = []string{version}
			}

			// RemoveVersion modifies the lockfile entry being iterated.
			for _, version := range append([]string(nil), versions...) {
				fmt.Printf("\x1b[32mUninstalling Engine:\x1b[0m %s %s\n", name, version)
				if err := engines.RemoveVersion(name, version); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
