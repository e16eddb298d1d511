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
	"strings"

	"github.com/spf13/cobra"

	"laptudirm.com/x/llmchess/pkg/llm"
	"laptudirm.com/x/llmchess/pkg/tournament"
)

func Providers() *cobra.Command {
	return &cobra.Command{
		Use:   "providers config-file",
		Short: "Lists the configured providers and their models",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := tournament.LoadConfig(args[0])
			if err != nil {
				return err
			}

			statuses := llm.Describe(config.Providers)
			if len(statuses) == 0 {
				fmt.Println("\x1b[31mNo Providers Configured.\x1b[0m")
				return nil
			}

			fmt.Print("\x1b[32mConfigured Providers\x1b[0m:\n\n")
			for _, status := range statuses {
				var state string
				switch {
				case !status.Enabled:
					state = "\x1b[90mdisabled\x1b[0m"
				case !status.HasKey:
					state = fmt.Sprintf("\x1b[31mmissing $%s\x1b[0m", status.KeyEnv)
				default:
					state = "\x1b[32mready\x1b[0m"
				}

				name := fmt.Sprintf("\x1b[34m%s\x1b[0m:", status.Name)
				fmt.Printf("- %-20s %-10s %s\n", name, status.Kind, state)
				for _, model := range status.Models {
					fmt.Printf("    %s/%s\n", status.Name, model)
				}
			}

			fmt.Printf("\nSupported kinds: %s\n", strings.Join(llm.Kinds(), ", "))
			return nil
		},
	}
}
