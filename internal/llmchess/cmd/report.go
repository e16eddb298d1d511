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
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/llmchess/pkg/stats"
	"laptudirm.com/x/llmchess/pkg/tournament"
)

func Report() *cobra.Command {
	return &cobra.Command{
		Use:   "report { run-dir results-file journal-file }",
		Short: "Print the summary of a saved run",
		Long: heredoc.Doc(`report prints the summary of a run from its output
			directory or its results.json. If a run was interrupted
			before its results were saved, the summary is rebuilt
			from the run's journal.`),
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := tournament.LoadResults(args[0])
			if err != nil {
				return err
			}

			stats.Report(os.Stdout, tournament.Summarize(entries))
			return nil
		},
	}
}
