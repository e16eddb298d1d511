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

package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"laptudirm.com/x/llmchess/pkg/match"
)

// Report writes the summary as a set of text tables.
func Report(w io.Writer, summary Summary) {
	fmt.Fprintf(w,
		"Games: %d   LLM wins: %d   Engine wins: %d   Draws: %d   Aborted: %d\n",
		summary.TotalGames, summary.ModelWins, summary.EngineWins, summary.Draws, summary.Aborted,
	)

	if len(summary.Terminations) > 0 {
		terminations := make([]string, 0, len(summary.Terminations))
		for termination := range summary.Terminations {
			terminations = append(terminations, string(termination))
		}
		sort.Strings(terminations)

		parts := make([]string, len(terminations))
		for i, termination := range terminations {
			parts[i] = fmt.Sprintf("%s %d", termination, summary.Terminations[match.Termination(termination)])
		}

		fmt.Fprintf(w, "Terminations: %s\n", strings.Join(parts, ", "))
	}

	if len(summary.Levels) > 0 {
		rows := make([]string, len(summary.Levels))
		for i, level := range summary.Levels {
			rows[i] = fmt.Sprintf(
				"%2d. %-28s %5d   %4d %4d %4d %4d   %5.1f%% %5.1f%% %5.1f%%   %+5.0f %4.0f",
				i+1, level.Model, level.SkillLevel,
				level.Score.Wins, level.Score.Draws, level.Score.Losses, level.Score.Aborted,
				100*level.WinRate, 100*level.DrawRate, 100*level.LossRate,
				level.Elo, level.EloError,
			)
		}

		box(w, fmt.Sprintf(
			"    %-28s %5s   %4s %4s %4s %4s   %6s %6s %6s   %5s %4s",
			"Model", "Level", "Wins", "Draw", "Loss", "Abrt", "Win", "Draw", "Loss", "Elo", "Err",
		), rows)
	}

	if len(summary.Models) > 0 {
		rows := make([]string, len(summary.Models))
		for i, model := range summary.Models {
			rows[i] = fmt.Sprintf(
				"%2d. %-28s %5d   %5.1f%%   %7d %7.2f   %5.1f%%",
				i+1, model.Model, model.Score.Games(),
				100*model.WinRate,
				model.IllegalMoves, model.MeanIllegal,
				100*model.ForfeitRate,
			)
		}

		box(w, fmt.Sprintf(
			"    %-28s %5s   %6s   %7s %7s   %6s",
			"Model", "Games", "Win", "Illegal", "Mean", "Forf",
		), rows)
	}

	if len(summary.Pairings) > 0 {
		rows := make([]string, len(summary.Pairings))
		for i, pair := range summary.Pairings {
			rows[i] = fmt.Sprintf(
				"%2d. %-24s vs %-24s   %4d %4d %4d %4d",
				i+1, pair.Players[0], pair.Players[1],
				pair.Score.Wins, pair.Score.Draws, pair.Score.Losses, pair.Score.Aborted,
			)
		}

		box(w, fmt.Sprintf(
			"    %-24s    %-24s   %4s %4s %4s %4s",
			"Model", "Opponent", "Wins", "Draw", "Loss", "Abrt",
		), rows)
	}
}

// box draws a table with the given header and rows inside a box.
func box(w io.Writer, header string, rows []string) {
	width := utf8.RuneCountInString(header)
	for _, row := range rows {
		width = max(width, utf8.RuneCountInString(row))
	}

	line := func(row string) {
		padding := width - utf8.RuneCountInString(row)
		fmt.Fprintf(w, "║ %s%s ║\n", row, strings.Repeat(" ", padding))
	}

	rule := strings.Repeat("═", width+2)

	fmt.Fprintf(w, "╔%s╗\n", rule)
	line(header)
	fmt.Fprintf(w, "╠%s╣\n", rule)
	for _, row := range rows {
		line(row)
	}
	fmt.Fprintf(w, "╚%s╝\n", rule)
}
