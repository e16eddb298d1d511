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

package tournament

import (
	"fmt"
	"sync"

	"laptudirm.com/x/llmchess/pkg/match"
	"laptudirm.com/x/llmchess/pkg/stats"
)

// Entry is the record of a game along with the condition it was played
// under.
type Entry struct {
	Condition Condition `json:"condition"`
	match.Record
}

func (entry Entry) String() string {
	record := &entry.Record

	if winner, decided := record.Result.Winner(); decided {
		return fmt.Sprintf("%s wins by %s", record.Name(winner), record.Reason)
	}

	if record.Result == match.Draw {
		return fmt.Sprintf("Draw by %s", record.Reason)
	}

	return fmt.Sprintf("No result: %s", record.Reason)
}

// Stats converts the entry into the input of the statistics.
func (entry *Entry) Stats() stats.Game {
	return stats.Game{
		Mode:        entry.Condition.Mode,
		Players:     [2]string{entry.Condition.White, entry.Condition.Black},
		ModelColor:  entry.Condition.ModelColor,
		SkillLevel:  entry.Condition.SkillLevel,
		Result:      entry.Result,
		Termination: entry.Termination,
		ForfeitedBy: entry.ForfeitedBy,
		Illegal:     entry.Illegal,
	}
}

// ResultSet is the append-only list of the finished games of a run. It is
// safe for concurrent use.
type ResultSet struct {
	mu      sync.RWMutex
	entries []Entry
}

func (set *ResultSet) Add(entry Entry) {
	set.mu.Lock()
	defer set.mu.Unlock()

	set.entries = append(set.entries, entry)
}

func (set *ResultSet) Len() int {
	set.mu.RLock()
	defer set.mu.RUnlock()

	return len(set.entries)
}

// Entries returns a copy of the entries in the order they were added.
func (set *ResultSet) Entries() []Entry {
	set.mu.RLock()
	defer set.mu.RUnlock()

	return append([]Entry(nil), set.entries...)
}

// Summary computes the statistics of the games so far.
func (set *ResultSet) Summary() stats.Summary {
	return Summarize(set.Entries())
}

// Summarize computes the statistics of the given entries.
func Summarize(entries []Entry) stats.Summary {
	gs := make([]stats.Game, len(entries))
	for i := range entries {
		gs[i] = entries[i].Stats()
	}

	return stats.Summarize(gs)
}
