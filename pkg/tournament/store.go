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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"laptudirm.com/x/llmchess/pkg/common"
	"laptudirm.com/x/llmchess/pkg/stats"
)

// Output files of a run.
const (
	JournalFile = "games.jsonl"
	ResultsFile = "results.json"
	SummaryFile = "summary.json"
	ReportFile  = "report.txt"
	PGNFile     = "games.pgn"
)

// Results is the saved form of a run.
type Results struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Games []Entry `json:"games"`
}

// Store persists the results of a run into its own directory. Every game is
// journaled as soon as it finishes, so that an interrupted run loses at most
// the games in flight.
type Store struct {
	Dir string

	id      uuid.UUID
	name    string
	started time.Time

	mu      sync.Mutex
	journal *os.File
}

// NewStore creates the output directory of a run named name under output.
func NewStore(output, name string, started time.Time) (*Store, error) {
	dir := filepath.Join(output, fmt.Sprintf("%s-%s", name, started.Format("20060102-150405")))
	if err := common.TryMkdir(dir); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	journal, err := os.OpenFile(filepath.Join(dir, JournalFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, common.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	return &Store{
		Dir:     dir,
		id:      uuid.New(),
		name:    name,
		started: started,
		journal: journal,
	}, nil
}

// Append journals a finished game.
func (store *Store) Append(entry Entry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.journal.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}

// Save writes the results, the summary, the report and the pgns of the
// given games.
func (store *Store) Save(entries []Entry) error {
	results := Results{
		ID:         store.id,
		Name:       store.name,
		StartedAt:  store.started,
		FinishedAt: time.Now(),
		Games:      entries,
	}

	if results.Games == nil {
		results.Games = []Entry{}
	}

	if err := store.writeJSON(ResultsFile, results); err != nil {
		return err
	}

	summary := Summarize(entries)
	if err := store.writeJSON(SummaryFile, summary); err != nil {
		return err
	}

	var report bytes.Buffer
	stats.Report(&report, summary)
	if err := store.write(ReportFile, report.Bytes()); err != nil {
		return err
	}

	var pgns strings.Builder
	for _, entry := range entries {
		if entry.PGN == "" {
			continue
		}

		pgns.WriteString(strings.TrimSpace(entry.PGN))
		pgns.WriteString("\n\n")
	}

	return store.write(PGNFile, []byte(pgns.String()))
}

func (store *Store) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.journal.Close()
}

func (store *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return store.write(name, data)
}

func (store *Store) write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(store.Dir, name), data, common.FilePermissions); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}

// LoadResults reads the games of a saved run. The path may be a run
// directory, its results file, or its journal, which is used when a run
// was interrupted before its results could be saved.
func LoadResults(path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		results := filepath.Join(path, ResultsFile)
		if _, err := os.Stat(results); err == nil {
			return loadResults(results)
		}

		return loadJournal(filepath.Join(path, JournalFile))
	}

	if filepath.Ext(path) == ".jsonl" {
		return loadJournal(path)
	}

	return loadResults(path)
}

func loadResults(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return results.Games, nil
}

func loadJournal(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
