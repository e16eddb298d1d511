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

package manager

import (
	"os"
	"path/filepath"
	"testing"
)

func openManager(t *testing.T) *Manager {
	t.Helper()

	manager, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return manager
}

func TestOpenSeedsLockfile(t *testing.T) {
	manager := openManager(t)

	for _, dir := range []string{manager.SourceDirectory(), manager.BinaryDirectory()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}

	info, found := manager.Engines["stockfish"]
	if !found {
		t.Fatal("stockfish missing from the default lockfile")
	}

	if info.BuildScript == "" || info.Source == "" {
		t.Errorf("incomplete stockfish entry: %+v", info)
	}
}

func TestNewEngine(t *testing.T) {
	manager := openManager(t)

	tests := []struct {
		identifier string
		name       string
		author     string
		url        string
	}{
		{"stockfish", "stockfish", "official-stockfish", "https://github.com/official-stockfish/Stockfish"},
		{"raklaptudirm/Mess", "mess", "raklaptudirm", "https://github.com/raklaptudirm/Mess"},
		{"https://example.com/someone/engine.git", "engine", "someone", "https://example.com/someone/engine.git"},
	}

	for _, test := range tests {
		engine, err := manager.NewEngine(test.identifier)
		if err != nil {
			t.Errorf("NewEngine(%q): %v", test.identifier, err)
			continue
		}

		if engine.Name != test.name || engine.Author != test.author || engine.URL != test.url {
			t.Errorf("NewEngine(%q) = %s by %s at %s", test.identifier, engine.Name, engine.Author, engine.URL)
		}

		if engine.Path != filepath.Join(manager.SourceDirectory(), test.name) {
			t.Errorf("NewEngine(%q).Path = %s", test.identifier, engine.Path)
		}
	}

	if _, err := manager.NewEngine("unknown"); err == nil {
		t.Error("NewEngine accepted an unknown engine name")
	}
}

func install(t *testing.T, manager *Manager, engine *Engine, version string) {
	t.Helper()

	binary := manager.versionBinary(engine.Name, version)
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := manager.AddVersion(engine, version); err != nil {
		t.Fatalf("AddVersion(%s): %v", version, err)
	}
}

func TestVersions(t *testing.T) {
	manager := openManager(t)

	engine, err := manager.NewEngine("someone/toy")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := manager.Lookup("toy"); err == nil {
		t.Error("Lookup found an engine which isn't installed")
	}

	install(t, manager, engine, "v1")
	install(t, manager, engine, "v2")

	binary, err := manager.Lookup("toy")
	if err != nil || binary != manager.versionBinary("toy", "v1") {
		t.Errorf("Lookup(toy) = %s, %v; want the first installed version", binary, err)
	}

	if binary, err := manager.Lookup("Toy@v2"); err != nil || binary != manager.versionBinary("toy", "v2") {
		t.Errorf("Lookup(Toy@v2) = %s, %v", binary, err)
	}

	if err := manager.SetMainVersion("toy", "v2"); err != nil {
		t.Fatal(err)
	}

	if err := manager.SetMainVersion("toy", "v3"); err == nil {
		t.Error("SetMainVersion accepted a version which isn't installed")
	}

	if err := manager.RemoveVersion("toy", "v2"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(manager.versionBinary("toy", "v2")); !os.IsNotExist(err) {
		t.Error("RemoveVersion did not delete the binary")
	}

	// The lockfile must survive a reopen.
	reopened, err := Open(manager.Root)
	if err != nil {
		t.Fatal(err)
	}

	info := reopened.Engines["toy"]
	if info.Current != "v1" || len(info.Versions) != 1 {
		t.Errorf("reopened lockfile has %+v", info)
	}
}

func TestFindMakefile(t *testing.T) {
	root := t.TempDir()

	for _, dir := range []string{"a/b", "src"} {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(path, "Makefile"), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if dir := findMakefile(root); dir != filepath.Join(root, "src") {
		t.Errorf("findMakefile = %s, want the shallowest Makefile", dir)
	}

	if dir := findMakefile(t.TempDir()); dir != "" {
		t.Errorf("findMakefile found %s in an empty directory", dir)
	}
}
