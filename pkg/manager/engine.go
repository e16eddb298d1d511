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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"
)

// Engine represents one of the chess engines managed by the manager. It
// contains metadata about the engine and its source repository.
type Engine struct {
	// Basic Information
	Name   string
	Author string
	Info   *EngineInfo

	// Source Repository Information
	URL  string // URL of the engine's remote repository
	Path string // Path to the engine's local repository
	*git.Repository
	*git.Worktree

	manager *Manager
}

// NewEngine creates an instance of *manager.Engine from the given engine
// identifier string. The identifier has to have one of the following formats:
//
// 1. <engine-name>                 - Known Engine Format
// 2. <engine-author>/<engine-name> - GitHub Engine Format
// 3. <full-source-git-url>         - Git Engine Format
//
// Only engines which are known by default or have been previously installed
// can be identified using the format (1).
func (manager *Manager) NewEngine(identifier string) (*Engine, error) {
	engine := Engine{manager: manager}

	// In all formats, the engine name is the last part of the identifier:
	// [<stuff-depending-on-the-particular-format>/]<engine-name>
	engine.Name = strings.ToLower(strings.TrimSuffix(filepath.Base(identifier), ".git"))

	// The engine's repository will be stored at <source-dir>/<engine-name>.
	engine.Path = filepath.Join(manager.SourceDirectory(), engine.Name)

	// The formats can be differentiated between using the number of '/' in
	// the identifier. (1) has 0, (2) has 1, and (3) has >= 2 '/'s.
	switch strings.Count(identifier, "/") {
	case 0:
		info, found := manager.Engines[engine.Name]
		if !found {
			return nil, fmt.Errorf("engine %s is not known", engine.Name)
		}

		engine.Info = &info
		engine.URL = info.Source
		engine.Author = info.Author

	case 1:
		engine.URL = "https://github.com/" + identifier
		engine.Author, _, _ = strings.Cut(identifier, "/")

	default:
		engine.URL = identifier
		engine.Author = filepath.Base(filepath.Dir(identifier))
	}

	logrus.WithFields(logrus.Fields{
		"name":       engine.Name,
		"author":     engine.Author,
		"identifier": engine.URL,
	}).Debug("Figured out basic engine details")

	return &engine, nil
}

func (engine *Engine) VersionBinary(version Version) string {
	return engine.manager.versionBinary(engine.Name, version.Name)
}

func (engine *Engine) Downloaded(version Version) bool {
	_, err := os.Stat(engine.VersionBinary(version))
	return err == nil
}

func (manager *Manager) versionBinary(engine, version string) string {
	return filepath.Join(manager.BinaryDirectory(), engine+"-"+version)
}

// Lookup finds the binary of an installed engine. The name may be followed
// by @<version>; otherwise the engine's current version is used.
func (manager *Manager) Lookup(name string) (string, error) {
	name, version, _ := strings.Cut(name, "@")
	name = strings.ToLower(name)

	info, found := manager.Engines[name]
	if !found || len(info.Versions) == 0 {
		return "", fmt.Errorf("engine %s is not installed", name)
	}

	if version == "" {
		version = info.Current
	}

	binary := manager.versionBinary(name, version)
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("engine %s %s is not installed", name, version)
	}

	return binary, nil
}
