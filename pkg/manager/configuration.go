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
	"slices"

	"gopkg.in/yaml.v3"
	"laptudirm.com/x/llmchess/pkg/common"
)

type EngineInfoList map[string]EngineInfo

type EngineInfo struct {
	Author string `yaml:"author"`
	Source string `yaml:"source"`

	// Installation Stuff
	Current     string   `yaml:"current,omitempty"`
	Versions    []string `yaml:"versions,omitempty"`
	BuildScript string   `yaml:"build-script,omitempty"`
}

// Manager installs engines into its root directory and keeps track of
// them in a lockfile.
type Manager struct {
	Root    string
	Engines EngineInfoList
}

// Open opens the manager rooted at the given directory, creating its
// directories and lockfile if necessary.
func Open(root string) (*Manager, error) {
	manager := &Manager{Root: root}

	for _, dir := range []string{manager.SourceDirectory(), manager.BinaryDirectory()} {
		if err := common.TryMkdir(dir); err != nil {
			return nil, err
		}
	}

	if err := common.TryCreate(manager.EnginesFile(), BaseEngineFile); err != nil {
		return nil, err
	}

	file, err := os.ReadFile(manager.EnginesFile())
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, &manager.Engines); err != nil {
		return nil, fmt.Errorf("manager: %s: %w", manager.EnginesFile(), err)
	}

	if manager.Engines == nil {
		manager.Engines = EngineInfoList{}
	}

	return manager, nil
}

func (manager *Manager) TryAddEngine(engine *Engine) {
	if _, found := manager.Engines[engine.Name]; !found {
		manager.Engines[engine.Name] = EngineInfo{
			Author: engine.Author,
			Source: engine.URL,
		}
	}
}

func (manager *Manager) AddVersion(engine *Engine, version string) error {
	manager.TryAddEngine(engine)

	info := manager.Engines[engine.Name]
	if !slices.Contains(info.Versions, version) {
		info.Versions = append(info.Versions, version)
	}

	if info.Current == "" {
		info.Current = version
	}

	manager.Engines[engine.Name] = info
	return manager.Dump()
}

func (manager *Manager) SetMainVersion(engine string, version string) error {
	info, found := manager.Engines[engine]
	if !found || !slices.Contains(info.Versions, version) {
		return fmt.Errorf("manager: %s %s is not installed", engine, version)
	}

	info.Current = version
	manager.Engines[engine] = info
	return manager.Dump()
}

// RemoveVersion forgets the given version of an engine and deletes its
// binary.
func (manager *Manager) RemoveVersion(engine string, version string) error {
	info, found := manager.Engines[engine]
	if !found || !slices.Contains(info.Versions, version) {
		return fmt.Errorf("manager: %s %s is not installed", engine, version)
	}

	if err := os.Remove(manager.versionBinary(engine, version)); err != nil && !os.IsNotExist(err) {
		return err
	}

	info.Versions = slices.DeleteFunc(info.Versions, func(v string) bool { return v == version })
	if info.Current == version {
		info.Current = ""
		if len(info.Versions) > 0 {
			info.Current = info.Versions[len(info.Versions)-1]
		}
	}

	manager.Engines[engine] = info
	return manager.Dump()
}

// Dump writes the lockfile.
func (manager *Manager) Dump() error {
	file, err := yaml.Marshal(manager.Engines)
	if err != nil {
		return err
	}

	return os.WriteFile(manager.EnginesFile(), file, common.FilePermissions)
}
