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
	_ "embed"
	"path/filepath"

	"laptudirm.com/x/llmchess/pkg/common"
)

// BaseEngineFile seeds a new lockfile with the engines known by default.
//
//go:embed engines.yaml
var BaseEngineFile []byte

// DefaultRoot is the directory of the engines installed by llmchess.
var DefaultRoot = common.EnginesDirectory

// BinaryDirectory is the directory where the manager stores all the
// binaries of installed engines.
func (manager *Manager) BinaryDirectory() string {
	return filepath.Join(manager.Root, "bin")
}

// SourceDirectory is the directory where the manager stores all the source
// repositories of downloaded engines.
func (manager *Manager) SourceDirectory() string {
	return filepath.Join(manager.Root, "src")
}

// EnginesFile is the lockfile used by the manager to keep track of the
// engines and versions which are available.
func (manager *Manager) EnginesFile() string {
	return filepath.Join(manager.Root, "engines.yaml")
}
