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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/llmchess/pkg/internal/util"
)

// Install fetches the engine's source, resolves the version string and
// builds the resolved version.
func (manager *Manager) Install(identifier, version string) (*Engine, Version, error) {
	engine, err := manager.NewEngine(identifier)
	if err != nil {
		return nil, Version{}, err
	}

	if err := engine.FetchSource(); err != nil {
		return nil, Version{}, err
	}

	resolved, err := engine.ResolveVersion(version)
	if err != nil {
		return nil, Version{}, err
	}

	logrus.WithField("version", resolved.Name).Info("Resolved engine version")
	return engine, resolved, engine.Download(resolved)
}

func (engine *Engine) Download(version Version) error {
	binary := engine.VersionBinary(version)
	newVersion := !engine.Downloaded(version)

	// Build the given version of the engine and move the file to binary.
	if err := engine.Build(version, binary); err != nil {
		return err
	}

	// Check if the Engine's binary was successfully built and moved.
	if _, err := os.Stat(binary); err != nil {
		return errors.New("Installer \x1b[31mfailed\x1b[0m in building the engine binary")
	}

	// Register the version with the manager if it is new.
	if newVersion {
		if err := engine.manager.AddVersion(engine, version.Name); err != nil {
			return err
		}
	}

	fmt.Printf("\nInstalled engine \x1b[92m%s %s\x1b[0m.\n", engine.Name, version.Name)
	return nil
}

func (engine *Engine) Build(version Version, dst string) error {
	head, err := engine.Head()
	if err != nil {
		return err
	}

	// Reset repository state after building has been done.
	defer func() {
		logrus.Debugf("Checking out to %s", head.Name().Short())
		if err := engine.Checkout(&git.CheckoutOptions{
			Branch: head.Name(),
		}); err != nil {
			logrus.Error(err)
		}
	}()

	// Fetch the git objects associated with the given version,
	// and checkout to its patch in preparation for building.
	if err := engine.FetchVersion(version); err != nil {
		return err
	}

	if err := engine.Checkout(&git.CheckoutOptions{
		// Checkout to a detached-HEAD.
		Hash: version.Ref.Hash(),
	}); err != nil {
		return err
	}

	// Engines known to the manager may have custom build scripts.
	if engine.Info != nil && engine.Info.BuildScript != "" {
		return scriptBuild(engine.Path, dst, engine.Info.BuildScript)
	}

	// The default build method is to use an OpenBench-compliant Makefile.
	return makefileBuild(engine.Path, dst)
}

// findMakefile finds the directory of the shallowest Makefile in src.
func findMakefile(src string) string {
	dir, depth := "", 10_000
	_ = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		// Makefile names are case-insensitive.
		if strings.EqualFold(d.Name(), "makefile") &&
			strings.Count(path, string(filepath.Separator)) < depth {
			dir = filepath.Dir(path)
			depth = strings.Count(path, string(filepath.Separator))
		}

		return nil
	})

	return dir
}

func makefileBuild(src, dst string) error {
	logrus.Info("Trying to build using an \x1b[33mOpenBench-compliant Makefile\x1b[0m...")

	dir := findMakefile(src)
	if dir == "" {
		return errors.New("Makefile \x1b[31mnot found\x1b[0m in engine's git")
	}

	logrus.WithField("makefile-directory", dir).Debug("Makefile found in git")

	// make -j EXE=engine-binary
	if err := util.Execute(
		dir, "Makefile failed to build the engine binary",
		"make", "-j", "EXE=engine-binary",
	); err != nil {
		return err
	}

	if err := os.Rename(filepath.Join(dir, "engine-binary"), dst); err != nil {
		logrus.Debug(err)
		return errors.New("Discovered Makefile is \x1b[31mnot OpenBench-compliant\x1b[0m")
	}

	return nil
}

func scriptBuild(src, dst, buildScript string) error {
	logrus.Info("Trying to build using an \x1b[33mIn-built Installation Script\x1b[0m...")

	util.StartSpinner()
	defer util.PauseSpinner()

	// The build-script is piped into the shell.
	script := exec.Command("sh")
	script.Dir = src
	script.Stdin = strings.NewReader(buildScript)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		script.Stdout = os.Stdout
		script.Stderr = os.Stderr
	}

	if err := script.Run(); err != nil {
		logrus.Debug(err)
		return errors.New("Build script failed; Check requirements or open an issue")
	}

	if err := os.Rename(filepath.Join(src, "engine-binary"), dst); err != nil {
		logrus.Debug(err)
		return errors.New("Build script failed; Check requirements or open an issue")
	}

	return nil
}
