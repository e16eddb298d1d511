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

package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Execute runs the given command in dir behind a spinner. The command's
// output is only shown if it fails, or if trace logging is enabled. If
// errStr is set, it replaces the command's error.
func Execute(dir, errStr, command string, args ...string) error {
	logrus.Debugf("\x1b[34m%s\x1b[0m %s", command, strings.Join(args, " "))

	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Show the commands output if logging level is Trace.
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	fmt.Print("\x1b[33m") // Make the outputs yellow.
	StartSpinner()

	err := cmd.Run()

	PauseSpinner()
	fmt.Print("\x1b[0m") // Reset the terminal's color.

	if err != nil {
		// Dump command's stdout and stderr in case of failure.
		if !logrus.IsLevelEnabled(logrus.TraceLevel) {
			fmt.Print("==== \x1b[31mERROR\x1b[0m ====\n\x1b[31m")
			_, _ = io.Copy(os.Stdout, &stdout)
			_, _ = io.Copy(os.Stderr, &stderr)
			fmt.Print("\x1b[0m===============\n")
		}

		if errStr == "" {
			return err
		}

		return errors.New(errStr)
	}

	return nil
}
