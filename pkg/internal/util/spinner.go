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
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerCharSet is the index of the spinner's character set.
const SpinnerCharSet = 31

var (
	spin     = spinner.New(spinner.CharSets[SpinnerCharSet], 100*time.Millisecond)
	spinLock sync.Mutex
)

// StartSpinner starts the shared progress spinner if it isn't running.
func StartSpinner() {
	spinLock.Lock()
	defer spinLock.Unlock()

	if !spin.Active() {
		spin.Start()
	}
}

// PauseSpinner stops the shared progress spinner if it is running.
func PauseSpinner() {
	spinLock.Lock()
	defer spinLock.Unlock()

	if spin.Active() {
		spin.Stop()
	}
}
