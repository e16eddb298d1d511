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
	"regexp"
	"strconv"
)

var chunkifyRegexp = regexp.MustCompile(`(\d+|\D+)`)

// AlphanumCompare reports whether a precedes b in natural order, where runs
// of digits are compared by their numeric value. It is used to order
// version tags like sf_9 and sf_10.
func AlphanumCompare(a, b string) bool {
	chunksA := chunkifyRegexp.FindAllString(a, -1)
	chunksB := chunkifyRegexp.FindAllString(b, -1)

	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		if cmp := compareChunks(chunksA[i], chunksB[i]); cmp != 0 {
			return cmp < 0
		}
	}

	// one is a prefix of the other, so the shorter one comes first
	return len(chunksA) <= len(chunksB)
}

func compareChunks(a, b string) int {
	aInt, aErr := strconv.Atoi(a)
	bInt, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return aInt - bInt
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
