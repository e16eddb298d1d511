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

package stats

import "math"

// Elo returns the likely elo difference of a player over its opponents
// along with its p < 0.05 upper and lower bounds, called mu, muMax, and
// muMin respectively.
func Elo(ws, ds, ls int) (muMin float64, mu float64, muMax float64) {
	N := float64(ws + ds + ls) // total number of games

	if N == 0 {
		return 0, 0, 0
	}

	w := float64(ws) / N // measured win probability
	d := float64(ds) / N // measured draw probability
	l := float64(ls) / N // measured loss probability

	// empirical mean of random variable
	mu = w + d/2

	// standard deviation of the random variable
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(N)

	muMax = mu + phiInv(0.975)*sigma // upper bound
	muMin = mu + phiInv(0.025)*sigma // lower bound

	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

// EloError returns the half width of the confidence interval of an elo
// estimate.
func EloError(lower, elo, upper float64) float64 {
	return math.Abs(math.Max(upper-elo, elo-lower))
}

// MaxElo caps elo differences, since scores of 0 and 1 have no finite elo.
const MaxElo = 800

// clampElo converts a score to an elo difference within [-MaxElo, MaxElo].
func clampElo(x float64) float64 {
	switch {
	case x <= 0:
		return -MaxElo
	case x >= 1:
		return MaxElo
	default:
		return math.Max(-MaxElo, math.Min(MaxElo, -400*math.Log10(1/x-1)))
	}
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
