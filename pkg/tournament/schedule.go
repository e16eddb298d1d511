package tournament

import "slices"

// Scheduler produces the encounters between n players.
type Scheduler interface {
	Initialize(n int)
	NextEncounter() (int, int)
	TotalEncounters() int
}

var (
	_ Scheduler = (*RoundRobin)(nil)
	_ Scheduler = (*Gauntlet)(nil)
)

// Encounters lists every encounter the scheduler produces for n players.
func Encounters(scheduler Scheduler, n int) [][2]int {
	scheduler.Initialize(n)

	encounters := make([][2]int, scheduler.TotalEncounters())
	for i := range encounters {
		p1, p2 := scheduler.NextEncounter()
		encounters[i] = [2]int{p1, p2}
	}

	return encounters
}

// RoundRobin pairs every player with every other player exactly once,
// using the circle method.
type RoundRobin struct {
	player_count int

	pair_number int

	circle_top, circle_bottom []int
}

func (rr *RoundRobin) Initialize(n int) {
	rr.player_count = n
	rounded_total := rr.player_count + rr.player_count%2

	rr.circle_top = make([]int, rounded_total/2)
	rr.circle_bottom = make([]int, rounded_total/2)

	for i := 0; i < rounded_total; i++ {
		if i < rounded_total/2 {
			rr.circle_top[i] = i
		} else {
			rr.circle_bottom[rounded_total-i-1] = i
		}
	}

	rr.pair_number = 0
}

func (rr *RoundRobin) NextEncounter() (int, int) {
	for {
		if rr.pair_number >= len(rr.circle_top) {
			rr.pair_number = 0

			// rotate every player except the first one
			last_idx := len(rr.circle_top) - 1
			last_elem := rr.circle_top[last_idx]

			rr.circle_top = slices.Insert(rr.circle_top, 1, rr.circle_bottom[0])[:last_idx+1]
			rr.circle_bottom = append(rr.circle_bottom, last_elem)[1:]
		}

		player1 := rr.circle_top[rr.pair_number]
		player2 := rr.circle_bottom[rr.pair_number]
		rr.pair_number++

		// skip the bye of an odd number of players
		if player1 < rr.player_count && player2 < rr.player_count {
			return player1, player2
		}
	}
}

func (rr *RoundRobin) TotalEncounters() int {
	return rr.player_count * (rr.player_count - 1) / 2
}

// Gauntlet pairs the first player with every other player.
type Gauntlet struct {
	player_count int
	game_number  int
}

func (g *Gauntlet) Initialize(n int) {
	g.player_count = n
	g.game_number = 0
}

func (g *Gauntlet) NextEncounter() (int, int) {
	g.game_number++
	return 0, g.game_number
}

func (g *Gauntlet) TotalEncounters() int {
	if g.player_count == 0 {
		return 0
	}

	return g.player_count - 1
}
