// Package tournament implements the Tournament Engine (C4): group
// formation, round-robin scheduling, lockstep round execution, knockout
// advancement, and bracket seeding.
package tournament

import (
	"sort"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// FormGroups partitions bots into ⌈N/groupSize⌉ groups of roughly equal
// size (sizes differ by at most one), assigning lexicographically sorted
// bots via the serpentine ("boustrophedon") pattern so stronger/weaker
// seeding biases (if any existed) would be spread evenly — here it mainly
// guarantees a deterministic, order-independent partition.
func FormGroups(bots []string, groupSize int, eventID string, eventName string) []*domain.Group {
	if groupSize <= 0 {
		groupSize = 4
	}
	sorted := append([]string(nil), bots...)
	sort.Strings(sorted)

	numGroups := (len(sorted) + groupSize - 1) / groupSize
	if numGroups == 0 {
		return nil
	}

	groups := make([]*domain.Group, numGroups)
	for i := range groups {
		groups[i] = &domain.Group{
			GroupID:    groupLabel(i),
			GroupLabel: groupLabel(i),
			EventID:    eventID,
			EventName:  eventName,
		}
	}

	row := 0
	leftToRight := true
	col := 0
	for _, bot := range sorted {
		groups[col].Bots = append(groups[col].Bots, bot)
		if leftToRight {
			col++
			if col == numGroups {
				col = numGroups - 1
				leftToRight = false
				row++
			}
		} else {
			col--
			if col < 0 {
				col = 0
				leftToRight = true
				row++
			}
		}
	}
	_ = row
	return groups
}

func groupLabel(index int) string {
	// "A".."Z", then "AA".."AZ", ... — groups beyond 26 are vanishingly
	// unlikely at this scale but the scheme still produces valid labels.
	label := ""
	n := index
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return label
}

// Pairing is one scheduled match within a round.
type Pairing struct {
	Bot1 string
	Bot2 string // empty means Bot1 has a bye this round
}

// RoundRobinSchedule generates the standard circle-method schedule for
// group's bots: m-1 rounds for even m, m rounds with one bye per round
// for odd m.
func RoundRobinSchedule(bots []string) [][]Pairing {
	players := append([]string(nil), bots...)
	if len(players)%2 != 0 {
		players = append(players, "") // "" marks the bye slot
	}
	n := len(players)
	rounds := n - 1

	schedule := make([][]Pairing, 0, rounds)
	arr := append([]string(nil), players...)
	for r := 0; r < rounds; r++ {
		var round []Pairing
		for i := 0; i < n/2; i++ {
			a, b := arr[i], arr[n-1-i]
			if a == "" || b == "" {
				bye := a
				if a == "" {
					bye = b
				}
				round = append(round, Pairing{Bot1: bye})
				continue
			}
			round = append(round, Pairing{Bot1: a, Bot2: b})
		}
		schedule = append(schedule, round)

		// rotate all but the first element one position
		fixed := arr[0]
		rest := append([]string(nil), arr[1:]...)
		rest = append([]string{rest[len(rest)-1]}, rest[:len(rest)-1]...)
		arr = append([]string{fixed}, rest...)
	}
	return schedule
}
