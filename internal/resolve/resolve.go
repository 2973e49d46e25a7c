package resolve

import (
	"sort"

	"github.com/redoonetworks/stork/migration"
)

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}

	return "forward"
}

// Pending computes the ordered set of migrations required to travel from
// version from towards version to. Direction is derived from the version
// comparison, never from a flag: a nil to or a to above from means forward,
// anything else means backward.
//
// Forward keeps every descriptor below the ceiling that has not been
// applied yet. Backward keeps every applied descriptor inside the
// (to, from] range, so only recorded state is ever reverted.
func Pending(
	descriptors []migration.Descriptor,
	applied []string,
	from uint64,
	to *uint64,
) ([]migration.Descriptor, Direction) {
	direction := Forward
	if to != nil && *to < from {
		direction = Backward
	}

	type ordered struct {
		order uint64
		d     migration.Descriptor
	}

	candidates := make([]ordered, 0, len(descriptors))
	for i := range descriptors {
		order, err := descriptors[i].Order()
		if err != nil {
			// no leading digit run, not a migration
			continue
		}

		candidates = append(candidates, ordered{order: order, d: descriptors[i]})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if direction == Forward {
			return candidates[i].order < candidates[j].order
		}

		return candidates[i].order > candidates[j].order
	})

	appliedSet := make(map[string]struct{}, len(applied))
	for i := range applied {
		appliedSet[applied[i]] = struct{}{}
	}

	var pending []migration.Descriptor
	for i := range candidates {
		_, isApplied := appliedSet[candidates[i].d.Prefixed()]

		if direction == Forward {
			if (to == nil || candidates[i].order <= *to) && !isApplied {
				pending = append(pending, candidates[i].d)
			}

			continue
		}

		if candidates[i].order <= from && candidates[i].order > *to && isApplied {
			pending = append(pending, candidates[i].d)
		}
	}

	return pending, direction
}
