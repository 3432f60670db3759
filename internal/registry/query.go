package registry

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hostelpass/internal/models"
)

const (
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
	SortBlock    = "block"
	SortRoom     = "room"
)

// Query narrows and orders a listed collection. Zero values mean "all".
type Query struct {
	Block  models.Block
	Gender models.Gender
	Status models.Status
	Search string
	Sort   string
}

// IsZero reports whether the query leaves the collection untouched.
func (q Query) IsZero() bool {
	return q == Query{}
}

// Apply returns the matching residents in the requested order. The input
// slice is not modified.
func (q Query) Apply(residents []models.Resident) []models.Resident {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Resident, 0, len(residents))
	for _, r := range residents {
		if q.Block != "" && r.Block != q.Block {
			continue
		}
		if q.Gender != "" && r.Gender != q.Gender {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if term != "" && !strings.Contains(searchText(r), term) {
			continue
		}
		out = append(out, r)
	}

	// Collators keep per-call buffers, so each Apply gets its own.
	col := collate.New(language.Und)
	cmp := func(a, b string) int { return col.CompareString(a, b) }

	var less func(a, b models.Resident) bool
	switch q.Sort {
	case SortNameDesc:
		less = func(a, b models.Resident) bool { return cmp(b.Name, a.Name) < 0 }
	case SortBlock:
		less = func(a, b models.Resident) bool {
			if a.Block == b.Block {
				return cmp(a.RoomNumber, b.RoomNumber) < 0
			}
			return cmp(string(a.Block), string(b.Block)) < 0
		}
	case SortRoom:
		less = func(a, b models.Resident) bool { return cmp(a.RoomNumber, b.RoomNumber) < 0 }
	default:
		less = func(a, b models.Resident) bool { return cmp(a.Name, b.Name) < 0 }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func searchText(r models.Resident) string {
	return strings.ToLower(r.StudentID + " " + r.Name + " " + r.Programme + " " + r.RoomNumber)
}
