package registry

import "hostelpass/internal/models"

type BlockCount struct {
	Block models.Block `json:"block"`
	Count int          `json:"count"`
}

// Stats are the dashboard aggregates.
type Stats struct {
	Total  int                   `json:"total"`
	Blocks []BlockCount          `json:"blocks"`
	Gender map[models.Gender]int `json:"gender"`
	Status map[models.Status]int `json:"status"`
}

// Summarize counts residents per block, gender and status. Every block and
// every declared gender/status appears, zero or not.
func Summarize(residents []models.Resident) Stats {
	st := Stats{
		Total:  len(residents),
		Blocks: make([]BlockCount, len(models.Blocks)),
		Gender: map[models.Gender]int{models.Male: 0, models.Female: 0},
		Status: map[models.Status]int{models.Local: 0, models.International: 0},
	}
	pos := make(map[models.Block]int, len(models.Blocks))
	for i, b := range models.Blocks {
		st.Blocks[i] = BlockCount{Block: b}
		pos[b] = i
	}
	for _, r := range residents {
		if i, ok := pos[r.Block]; ok {
			st.Blocks[i].Count++
		}
		if r.Gender.Valid() {
			st.Gender[r.Gender]++
		}
		if r.Status.Valid() {
			st.Status[r.Status]++
		}
	}
	return st
}
