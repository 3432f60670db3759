package registry

import (
	"testing"

	"hostelpass/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	st := Summarize(fixtureResidents())

	assert.Equal(t, 3, st.Total)
	assert.Len(t, st.Blocks, 8)
	assert.Equal(t, BlockCount{Block: "HA", Count: 2}, st.Blocks[0])
	assert.Equal(t, BlockCount{Block: "HB", Count: 1}, st.Blocks[1])
	assert.Equal(t, BlockCount{Block: "HH", Count: 0}, st.Blocks[7])
	assert.Equal(t, map[models.Gender]int{models.Male: 2, models.Female: 1}, st.Gender)
	assert.Equal(t, map[models.Status]int{models.Local: 2, models.International: 1}, st.Status)
}

func TestSummarizeEmpty(t *testing.T) {
	st := Summarize(nil)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0, st.Gender[models.Male])
	assert.Equal(t, 0, st.Status[models.International])
	for _, b := range st.Blocks {
		assert.Zero(t, b.Count)
	}
}
