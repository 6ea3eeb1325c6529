package clinic

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestVisitDropsEmbeddedPetKeepsPetID(t *testing.T) {
	pet := &Pet{ID: uuid.New(), Name: "Rex", Type: "dog"}
	v := Visit{
		ID:          uuid.New(),
		PetID:       pet.ID,
		Pet:         pet,
		VisitDate:   datatypes.Date(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		Description: "rabies shot",
	}
	pet.Visits = []*Visit{&v}

	b, err := json.Marshal(v)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(b, &obj))
	assert.NotContains(t, obj, "pet")
	assert.Equal(t, pet.ID.String(), obj["pet_id"])
	assert.Equal(t, "rabies shot", obj["description"])
	assert.Contains(t, obj, "visit_date")
}

func TestPetHidesVisits(t *testing.T) {
	p := Pet{ID: uuid.New(), Name: "Tom", Type: "cat", Visits: []*Visit{{ID: uuid.New()}}}
	b, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "visits")
	assert.Contains(t, string(b), `"name":"Tom"`)
}
