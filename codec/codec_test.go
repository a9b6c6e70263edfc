package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	PlaneIDs []int     `json:"plane_id"`
	Energies []float64 `json:"plane_visible_energy"`
}

func TestCodecsAgree(t *testing.T) {
	in := record{PlaneIDs: []int{3, 7}, Energies: []float64{0.25, 1.5}}

	for _, name := range []string{"json", "go-json"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"plane_id":[3,7],"plane_visible_energy":[0.25,1.5]}`, string(data))

			var out record
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("msgpack")
	require.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, Default, OrDefault(nil))
	assert.Equal(t, JSON{}, OrDefault(JSON{}))
}
