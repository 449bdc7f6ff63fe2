package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeVertices(t *testing.T) {
	vs := CubeVertices()
	require.Len(t, vs, 36)

	for i := 0; i < len(vs); i += 6 {
		for _, v := range vs[i : i+6] {
			assert.Equal(t, vs[i].Color, v.Color, "face %d is one color", i/6)
			assert.Equal(t, float32(1), v.Pos[3])
			for _, c := range v.Pos[:3] {
				assert.Contains(t, []float32{-1, 1}, c)
			}
		}
	}
}

func TestFlattenVertices(t *testing.T) {
	vs := CubeVertices()
	flat := flattenVertices(vs)
	require.Len(t, flat, 36*8)
	assert.Equal(t, vs[1].Pos[:], flat[8:12])
	assert.Equal(t, vs[1].Color[:], flat[12:16])
}
