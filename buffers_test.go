package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferFits(t *testing.T) {
	b := &Buffer{Size: uniformSize}
	assert.NoError(t, b.fits(make([]float32, 16)))
	assert.NoError(t, b.fits(nil))
	assert.Error(t, b.fits(make([]float32, 17)))
}
