package dieselvk

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spirvBytes(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func writeShader(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.frag.spv")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileLoaderValid(t *testing.T) {
	path := writeShader(t, spirvBytes(spirvMagic, 0x00010000, 7, 42))
	code, err := FileLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000, 7, 42}, code)
}

func TestFileLoaderRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"misaligned", append(spirvBytes(spirvMagic), 0x01)},
		{"bad magic", spirvBytes(0xdeadbeef, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FileLoader{}.Load(writeShader(t, tt.data))
			assert.ErrorIs(t, err, ErrShaderLoad)
		})
	}
}

func TestFileLoaderMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.spv")
	_, err := FileLoader{}.Load(path)
	require.ErrorIs(t, err, ErrShaderLoad)
	assert.Contains(t, err.Error(), path)
}
