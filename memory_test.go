package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

const (
	deviceLocal  = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	hostVisible  = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	hostCoherent = vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
)

func memoryProps(flags ...vk.MemoryPropertyFlags) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = uint32(len(flags))
	for i, f := range flags {
		props.MemoryTypes[i].PropertyFlags = f
	}
	return props
}

func TestResolveMemoryTypeSuperset(t *testing.T) {
	props := memoryProps(deviceLocal, hostVisible, hostVisible|hostCoherent, hostVisible|hostCoherent|deviceLocal)

	index, err := ResolveMemoryType(props, 0xF, hostVisible|hostCoherent)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), index)

	index, err = ResolveMemoryType(props, 0xF, deviceLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), index)

	index, err = ResolveMemoryType(props, 0xF, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), index, "no required flags takes the first allowed type")
}

func TestResolveMemoryTypeRespectsTypeBits(t *testing.T) {
	props := memoryProps(hostVisible|hostCoherent, hostVisible|hostCoherent, hostVisible|hostCoherent)

	index, err := ResolveMemoryType(props, 0b100, hostVisible)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), index)
}

func TestResolveMemoryTypeNotFound(t *testing.T) {
	props := memoryProps(deviceLocal, hostVisible)

	_, err := ResolveMemoryType(props, 0b11, hostVisible|hostCoherent)
	assert.ErrorIs(t, err, ErrNoMemoryType)

	_, err = ResolveMemoryType(props, 0, deviceLocal)
	assert.ErrorIs(t, err, ErrNoMemoryType)

	// Bits past the reported count are ignored.
	_, err = ResolveMemoryType(props, 0b100, 0)
	assert.ErrorIs(t, err, ErrNoMemoryType)
}
