package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func undefinedExtentCaps() vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 64, Height: 48},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}
}

func TestChooseExtentWithinRange(t *testing.T) {
	caps := undefinedExtentCaps()
	for _, size := range [][2]uint32{{64, 48}, {800, 600}, {1920, 1080}, {1000, 50}} {
		got := ChooseExtent(caps, size[0], size[1])
		assert.Equal(t, size[0], got.Width)
		assert.Equal(t, size[1], got.Height)
	}
}

func TestChooseExtentClamps(t *testing.T) {
	caps := undefinedExtentCaps()

	got := ChooseExtent(caps, 4000, 3000)
	assert.Equal(t, uint32(1920), got.Width)
	assert.Equal(t, uint32(1080), got.Height)

	got = ChooseExtent(caps, 1, 0)
	assert.Equal(t, uint32(64), got.Width)
	assert.Equal(t, uint32(48), got.Height)

	got = ChooseExtent(caps, 5000, 20)
	assert.Equal(t, uint32(1920), got.Width)
	assert.Equal(t, uint32(48), got.Height)
}

func TestChooseExtentUsesCurrent(t *testing.T) {
	caps := undefinedExtentCaps()
	caps.CurrentExtent = vk.Extent2D{Width: 640, Height: 480}

	got := ChooseExtent(caps, 800, 600)
	assert.Equal(t, uint32(640), got.Width)
	assert.Equal(t, uint32(480), got.Height)
}

func TestChooseCompositeAlpha(t *testing.T) {
	all := vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaPreMultipliedBit |
		vk.CompositeAlphaPostMultipliedBit | vk.CompositeAlphaInheritBit)
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, ChooseCompositeAlpha(all))

	assert.Equal(t, vk.CompositeAlphaPreMultipliedBit, ChooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaPreMultipliedBit|vk.CompositeAlphaInheritBit)))
	assert.Equal(t, vk.CompositeAlphaPostMultipliedBit, ChooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaPostMultipliedBit|vk.CompositeAlphaInheritBit)))
	assert.Equal(t, vk.CompositeAlphaInheritBit, ChooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit)))
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, ChooseCompositeAlpha(0))
}

func TestChoosePreTransform(t *testing.T) {
	identity := vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit | vk.SurfaceTransformRotate90Bit)
	assert.Equal(t, vk.SurfaceTransformIdentityBit,
		ChoosePreTransform(identity, vk.SurfaceTransformRotate90Bit))

	rotated := vk.SurfaceTransformFlags(vk.SurfaceTransformRotate90Bit)
	assert.Equal(t, vk.SurfaceTransformRotate90Bit,
		ChoosePreTransform(rotated, vk.SurfaceTransformRotate90Bit))
}

func TestChooseSurfaceFormat(t *testing.T) {
	_, err := ChooseSurfaceFormat(nil)
	assert.ErrorIs(t, err, ErrNoSurfaceFormat)

	f, err := ChooseSurfaceFormat([]vk.SurfaceFormat{{Format: vk.FormatUndefined}})
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, f.Format)

	f, err = ChooseSurfaceFormat([]vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm},
	})
	require.NoError(t, err)
	assert.Equal(t, vk.FormatR8g8b8a8Srgb, f.Format)
	assert.Equal(t, vk.ColorSpaceSrgbNonlinear, f.ColorSpace)
}

func TestSharingFor(t *testing.T) {
	mode, indices := sharingFor(QueueFamilies{Graphics: 0, Present: 0})
	assert.Equal(t, vk.SharingModeExclusive, mode)
	assert.Empty(t, indices)

	mode, indices = sharingFor(QueueFamilies{Graphics: 0, Present: 3})
	assert.Equal(t, vk.SharingModeConcurrent, mode)
	assert.Equal(t, []uint32{0, 3}, indices)
}

func TestFramebufferAttachmentsShareDepth(t *testing.T) {
	type view struct{ name string }
	colors := []*view{{"a"}, {"b"}, {"c"}}
	depth := &view{"depth"}

	lists := FramebufferAttachments(colors, depth)
	require.Len(t, lists, len(colors))
	for i, list := range lists {
		require.Len(t, list, 2)
		assert.Same(t, colors[i], list[0])
		assert.Same(t, depth, list[1])
	}

	assert.Empty(t, FramebufferAttachments([]*view{}, depth))
}
