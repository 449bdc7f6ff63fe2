package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

const depthAttachment = vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)

func TestChooseDepthTilingPrefersOptimal(t *testing.T) {
	tiling, err := ChooseDepthTiling(vk.FormatProperties{
		LinearTilingFeatures:  depthAttachment,
		OptimalTilingFeatures: depthAttachment,
	})
	require.NoError(t, err)
	assert.Equal(t, vk.ImageTilingOptimal, tiling)
}

func TestChooseDepthTilingFallsBackToLinear(t *testing.T) {
	tiling, err := ChooseDepthTiling(vk.FormatProperties{
		LinearTilingFeatures:  depthAttachment,
		OptimalTilingFeatures: vk.FormatFeatureFlags(vk.FormatFeatureSampledImageBit),
	})
	require.NoError(t, err)
	assert.Equal(t, vk.ImageTilingLinear, tiling)
}

func TestChooseDepthTilingUnsupported(t *testing.T) {
	_, err := ChooseDepthTiling(vk.FormatProperties{
		OptimalTilingFeatures: vk.FormatFeatureFlags(vk.FormatFeatureSampledImageBit),
	})
	assert.ErrorIs(t, err, ErrDepthFormatUnsupported)
}

func TestDepthAspect(t *testing.T) {
	depthOnly := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	withStencil := depthOnly | vk.ImageAspectFlags(vk.ImageAspectStencilBit)

	assert.Equal(t, depthOnly, depthAspect(vk.FormatD16Unorm))
	assert.Equal(t, depthOnly, depthAspect(vk.FormatD32Sfloat))
	assert.Equal(t, withStencil, depthAspect(vk.FormatD16UnormS8Uint))
	assert.Equal(t, withStencil, depthAspect(vk.FormatD24UnormS8Uint))
	assert.Equal(t, withStencil, depthAspect(vk.FormatD32SfloatS8Uint))
}
