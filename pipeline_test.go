package dieselvk

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestVertexInputMatchesVertex(t *testing.T) {
	assert.Equal(t, uintptr(vertexStride), unsafe.Sizeof(Vertex{}))
	assert.Equal(t, uintptr(colorOffset), unsafe.Offsetof(Vertex{}.Color))

	state := vertexInputState()
	require.Equal(t, uint32(1), state.VertexBindingDescriptionCount)
	binding := state.PVertexBindingDescriptions[0]
	assert.Equal(t, uint32(0), binding.Binding)
	assert.Equal(t, uint32(32), binding.Stride)
	assert.Equal(t, vk.VertexInputRateVertex, binding.InputRate)

	require.Equal(t, uint32(2), state.VertexAttributeDescriptionCount)
	for i, attr := range state.PVertexAttributeDescriptions {
		assert.Equal(t, uint32(i), attr.Location)
		assert.Equal(t, vk.FormatR32g32b32a32Sfloat, attr.Format)
		assert.Equal(t, uint32(i*16), attr.Offset)
	}
}

func TestFixedFunctionState(t *testing.T) {
	ia := inputAssemblyState()
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, ia.Topology)
	assert.Equal(t, vk.Bool32(vk.False), ia.PrimitiveRestartEnable)

	rs := rasterizationState()
	assert.Equal(t, vk.PolygonModeFill, rs.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), rs.CullMode)
	assert.Equal(t, vk.FrontFaceClockwise, rs.FrontFace)
	assert.Equal(t, float32(1), rs.LineWidth)

	ds := depthStencilState()
	assert.Equal(t, vk.Bool32(vk.True), ds.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.True), ds.DepthWriteEnable)
	assert.Equal(t, vk.CompareOpLessOrEqual, ds.DepthCompareOp)
	assert.Equal(t, vk.Bool32(vk.False), ds.StencilTestEnable)
	assert.Equal(t, vk.StencilOpKeep, ds.Back.FailOp)
	assert.Equal(t, vk.CompareOpAlways, ds.Front.CompareOp)

	cb := colorBlendState()
	require.Equal(t, uint32(1), cb.AttachmentCount)
	assert.Equal(t, vk.Bool32(vk.False), cb.PAttachments[0].BlendEnable)
	assert.Equal(t, vk.ColorComponentFlags(0xF), cb.PAttachments[0].ColorWriteMask)

	ms := multisampleState()
	assert.Equal(t, vk.SampleCount1Bit, ms.RasterizationSamples)

	vp := viewportState()
	assert.Equal(t, uint32(1), vp.ViewportCount)
	assert.Equal(t, uint32(1), vp.ScissorCount)
	assert.Nil(t, vp.PViewports)
	assert.Nil(t, vp.PScissors)

	dyn := dynamicState()
	assert.Equal(t, uint32(2), dyn.DynamicStateCount)
	assert.ElementsMatch(t, []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}, dyn.PDynamicStates)
}

func TestShaderStages(t *testing.T) {
	stages := shaderStages(vk.NullShaderModule, vk.NullShaderModule)
	require.Len(t, stages, 2)
	assert.Equal(t, vk.ShaderStageVertexBit, stages[0].Stage)
	assert.Equal(t, vk.ShaderStageFragmentBit, stages[1].Stage)
	for _, s := range stages {
		assert.Equal(t, "main\x00", s.PName)
	}
}

func TestPipelineBuilderCreateInfo(t *testing.T) {
	b := NewPipelineBuilder()
	info := b.createInfo(vk.NullPipelineLayout, vk.NullRenderPass, vk.NullShaderModule, vk.NullShaderModule)
	assert.Equal(t, uint32(2), info.StageCount)
	assert.Same(t, &b.dynamic, info.PDynamicState)
	assert.Same(t, &b.depthStencil, info.PDepthStencilState)
	assert.Equal(t, uint32(0), info.Subpass)
}

func TestRetireListDefersUntilDrain(t *testing.T) {
	var r retireList[int]
	r.Push(1)
	r.Push(2)
	assert.Equal(t, 2, r.Len())

	var released []int
	n := r.Drain(func(v int) { released = append(released, v) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, released)
	assert.Equal(t, 0, r.Len())

	assert.Equal(t, 0, r.Drain(func(int) { t.Fatal("empty list released an item") }))
}
