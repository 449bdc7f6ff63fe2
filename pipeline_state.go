package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

const (
	vertexStride      = 32
	colorOffset       = 16
	shaderEntryPoint  = "main"
	colorWriteAllMask = vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
		vk.ColorComponentBBit | vk.ColorComponentABit)
)

func vertexBindings() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    vertexStride,
		InputRate: vk.VertexInputRateVertex,
	}}
}

// vertexAttributes describes an interleaved vec4 position followed by a vec4 color.
func vertexAttributes() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32a32Sfloat, Offset: 0},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32a32Sfloat, Offset: colorOffset},
	}
}

func vertexInputState() vk.PipelineVertexInputStateCreateInfo {
	bindings := vertexBindings()
	attributes := vertexAttributes()
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}
}

func inputAssemblyState() vk.PipelineInputAssemblyStateCreateInfo {
	return vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
}

func rasterizationState() vk.PipelineRasterizationStateCreateInfo {
	return vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:               vk.FrontFaceClockwise,
		DepthBiasEnable:         vk.False,
		LineWidth:               1.0,
	}
}

func colorBlendAttachment() vk.PipelineColorBlendAttachmentState {
	return vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorZero,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorZero,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask:      colorWriteAllMask,
	}
}

func colorBlendState() vk.PipelineColorBlendStateCreateInfo {
	attachments := []vk.PipelineColorBlendAttachmentState{colorBlendAttachment()}
	return vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpNoOp,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		BlendConstants:  [4]float32{1, 1, 1, 1},
	}
}

func stencilKeep() vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      vk.StencilOpKeep,
		PassOp:      vk.StencilOpKeep,
		DepthFailOp: vk.StencilOpKeep,
		CompareOp:   vk.CompareOpAlways,
	}
}

func depthStencilState() vk.PipelineDepthStencilStateCreateInfo {
	return vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vk.True,
		DepthWriteEnable:      vk.True,
		DepthCompareOp:        vk.CompareOpLessOrEqual,
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
		Front:                 stencilKeep(),
		Back:                  stencilKeep(),
		MinDepthBounds:        0,
		MaxDepthBounds:        0,
	}
}

func multisampleState() vk.PipelineMultisampleStateCreateInfo {
	return vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
		MinSampleShading:      0,
	}
}

// viewportState leaves viewport and scissor to dynamic state.
func viewportState() vk.PipelineViewportStateCreateInfo {
	return vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
}

func dynamicStates() []vk.DynamicState {
	return []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
}

func dynamicState() vk.PipelineDynamicStateCreateInfo {
	states := dynamicStates()
	return vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(states)),
		PDynamicStates:    states,
	}
}

func shaderStages(vertex, fragment vk.ShaderModule) []vk.PipelineShaderStageCreateInfo {
	return []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertex,
			PName:  safeString(shaderEntryPoint),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragment,
			PName:  safeString(shaderEntryPoint),
		},
	}
}
