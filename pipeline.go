package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PipelineBuilder holds the fixed-function state shared by every build.
// Only the shader stages change between builds.
type PipelineBuilder struct {
	vertexInput   vk.PipelineVertexInputStateCreateInfo
	inputAssembly vk.PipelineInputAssemblyStateCreateInfo
	viewport      vk.PipelineViewportStateCreateInfo
	rasterizer    vk.PipelineRasterizationStateCreateInfo
	multisampling vk.PipelineMultisampleStateCreateInfo
	depthStencil  vk.PipelineDepthStencilStateCreateInfo
	colorBlend    vk.PipelineColorBlendStateCreateInfo
	dynamic       vk.PipelineDynamicStateCreateInfo
}

func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{
		vertexInput:   vertexInputState(),
		inputAssembly: inputAssemblyState(),
		viewport:      viewportState(),
		rasterizer:    rasterizationState(),
		multisampling: multisampleState(),
		depthStencil:  depthStencilState(),
		colorBlend:    colorBlendState(),
		dynamic:       dynamicState(),
	}
}

func (b *PipelineBuilder) createInfo(layout vk.PipelineLayout, pass vk.RenderPass,
	vertex, fragment vk.ShaderModule) vk.GraphicsPipelineCreateInfo {

	stages := shaderStages(vertex, fragment)
	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &b.vertexInput,
		PInputAssemblyState: &b.inputAssembly,
		PViewportState:      &b.viewport,
		PRasterizationState: &b.rasterizer,
		PMultisampleState:   &b.multisampling,
		PDepthStencilState:  &b.depthStencil,
		PColorBlendState:    &b.colorBlend,
		PDynamicState:       &b.dynamic,
		Layout:              layout,
		RenderPass:          pass,
		Subpass:             0,
	}
}

// Build creates one graphics pipeline through cache.
func (b *PipelineBuilder) Build(device vk.Device, cache vk.PipelineCache, layout vk.PipelineLayout,
	pass vk.RenderPass, vertex, fragment vk.ShaderModule) (vk.Pipeline, error) {

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(device, cache, 1,
		[]vk.GraphicsPipelineCreateInfo{b.createInfo(layout, pass, vertex, fragment)}, nil, pipelines)
	if isError(ret) {
		return vk.NullPipeline, resultErr("vkCreateGraphicsPipelines", ret)
	}
	return pipelines[0], nil
}

type retiredPipeline struct {
	pipeline vk.Pipeline
	fragment vk.ShaderModule
}

// retireList defers destruction until the GPU can no longer reference an object.
type retireList[T any] struct {
	items []T
}

func (r *retireList[T]) Push(item T) {
	r.items = append(r.items, item)
}

func (r *retireList[T]) Len() int {
	return len(r.items)
}

// Drain hands every item to release and empties the list.
func (r *retireList[T]) Drain(release func(T)) int {
	n := len(r.items)
	for _, item := range r.items {
		release(item)
	}
	r.items = r.items[:0]
	return n
}

// Pipeline is the single live graphics pipeline and the objects it was built from.
type Pipeline struct {
	device   vk.Device
	pass     vk.RenderPass
	builder  *PipelineBuilder
	Layout   vk.PipelineLayout
	cache    vk.PipelineCache
	vertex   vk.ShaderModule
	fragment vk.ShaderModule
	live     vk.Pipeline
	retired  retireList[retiredPipeline]
}

// NewPipeline loads both shaders and builds the initial pipeline against the
// targets' render pass.
func NewPipeline(ctx *Context, targets *Targets, descriptors *Descriptors,
	loader ShaderLoader, cfg *Config) (_ *Pipeline, err error) {

	p := &Pipeline{
		device:  ctx.Device(),
		pass:    targets.RenderPass,
		builder: NewPipelineBuilder(),
	}
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()

	ret := vk.CreatePipelineLayout(p.device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{descriptors.Layout},
	}, nil, &p.Layout)
	if isError(ret) {
		return nil, resultErr("vkCreatePipelineLayout", ret)
	}
	ret = vk.CreatePipelineCache(p.device, &vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}, nil, &p.cache)
	if isError(ret) {
		return nil, resultErr("vkCreatePipelineCache", ret)
	}

	if p.vertex, err = loadShaderModule(p.device, loader, cfg.VertexShader); err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	if p.fragment, err = loadShaderModule(p.device, loader, cfg.FragmentShader); err != nil {
		return nil, errors.Wrap(err, "fragment shader")
	}
	if p.live, err = p.builder.Build(p.device, p.cache, p.Layout, p.pass, p.vertex, p.fragment); err != nil {
		return nil, err
	}
	Logger().Info("pipeline built", "vertex", cfg.VertexShader, "fragment", cfg.FragmentShader)
	return p, nil
}

// Handle is the pipeline to bind for the next recorded frame.
func (p *Pipeline) Handle() vk.Pipeline {
	return p.live
}

// RebuildFragment swaps in a pipeline built from new fragment bytecode. The
// previous pipeline and fragment module are retired, not destroyed; on failure
// the live pipeline is left untouched.
func (p *Pipeline) RebuildFragment(code []uint32) error {
	fragment, err := createShaderModule(p.device, code)
	if err != nil {
		return errors.Wrap(err, "rebuild fragment shader")
	}
	pipeline, err := p.builder.Build(p.device, p.cache, p.Layout, p.pass, p.vertex, fragment)
	if err != nil {
		vk.DestroyShaderModule(p.device, fragment, nil)
		return errors.Wrap(err, "rebuild pipeline")
	}
	p.retired.Push(retiredPipeline{pipeline: p.live, fragment: p.fragment})
	p.live, p.fragment = pipeline, fragment
	Logger().Info("pipeline rebuilt", "retired", p.retired.Len())
	return nil
}

// ReleaseRetired destroys retired pipelines. Call only once a fence has shown
// the GPU finished every frame that could have bound them.
func (p *Pipeline) ReleaseRetired() int {
	n := p.retired.Drain(func(r retiredPipeline) {
		vk.DestroyPipeline(p.device, r.pipeline, nil)
		vk.DestroyShaderModule(p.device, r.fragment, nil)
	})
	if n > 0 {
		Logger().Debug("retired pipelines released", "count", n)
	}
	return n
}

func (p *Pipeline) Destroy() {
	p.ReleaseRetired()
	if p.live != vk.NullPipeline {
		vk.DestroyPipeline(p.device, p.live, nil)
		p.live = vk.NullPipeline
	}
	if p.fragment != vk.NullShaderModule {
		vk.DestroyShaderModule(p.device, p.fragment, nil)
		p.fragment = vk.NullShaderModule
	}
	if p.vertex != vk.NullShaderModule {
		vk.DestroyShaderModule(p.device, p.vertex, nil)
		p.vertex = vk.NullShaderModule
	}
	if p.cache != vk.NullPipelineCache {
		vk.DestroyPipelineCache(p.device, p.cache, nil)
		p.cache = vk.NullPipelineCache
	}
	if p.Layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(p.device, p.Layout, nil)
		p.Layout = vk.NullPipelineLayout
	}
}
