package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var _ FrameTarget = (*Renderer)(nil)

// Renderer owns every GPU object and implements FrameTarget for the spinning cube.
// Construction follows the dependency chain; Destroy runs it backwards.
type Renderer struct {
	cfg         *Config
	loader      ShaderLoader
	ctx         *Context
	targets     *Targets
	commands    *CommandBufferManager
	uniform     *Buffer
	descriptors *Descriptors
	pipeline    *Pipeline
	vertices    *Buffer
	vertexCount uint32
	camera      *Camera
	frame       *frameSync
}

func NewRenderer(cfg *Config, surfaces SurfaceProvider, loader ShaderLoader) (_ *Renderer, err error) {
	r := &Renderer{cfg: cfg, loader: loader}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()

	if r.ctx, err = NewContext(cfg, surfaces); err != nil {
		return nil, err
	}
	width, height := surfaces.Extent()
	if r.targets, err = NewTargets(r.ctx, cfg, width, height); err != nil {
		return nil, err
	}
	if r.commands, err = NewCommandBufferManager(r.ctx.Device(), r.ctx.Families().Graphics); err != nil {
		return nil, err
	}
	if r.uniform, err = NewUniformBuffer(r.ctx, uniformSize); err != nil {
		return nil, errors.Wrap(err, "uniform buffer")
	}
	if r.descriptors, err = NewDescriptors(r.ctx.Device(), r.uniform); err != nil {
		return nil, err
	}
	if r.pipeline, err = NewPipeline(r.ctx, r.targets, r.descriptors, loader, cfg); err != nil {
		return nil, err
	}
	cube := CubeVertices()
	if r.vertices, err = NewVertexBuffer(r.ctx, flattenVertices(cube)); err != nil {
		return nil, errors.Wrap(err, "vertex buffer")
	}
	r.vertexCount = uint32(len(cube))
	r.camera = NewCamera(r.targets.Extent.Width, r.targets.Extent.Height)
	return r, nil
}

func (r *Renderer) BeginFrame() error {
	s, err := newFrameSync(r.ctx.Device())
	if err != nil {
		return err
	}
	r.frame = s
	return nil
}

func (r *Renderer) Acquire() (uint32, error) {
	var image uint32
	_, err := waitWithRetry("vkAcquireNextImageKHR", func() vk.Result {
		ret := vk.AcquireNextImage(r.ctx.Device(), r.targets.Swapchain, r.cfg.acquireTimeout(),
			r.frame.acquired, vk.NullFence, &image)
		if ret == vk.Suboptimal {
			return vk.Success
		}
		return ret
	})
	return image, err
}

// RebuildPipeline reloads the fragment shader from disk. Bytecode that cannot
// be loaded leaves the current pipeline in place; the next file event retries.
func (r *Renderer) RebuildPipeline() error {
	code, err := r.loader.Load(r.cfg.FragmentShader)
	if errors.Is(err, ErrShaderLoad) {
		Logger().Warn("fragment shader not reloaded", "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	return r.pipeline.RebuildFragment(code)
}

func (r *Renderer) UpdateTransform(frame uint64) error {
	return r.uniform.Write(r.camera.MVP(frame).Slice())
}

func (r *Renderer) Record(image uint32) error {
	cmd, err := r.commands.Begin()
	if err != nil {
		return err
	}
	extent := r.targets.Extent
	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0, 0, 0, 0}),
		vk.NewClearDepthStencil(1.0, 0),
	}
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.targets.RenderPass,
		Framebuffer: r.targets.Framebuffers[image],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, r.pipeline.Handle())
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, r.pipeline.Layout,
		0, 1, []vk.DescriptorSet{r.descriptors.Set}, 0, nil)
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{r.vertices.Buffer}, []vk.DeviceSize{0})
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}})
	vk.CmdDraw(cmd, r.vertexCount, 1, 0, 0)
	vk.CmdEndRenderPass(cmd)

	return resultErr("vkEndCommandBuffer", vk.EndCommandBuffer(cmd))
}

func (r *Renderer) Submit() error {
	ret := vk.QueueSubmit(r.ctx.GraphicsQueue(), 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{r.frame.acquired},
		PWaitDstStageMask:  []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{r.commands.Buffer()},
	}}, r.frame.fence)
	return resultErr("vkQueueSubmit", ret)
}

func (r *Renderer) WaitFence() error {
	fences := []vk.Fence{r.frame.fence}
	_, err := waitWithRetry("vkWaitForFences", func() vk.Result {
		return vk.WaitForFences(r.ctx.Device(), 1, fences, vk.True, r.cfg.fenceTimeout())
	})
	return err
}

func (r *Renderer) Present(image uint32) error {
	ret := vk.QueuePresent(r.ctx.PresentQueue(), &vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{r.targets.Swapchain},
		PImageIndices:  []uint32{image},
	})
	if ret == vk.Suboptimal {
		return nil
	}
	return resultErr("vkQueuePresentKHR", ret)
}

// EndFrame releases the frame's sync objects and any pipelines retired during it.
// A frame that never reached its fence drains the device first.
func (r *Renderer) EndFrame(fenced bool) {
	if !fenced {
		vk.DeviceWaitIdle(r.ctx.Device())
	}
	if r.frame != nil {
		r.frame.destroy()
		r.frame = nil
	}
	r.pipeline.ReleaseRetired()
}

// Destroy releases everything in reverse construction order.
func (r *Renderer) Destroy() {
	if r.ctx != nil && r.ctx.Device() != nil {
		vk.DeviceWaitIdle(r.ctx.Device())
	}
	if r.frame != nil {
		r.frame.destroy()
		r.frame = nil
	}
	if r.vertices != nil {
		r.vertices.Destroy()
		r.vertices = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
	if r.descriptors != nil {
		r.descriptors.Destroy()
		r.descriptors = nil
	}
	if r.uniform != nil {
		r.uniform.Destroy()
		r.uniform = nil
	}
	if r.commands != nil {
		r.commands.Destroy()
		r.commands = nil
	}
	if r.targets != nil {
		r.targets.Destroy()
		r.targets = nil
	}
	if r.ctx != nil {
		r.ctx.Destroy()
		r.ctx = nil
	}
	Logger().Info("renderer destroyed")
}
