package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// ColorTarget is one presentable swapchain image and its view.
type ColorTarget struct {
	Image vk.Image
	View  vk.ImageView
}

// Targets are the render targets derived from the swapchain: one color view per
// image, one depth buffer shared by all of them, the render pass, and one
// framebuffer per image.
type Targets struct {
	device       vk.Device
	Swapchain    vk.Swapchain
	Format       vk.SurfaceFormat
	Extent       vk.Extent2D
	Colors       []ColorTarget
	Depth        DepthTarget
	RenderPass   vk.RenderPass
	Framebuffers []vk.Framebuffer
}

// NewTargets builds the swapchain and everything that hangs off it.
func NewTargets(ctx *Context, cfg *Config, width, height uint32) (_ *Targets, err error) {
	t := &Targets{device: ctx.Device()}
	defer func() {
		if err != nil {
			t.Destroy()
		}
	}()

	caps, err := surfaceCapabilities(ctx.PhysicalDevice(), ctx.Surface())
	if err != nil {
		return nil, err
	}
	formats, err := surfaceFormats(ctx.PhysicalDevice(), ctx.Surface())
	if err != nil {
		return nil, err
	}
	if t.Format, err = ChooseSurfaceFormat(formats); err != nil {
		return nil, err
	}
	t.Extent = ChooseExtent(caps, width, height)

	if err = t.createSwapchain(ctx, caps); err != nil {
		return nil, err
	}
	if err = t.createColorViews(); err != nil {
		return nil, err
	}
	if t.Depth, err = createDepthTarget(ctx, cfg.depthFormat(), t.Extent); err != nil {
		return nil, err
	}
	if t.RenderPass, err = createRenderPass(t.device, t.Format.Format, t.Depth.Format); err != nil {
		return nil, err
	}
	if t.Framebuffers, err = createFramebuffers(t.device, t.RenderPass, t.Colors, t.Depth.View, t.Extent); err != nil {
		return nil, err
	}
	Logger().Info("swapchain ready",
		"width", t.Extent.Width, "height", t.Extent.Height, "images", len(t.Colors), "format", t.Format.Format)
	return t, nil
}

func surfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps)
	if isError(ret) {
		return caps, resultErr("vkGetPhysicalDeviceSurfaceCapabilitiesKHR", ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

func surfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	if isError(ret) {
		return nil, resultErr("vkGetPhysicalDeviceSurfaceFormatsKHR", ret)
	}
	formats := make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats)
	if isError(ret) {
		return nil, resultErr("vkGetPhysicalDeviceSurfaceFormatsKHR", ret)
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

// ChooseSurfaceFormat takes the first reported format. A single undefined entry
// means the surface has no preference, and B8G8R8A8_UNORM is used.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, ErrNoSurfaceFormat
	}
	format := formats[0]
	if len(formats) == 1 && format.Format == vk.FormatUndefined {
		format.Format = vk.FormatB8g8r8a8Unorm
	}
	return format, nil
}

// ChooseExtent uses the surface's current extent unless the surface leaves it
// to the swapchain, in which case the window size is clamped into the allowed range.
func ChooseExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  max(caps.MinImageExtent.Width, min(width, caps.MaxImageExtent.Width)),
		Height: max(caps.MinImageExtent.Height, min(height, caps.MaxImageExtent.Height)),
	}
}

var compositeAlphaPreference = []vk.CompositeAlphaFlagBits{
	vk.CompositeAlphaOpaqueBit,
	vk.CompositeAlphaPreMultipliedBit,
	vk.CompositeAlphaPostMultipliedBit,
	vk.CompositeAlphaInheritBit,
}

// ChooseCompositeAlpha returns the first supported mode in preference order.
func ChooseCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for _, mode := range compositeAlphaPreference {
		if supported&vk.CompositeAlphaFlags(mode) != 0 {
			return mode
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// ChoosePreTransform prefers the identity transform.
func ChoosePreTransform(supported vk.SurfaceTransformFlags, current vk.SurfaceTransformFlagBits) vk.SurfaceTransformFlagBits {
	if supported&vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit) != 0 {
		return vk.SurfaceTransformIdentityBit
	}
	return current
}

// sharingFor shares images between families only when presentation has its own family.
func sharingFor(families QueueFamilies) (vk.SharingMode, []uint32) {
	if families.Separate() {
		return vk.SharingModeConcurrent, families.Indices()
	}
	return vk.SharingModeExclusive, nil
}

func (t *Targets) createSwapchain(ctx *Context, caps vk.SurfaceCapabilities) error {
	sharing, indices := sharingFor(ctx.Families())

	var swapchain vk.Swapchain
	ret := vk.CreateSwapchain(t.device, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               ctx.Surface(),
		MinImageCount:         caps.MinImageCount,
		ImageFormat:           t.Format.Format,
		ImageColorSpace:       t.Format.ColorSpace,
		ImageExtent:           t.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferSrcBit),
		ImageSharingMode:      sharing,
		QueueFamilyIndexCount: uint32(len(indices)),
		PQueueFamilyIndices:   indices,
		PreTransform:          ChoosePreTransform(caps.SupportedTransforms, caps.CurrentTransform),
		CompositeAlpha:        ChooseCompositeAlpha(caps.SupportedCompositeAlpha),
		PresentMode:           vk.PresentModeFifo,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}, nil, &swapchain)
	if isError(ret) {
		return resultErr("vkCreateSwapchainKHR", ret)
	}
	t.Swapchain = swapchain

	var count uint32
	ret = vk.GetSwapchainImages(t.device, swapchain, &count, nil)
	if isError(ret) {
		return resultErr("vkGetSwapchainImagesKHR", ret)
	}
	images := make([]vk.Image, count)
	ret = vk.GetSwapchainImages(t.device, swapchain, &count, images)
	if isError(ret) {
		return resultErr("vkGetSwapchainImagesKHR", ret)
	}
	t.Colors = make([]ColorTarget, count)
	for i, image := range images {
		t.Colors[i].Image = image
	}
	return nil
}

func (t *Targets) createColorViews() error {
	for i := range t.Colors {
		view, err := createImageView(t.device, t.Colors[i].Image, t.Format.Format,
			vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return err
		}
		t.Colors[i].View = view
	}
	return nil
}

func createImageView(device vk.Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlags) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return vk.NullImageView, resultErr("vkCreateImageView", ret)
	}
	return view, nil
}

// Destroy releases the targets in reverse creation order.
func (t *Targets) Destroy() {
	for _, fb := range t.Framebuffers {
		vk.DestroyFramebuffer(t.device, fb, nil)
	}
	t.Framebuffers = nil
	if t.RenderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(t.device, t.RenderPass, nil)
		t.RenderPass = vk.NullRenderPass
	}
	t.Depth.destroy(t.device)
	for _, c := range t.Colors {
		if c.View != vk.NullImageView {
			vk.DestroyImageView(t.device, c.View, nil)
		}
	}
	t.Colors = nil
	if t.Swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(t.device, t.Swapchain, nil)
		t.Swapchain = vk.NullSwapchain
	}
}
