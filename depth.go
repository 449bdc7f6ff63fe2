package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DepthTarget is the depth buffer shared by every framebuffer.
type DepthTarget struct {
	Format vk.Format
	Image  vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
}

// ChooseDepthTiling prefers optimal tiling and falls back to linear. It fails
// when neither supports depth-stencil attachments.
func ChooseDepthTiling(props vk.FormatProperties) (vk.ImageTiling, error) {
	attachment := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	switch {
	case props.OptimalTilingFeatures&attachment != 0:
		return vk.ImageTilingOptimal, nil
	case props.LinearTilingFeatures&attachment != 0:
		return vk.ImageTilingLinear, nil
	}
	return 0, ErrDepthFormatUnsupported
}

// depthAspect adds the stencil aspect for combined formats.
func depthAspect(format vk.Format) vk.ImageAspectFlags {
	aspect := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	switch format {
	case vk.FormatD16UnormS8Uint, vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint:
		aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	}
	return aspect
}

func createDepthTarget(ctx *Context, format vk.Format, extent vk.Extent2D) (d DepthTarget, err error) {
	device := ctx.Device()
	d.Format = format
	defer func() {
		if err != nil {
			d.destroy(device)
		}
	}()

	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(ctx.PhysicalDevice(), format, &props)
	props.Deref()
	tiling, err := ChooseDepthTiling(props)
	if err != nil {
		return d, errors.Wrapf(err, "format %d", format)
	}

	ret := vk.CreateImage(device, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        tiling,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &d.Image)
	if isError(ret) {
		return d, resultErr("vkCreateImage", ret)
	}

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, d.Image, &reqs)
	reqs.Deref()
	if d.Memory, err = allocate(device, ctx.MemoryProperties(), reqs,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)); err != nil {
		return d, errors.Wrap(err, "depth buffer")
	}
	if ret = vk.BindImageMemory(device, d.Image, d.Memory, 0); isError(ret) {
		return d, resultErr("vkBindImageMemory", ret)
	}
	if d.View, err = createImageView(device, d.Image, format, depthAspect(format)); err != nil {
		return d, err
	}
	return d, nil
}

func (d *DepthTarget) destroy(device vk.Device) {
	if d.View != vk.NullImageView {
		vk.DestroyImageView(device, d.View, nil)
		d.View = vk.NullImageView
	}
	if d.Image != vk.NullImage {
		vk.DestroyImage(device, d.Image, nil)
		d.Image = vk.NullImage
	}
	if d.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(device, d.Memory, nil)
		d.Memory = vk.NullDeviceMemory
	}
}
