package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// FramebufferAttachments pairs every color view with the one depth view,
// in render pass attachment order.
func FramebufferAttachments[V any](colors []V, depth V) [][]V {
	lists := make([][]V, len(colors))
	for i, color := range colors {
		lists[i] = []V{color, depth}
	}
	return lists
}

func createFramebuffers(device vk.Device, pass vk.RenderPass, colors []ColorTarget,
	depth vk.ImageView, extent vk.Extent2D) ([]vk.Framebuffer, error) {

	views := make([]vk.ImageView, len(colors))
	for i, c := range colors {
		views[i] = c.View
	}
	framebuffers := make([]vk.Framebuffer, 0, len(colors))
	for _, attachments := range FramebufferAttachments(views, depth) {
		var fb vk.Framebuffer
		ret := vk.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}, nil, &fb)
		if isError(ret) {
			for _, created := range framebuffers {
				vk.DestroyFramebuffer(device, created, nil)
			}
			return nil, resultErr("vkCreateFramebuffer", ret)
		}
		framebuffers = append(framebuffers, fb)
	}
	return framebuffers, nil
}
