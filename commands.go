package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBufferManager owns the graphics command pool and the one primary
// buffer that is re-recorded every frame.
type CommandBufferManager struct {
	device vk.Device
	pool   vk.CommandPool
	buffer vk.CommandBuffer
}

func NewCommandBufferManager(device vk.Device, graphicsQueueIndex uint32) (*CommandBufferManager, error) {
	m := &CommandBufferManager{device: device}
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: graphicsQueueIndex,
		// Lets the frame buffer be reset on its own.
		Flags: vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &m.pool)
	if isError(ret) {
		return nil, resultErr("vkCreateCommandPool", ret)
	}

	buffers := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        m.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if isError(ret) {
		m.Destroy()
		return nil, resultErr("vkAllocateCommandBuffers", ret)
	}
	m.buffer = buffers[0]
	return m, nil
}

// Begin resets the buffer and opens it for a one-time recording.
func (m *CommandBufferManager) Begin() (vk.CommandBuffer, error) {
	ret := vk.ResetCommandBuffer(m.buffer, 0)
	if isError(ret) {
		return nil, resultErr("vkResetCommandBuffer", ret)
	}
	ret = vk.BeginCommandBuffer(m.buffer, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if isError(ret) {
		return nil, resultErr("vkBeginCommandBuffer", ret)
	}
	return m.buffer, nil
}

func (m *CommandBufferManager) Buffer() vk.CommandBuffer {
	return m.buffer
}

func (m *CommandBufferManager) Destroy() {
	if m.buffer != nil {
		vk.FreeCommandBuffers(m.device, m.pool, 1, []vk.CommandBuffer{m.buffer})
		m.buffer = nil
	}
	if m.pool != vk.NullCommandPool {
		vk.DestroyCommandPool(m.device, m.pool, nil)
		m.pool = vk.NullCommandPool
	}
}
