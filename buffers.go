package dieselvk

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a host-visible, coherent buffer and its backing memory.
type Buffer struct {
	device vk.Device
	Buffer vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
	mapped unsafe.Pointer
}

func NewBuffer(ctx *Context, size int, usage vk.BufferUsageFlagBits) (_ *Buffer, err error) {
	b := &Buffer{device: ctx.Device(), Size: vk.DeviceSize(size)}
	defer func() {
		if err != nil {
			b.Destroy()
		}
	}()

	ret := vk.CreateBuffer(b.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(usage),
		Size:        b.Size,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &b.Buffer)
	if isError(ret) {
		return nil, resultErr("vkCreateBuffer", ret)
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.device, b.Buffer, &reqs)
	reqs.Deref()
	b.Memory, err = allocate(b.device, ctx.MemoryProperties(), reqs,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, errors.Wrap(err, "buffer")
	}
	if ret = vk.BindBufferMemory(b.device, b.Buffer, b.Memory, 0); isError(ret) {
		return nil, resultErr("vkBindBufferMemory", ret)
	}
	return b, nil
}

const float32Size = 4

// NewVertexBuffer creates a vertex buffer holding data.
func NewVertexBuffer(ctx *Context, data []float32) (*Buffer, error) {
	b, err := NewBuffer(ctx, len(data)*float32Size, vk.BufferUsageVertexBufferBit)
	if err != nil {
		return nil, err
	}
	if err := b.Upload(data); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// NewUniformBuffer creates a uniform buffer that stays mapped for its lifetime.
func NewUniformBuffer(ctx *Context, size int) (*Buffer, error) {
	b, err := NewBuffer(ctx, size, vk.BufferUsageUniformBufferBit)
	if err != nil {
		return nil, err
	}
	var ptr unsafe.Pointer
	if ret := vk.MapMemory(b.device, b.Memory, 0, b.Size, 0, &ptr); isError(ret) {
		b.Destroy()
		return nil, resultErr("vkMapMemory", ret)
	}
	b.mapped = ptr
	return b, nil
}

func (b *Buffer) fits(data []float32) error {
	if size := vk.DeviceSize(len(data) * float32Size); size > b.Size {
		return errors.Errorf("buffer: %d bytes exceed capacity %d", size, b.Size)
	}
	return nil
}

// Upload maps, copies and unmaps.
func (b *Buffer) Upload(data []float32) error {
	if err := b.fits(data); err != nil {
		return err
	}
	var ptr unsafe.Pointer
	if ret := vk.MapMemory(b.device, b.Memory, 0, vk.DeviceSize(len(data)*float32Size), 0, &ptr); isError(ret) {
		return resultErr("vkMapMemory", ret)
	}
	n := vk.MemCopyFloat32(ptr, data)
	vk.UnmapMemory(b.device, b.Memory)
	if n != len(data) {
		return errors.Errorf("buffer: copied %d of %d floats", n, len(data))
	}
	return nil
}

// Write copies into the persistent mapping.
func (b *Buffer) Write(data []float32) error {
	if b.mapped == nil {
		return b.Upload(data)
	}
	if err := b.fits(data); err != nil {
		return err
	}
	if n := vk.MemCopyFloat32(b.mapped, data); n != len(data) {
		return errors.Errorf("buffer: copied %d of %d floats", n, len(data))
	}
	return nil
}

func (b *Buffer) Destroy() {
	if b.mapped != nil {
		vk.UnmapMemory(b.device, b.Memory)
		b.mapped = nil
	}
	if b.Buffer != vk.NullBuffer {
		vk.DestroyBuffer(b.device, b.Buffer, nil)
		b.Buffer = vk.NullBuffer
	}
	if b.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.device, b.Memory, nil)
		b.Memory = vk.NullDeviceMemory
	}
}
