package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// Descriptors binds the transform uniform buffer at binding 0 of the vertex stage.
type Descriptors struct {
	device vk.Device
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
	Set    vk.DescriptorSet
}

func uniformBinding() vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}
}

func NewDescriptors(device vk.Device, uniform *Buffer) (_ *Descriptors, err error) {
	d := &Descriptors{device: device}
	defer func() {
		if err != nil {
			d.Destroy()
		}
	}()

	bindings := []vk.DescriptorSetLayoutBinding{uniformBinding()}
	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &d.Layout)
	if isError(ret) {
		return nil, resultErr("vkCreateDescriptorSetLayout", ret)
	}

	sizes := []vk.DescriptorPoolSize{{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
	}}
	ret = vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &d.Pool)
	if isError(ret) {
		return nil, resultErr("vkCreateDescriptorPool", ret)
	}

	ret = vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{d.Layout},
	}, &d.Set)
	if isError(ret) {
		return nil, resultErr("vkAllocateDescriptorSets", ret)
	}

	vk.UpdateDescriptorSets(device, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          d.Set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: uniform.Buffer,
			Offset: 0,
			Range:  uniform.Size,
		}},
	}}, 0, nil)
	return d, nil
}

// Destroy frees the pool, which releases the set, then the layout.
func (d *Descriptors) Destroy() {
	if d.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(d.device, d.Pool, nil)
		d.Pool = vk.NullDescriptorPool
	}
	if d.Layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(d.device, d.Layout, nil)
		d.Layout = vk.NullDescriptorSetLayout
	}
}
