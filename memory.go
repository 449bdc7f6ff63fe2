package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ResolveMemoryType returns the first memory type allowed by typeBits whose
// property flags contain every bit of required.
func ResolveMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	count := props.MemoryTypeCount
	if count > vk.MaxMemoryTypes {
		count = vk.MaxMemoryTypes
	}
	for i := uint32(0); i < count; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		memType := props.MemoryTypes[i]
		memType.Deref()
		if memType.PropertyFlags&required == required {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoMemoryType, "type bits %#x, flags %#x", typeBits, uint32(required))
}

// allocate backs reqs with memory of the required kind.
func allocate(device vk.Device, props vk.PhysicalDeviceMemoryProperties,
	reqs vk.MemoryRequirements, required vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {

	index, err := ResolveMemoryType(props, reqs.MemoryTypeBits, required)
	if err != nil {
		return vk.NullDeviceMemory, err
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: index,
	}, nil, &memory)
	if isError(ret) {
		return vk.NullDeviceMemory, resultErr("vkAllocateMemory", ret)
	}
	return memory, nil
}
