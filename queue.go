package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilies are the family indices the device was created with.
type QueueFamilies struct {
	Graphics uint32
	Present  uint32
}

// Separate is true when presentation happens on a different family than rendering.
func (q QueueFamilies) Separate() bool {
	return q.Graphics != q.Present
}

// Indices returns the distinct family indices, graphics first.
func (q QueueFamilies) Indices() []uint32 {
	if q.Separate() {
		return []uint32{q.Graphics, q.Present}
	}
	return []uint32{q.Graphics}
}

// createInfos requests one queue from every distinct family.
func (q QueueFamilies) createInfos() []vk.DeviceQueueCreateInfo {
	var infos []vk.DeviceQueueCreateInfo
	for _, index := range q.Indices() {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: index,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return infos
}

// FindQueueFamilies picks the graphics and present families from per-family
// capability flags and surface support. A family that does both wins; otherwise
// the first graphics family is paired with the first presenting family.
func FindQueueFamilies(flags []vk.QueueFlags, present []bool) (QueueFamilies, error) {
	graphics, presenting := -1, -1
	for i := range flags {
		isGraphics := flags[i]&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		canPresent := i < len(present) && present[i]
		if isGraphics && canPresent {
			return QueueFamilies{Graphics: uint32(i), Present: uint32(i)}, nil
		}
		if isGraphics && graphics < 0 {
			graphics = i
		}
		if canPresent && presenting < 0 {
			presenting = i
		}
	}
	switch {
	case graphics < 0 && presenting < 0:
		return QueueFamilies{}, errors.Wrap(ErrNoQueueFamily, "no graphics or present support")
	case graphics < 0:
		return QueueFamilies{}, errors.Wrap(ErrNoQueueFamily, "no graphics support")
	case presenting < 0:
		return QueueFamilies{}, errors.Wrap(ErrNoQueueFamily, "no present support")
	}
	return QueueFamilies{Graphics: uint32(graphics), Present: uint32(presenting)}, nil
}

// queueCapabilities queries the flags and surface support of every family on gpu.
func queueCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.QueueFlags, []bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)

	flags := make([]vk.QueueFlags, count)
	present := make([]bool, count)
	for i := uint32(0); i < count; i++ {
		props[i].Deref()
		flags[i] = props[i].QueueFlags
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, i, surface, &supported)
		present[i] = supported.B()
	}
	return flags, present
}
