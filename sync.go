package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// frameSync holds the synchronization objects of one frame. They are created
// at the start of the frame and destroyed at its end.
type frameSync struct {
	device   vk.Device
	acquired vk.Semaphore
	fence    vk.Fence
}

func newFrameSync(device vk.Device) (*frameSync, error) {
	s := &frameSync{device: device}
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &s.acquired)
	if isError(ret) {
		return nil, resultErr("vkCreateSemaphore", ret)
	}
	ret = vk.CreateFence(device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &s.fence)
	if isError(ret) {
		s.destroy()
		return nil, resultErr("vkCreateFence", ret)
	}
	return s, nil
}

func (s *frameSync) destroy() {
	if s.fence != vk.NullFence {
		vk.DestroyFence(s.device, s.fence, nil)
		s.fence = vk.NullFence
	}
	if s.acquired != vk.NullSemaphore {
		vk.DestroySemaphore(s.device, s.acquired, nil)
		s.acquired = vk.NullSemaphore
	}
}

// waitWithRetry repeats wait while it reports a timeout or not-ready status.
// There is no retry limit. Any other failure is returned as a *ResultError.
func waitWithRetry(op string, wait func() vk.Result) (retries int, err error) {
	for {
		ret := wait()
		switch {
		case ret == vk.Success:
			return retries, nil
		case isTransient(ret):
			retries++
			Logger().Debug("wait timed out, retrying", "op", op, "retries", retries)
		default:
			return retries, resultErr(op, ret)
		}
	}
}
