package dieselvk

import (
	"slices"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const swapchainExtension = "VK_KHR_swapchain"

// Context owns the instance, surface, logical device and queues.
// Everything else is created from it and destroyed before it.
type Context struct {
	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	surface       vk.Surface
	gpu           vk.PhysicalDevice
	gpuProperties vk.PhysicalDeviceProperties
	memProperties vk.PhysicalDeviceMemoryProperties
	device        vk.Device
	families      QueueFamilies
	graphicsQueue vk.Queue
	presentQueue  vk.Queue
}

// NewContext brings up Vulkan on the first physical device that the loader reports.
// On failure everything created so far is released.
func NewContext(cfg *Config, surfaces SurfaceProvider) (_ *Context, err error) {
	c := &Context{}
	defer func() {
		if err != nil {
			c.Destroy()
		}
	}()

	layers, err := c.createInstance(cfg, surfaces.RequiredInstanceExtensions())
	if err != nil {
		return nil, err
	}
	if c.surface, err = surfaces.CreateSurface(c.instance); err != nil {
		return nil, err
	}
	if err = c.selectDevice(); err != nil {
		return nil, err
	}
	flags, present := queueCapabilities(c.gpu, c.surface)
	if c.families, err = FindQueueFamilies(flags, present); err != nil {
		return nil, err
	}
	Logger().Info("queue families resolved",
		"graphics", c.families.Graphics, "present", c.families.Present, "separate", c.families.Separate())

	if err = c.createDevice(layers); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) createInstance(cfg *Config, required []string) ([]string, error) {
	actual, err := InstanceExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	wanted := append([]string{}, cfg.InstanceExts...)
	if cfg.Debug {
		wanted = append(wanted, debugReportExtension)
	}
	exts := extensionSet{required: required, wanted: wanted, actual: actual}
	if missing := exts.MissingRequired(); len(missing) > 0 {
		Logger().Warn("missing required instance extensions", "names", missing)
	}
	if missing := exts.MissingWanted(); len(missing) > 0 {
		Logger().Warn("skipping unavailable instance extensions", "names", missing)
	}

	var layers []string
	if cfg.Debug {
		available, err := ValidationLayers()
		if err != nil {
			return nil, errors.Wrap(err, "enumerate layers")
		}
		set := extensionSet{wanted: cfg.ValidationLayers, actual: available}
		if missing := set.MissingWanted(); len(missing) > 0 {
			Logger().Warn("skipping unavailable validation layers", "names", missing)
		}
		layers = set.Enabled()
	}

	enabled := exts.Enabled()
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        safeString("dieselvk"),
		},
		EnabledExtensionCount:   uint32(len(enabled)),
		PpEnabledExtensionNames: safeStrings(enabled),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &instance)
	if isError(ret) {
		return nil, resultErr("vkCreateInstance", ret)
	}
	c.instance = instance
	if err := vk.InitInstance(instance); err != nil {
		return nil, errors.Wrap(err, "vulkan: init instance")
	}
	Logger().Info("instance created", "extensions", len(enabled), "layers", len(layers))

	if cfg.Debug && slices.Contains(enabled, debugReportExtension) {
		if c.debugCallback, err = createDebugCallback(instance); err != nil {
			return nil, err
		}
	}
	return layers, nil
}

// selectDevice takes the first enumerated GPU.
func (c *Context) selectDevice() error {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(c.instance, &count, nil)
	if isError(ret) {
		return resultErr("vkEnumeratePhysicalDevices", ret)
	}
	if count == 0 {
		return ErrNoDevice
	}
	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(c.instance, &count, gpus)
	if isError(ret) {
		return resultErr("vkEnumeratePhysicalDevices", ret)
	}
	c.gpu = gpus[0]
	vk.GetPhysicalDeviceProperties(c.gpu, &c.gpuProperties)
	c.gpuProperties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(c.gpu, &c.memProperties)
	c.memProperties.Deref()
	Logger().Info("physical device selected",
		"name", vk.ToString(c.gpuProperties.DeviceName[:]), "count", count)
	return nil
}

func (c *Context) createDevice(layers []string) error {
	actual, err := DeviceExtensions(c.gpu)
	if err != nil {
		return errors.Wrap(err, "enumerate device extensions")
	}
	exts := extensionSet{required: []string{swapchainExtension}, actual: actual}
	if missing := exts.MissingRequired(); len(missing) > 0 {
		Logger().Warn("missing required device extensions", "names", missing)
	}
	enabled := exts.Enabled()
	queueInfos := c.families.createInfos()

	var device vk.Device
	ret := vk.CreateDevice(c.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(enabled)),
		PpEnabledExtensionNames: safeStrings(enabled),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &device)
	if isError(ret) {
		return resultErr("vkCreateDevice", ret)
	}
	c.device = device

	vk.GetDeviceQueue(device, c.families.Graphics, 0, &c.graphicsQueue)
	if c.families.Separate() {
		vk.GetDeviceQueue(device, c.families.Present, 0, &c.presentQueue)
	} else {
		c.presentQueue = c.graphicsQueue
	}
	return nil
}

func (c *Context) Instance() vk.Instance                               { return c.instance }
func (c *Context) Surface() vk.Surface                                 { return c.surface }
func (c *Context) PhysicalDevice() vk.PhysicalDevice                   { return c.gpu }
func (c *Context) Device() vk.Device                                   { return c.device }
func (c *Context) Families() QueueFamilies                             { return c.families }
func (c *Context) GraphicsQueue() vk.Queue                             { return c.graphicsQueue }
func (c *Context) PresentQueue() vk.Queue                              { return c.presentQueue }
func (c *Context) MemoryProperties() vk.PhysicalDeviceMemoryProperties { return c.memProperties }

// Destroy waits for the device to go idle and releases everything in reverse order.
// It is safe to call on a partially constructed context.
func (c *Context) Destroy() {
	if c.device != nil {
		vk.DeviceWaitIdle(c.device)
		vk.DestroyDevice(c.device, nil)
		c.device = nil
	}
	if c.surface != vk.NullSurface {
		vk.DestroySurface(c.instance, c.surface, nil)
		c.surface = vk.NullSurface
	}
	if c.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(c.instance, c.debugCallback, nil)
		c.debugCallback = vk.NullDebugReportCallback
	}
	if c.instance != nil {
		vk.DestroyInstance(c.instance, nil)
		c.instance = nil
	}
}
