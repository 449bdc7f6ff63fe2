package dieselvk

import (
	"slices"

	vk "github.com/vulkan-go/vulkan"
)

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	orPanic(NewError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, list)
	orPanic(NewError(ret))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// DeviceExtensions gets a list of extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil)
	orPanic(NewError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list)
	orPanic(NewError(ret))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceLayerProperties(&count, nil)
	orPanic(NewError(ret))
	list := make([]vk.LayerProperties, count)
	ret = vk.EnumerateInstanceLayerProperties(&count, list)
	orPanic(NewError(ret))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

// extensionSet merges required and wanted names against what the platform reports.
// Required names are always enabled so the create call reports what is missing;
// wanted names are enabled only when available.
type extensionSet struct {
	required []string
	wanted   []string
	actual   []string
}

// MissingRequired lists required names the platform does not report.
func (e extensionSet) MissingRequired() []string {
	var missing []string
	for _, name := range e.required {
		if !slices.Contains(e.actual, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// MissingWanted lists wanted names that will be skipped.
func (e extensionSet) MissingWanted() []string {
	var missing []string
	for _, name := range e.wanted {
		if !slices.Contains(e.actual, name) && !slices.Contains(e.required, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Enabled returns required names followed by available wanted names, without duplicates.
func (e extensionSet) Enabled() []string {
	names := make([]string, 0, len(e.required)+len(e.wanted))
	for _, name := range e.required {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for _, name := range e.wanted {
		if slices.Contains(e.actual, name) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// safeString null-terminates s for the C side.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}
