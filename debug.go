package dieselvk

import (
	"context"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

const debugReportExtension = "VK_EXT_debug_report"

func createDebugCallback(instance vk.Instance) (vk.DebugReportCallback, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
	}, nil, &callback)
	if isError(ret) {
		return vk.NullDebugReportCallback, resultErr("vkCreateDebugReportCallbackEXT", ret)
	}
	return callback, nil
}

// debugLevel maps report flags onto log levels.
func debugLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	Logger().Log(context.Background(), debugLevel(flags), pMessage, "layer", pLayerPrefix, "code", messageCode)
	return vk.Bool32(vk.False)
}
