package dieselvk

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const spirvMagic = 0x07230203

// ShaderLoader resolves a shader path to SPIR-V words.
type ShaderLoader interface {
	Load(path string) ([]uint32, error)
}

// FileLoader reads precompiled SPIR-V from disk.
type FileLoader struct{}

func (FileLoader) Load(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrShaderLoad, "%s: %v", path, err)
	}
	code, err := sliceUint32(data)
	if err != nil {
		return nil, errors.Wrapf(ErrShaderLoad, "%s: %v", path, err)
	}
	return code, nil
}

// sliceUint32 reinterprets little-endian SPIR-V bytes as words.
func sliceUint32(data []byte) ([]uint32, error) {
	if len(data) == 0 {
		return nil, errors.New("empty bytecode")
	}
	if len(data)%4 != 0 {
		return nil, errors.Errorf("bytecode length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, errors.Errorf("bad SPIR-V magic %#08x", words[0])
	}
	return words, nil
}

func createShaderModule(device vk.Device, code []uint32) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, resultErr("vkCreateShaderModule", ret)
	}
	return module, nil
}

// loadShaderModule loads path through loader and wraps it in a module.
func loadShaderModule(device vk.Device, loader ShaderLoader, path string) (vk.ShaderModule, error) {
	code, err := loader.Load(path)
	if err != nil {
		return vk.NullShaderModule, err
	}
	return createShaderModule(device, code)
}
