package dieselvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SurfaceProvider is the window system as seen by the renderer.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	Extent() (width, height uint32)
}

// EventSource is pumped once per frame.
type EventSource interface {
	PollEvents()
	ShouldClose() bool
}

// Display wraps a fixed-size GLFW window without a client API.
type Display struct {
	window *glfw.Window
}

// NewDisplay opens the window. glfw.Init must have been called on the main thread.
func NewDisplay(cfg *Config) (*Display, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.AppName, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfw: create window")
	}
	return &Display{window: window}, nil
}

func (d *Display) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

func (d *Display) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "glfw: create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (d *Display) Extent() (uint32, uint32) {
	w, h := d.window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (d *Display) PollEvents() {
	glfw.PollEvents()
}

func (d *Display) ShouldClose() bool {
	return d.window.ShouldClose()
}

func (d *Display) Destroy() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
}
