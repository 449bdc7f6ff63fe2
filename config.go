package dieselvk

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"gopkg.in/yaml.v3"
)

// Config holds the renderer settings. It can be read from a TOML or YAML file;
// any field left out of the file keeps its default.
type Config struct {
	AppName          string   `toml:"app_name" yaml:"app_name"`
	Width            int      `toml:"width" yaml:"width"`
	Height           int      `toml:"height" yaml:"height"`
	VertexShader     string   `toml:"vertex_shader" yaml:"vertex_shader"`
	FragmentShader   string   `toml:"fragment_shader" yaml:"fragment_shader"`
	FrameRate        int      `toml:"frame_rate" yaml:"frame_rate"`
	FenceTimeoutMs   int      `toml:"fence_timeout_ms" yaml:"fence_timeout_ms"`
	AcquireTimeoutMs int      `toml:"acquire_timeout_ms" yaml:"acquire_timeout_ms"`
	DepthFormat      string   `toml:"depth_format" yaml:"depth_format"`
	Debug            bool     `toml:"debug" yaml:"debug"`
	ValidationLayers []string `toml:"validation_layers" yaml:"validation_layers"`
	InstanceExts     []string `toml:"instance_extensions" yaml:"instance_extensions"`
	LogLevel         string   `toml:"log_level" yaml:"log_level"`
}

var depthFormats = map[string]vk.Format{
	"d16":   vk.FormatD16Unorm,
	"d16s8": vk.FormatD16UnormS8Uint,
	"d24s8": vk.FormatD24UnormS8Uint,
	"d32":   vk.FormatD32Sfloat,
	"d32s8": vk.FormatD32SfloatS8Uint,
}

func DefaultConfig() *Config {
	return &Config{
		AppName:          "dieselvk",
		Width:            800,
		Height:           600,
		VertexShader:     "shaders/sample.vert.spv",
		FragmentShader:   "shaders/sample.frag.spv",
		FrameRate:        60,
		FenceTimeoutMs:   100,
		AcquireTimeoutMs: 1000,
		DepthFormat:      "d16",
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		LogLevel:         "info",
	}
}

// LoadConfig reads path over the defaults. The decoder is picked by extension:
// .toml, or .yaml/.yml.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config: decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("config: window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FragmentShader == "" || c.VertexShader == "" {
		return errors.New("config: shader paths are required")
	}
	if c.FrameRate < 0 {
		return errors.Errorf("config: negative frame rate %d", c.FrameRate)
	}
	if c.FenceTimeoutMs <= 0 || c.AcquireTimeoutMs <= 0 {
		return errors.New("config: timeouts must be positive")
	}
	if _, ok := depthFormats[strings.ToLower(c.DepthFormat)]; !ok {
		return errors.Errorf("config: unknown depth format %q", c.DepthFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, errors.Wrapf(err, "config: log level %q", c.LogLevel)
	}
	return lvl, nil
}

func (c *Config) depthFormat() vk.Format {
	if f, ok := depthFormats[strings.ToLower(c.DepthFormat)]; ok {
		return f
	}
	return vk.FormatD16Unorm
}

// FrameInterval is the pacing target; zero disables pacing.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.FrameRate)
}

func (c *Config) fenceTimeout() uint64 {
	return uint64(time.Duration(c.FenceTimeoutMs) * time.Millisecond)
}

func (c *Config) acquireTimeout() uint64 {
	return uint64(time.Duration(c.AcquireTimeoutMs) * time.Millisecond)
}
