// Command dieselvk renders a spinning cube and reloads its fragment shader
// whenever the compiled bytecode on disk changes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/andewx/dieselvk"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/sync/errgroup"
)

func init() {
	// GLFW and the render loop must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	config   string
	vertex   string
	fragment string
	width    int
	height   int
	debug    bool
	logLevel string
}

func main() {
	dieselvk.Fatal(newRootCmd().Execute())
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "dieselvk",
		Short:         "Vulkan cube renderer with fragment shader hot reload",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "TOML or YAML config file")
	flags.StringVar(&opts.vertex, "vert", "", "vertex shader SPIR-V path")
	flags.StringVar(&opts.fragment, "frag", "", "fragment shader SPIR-V path (watched)")
	flags.IntVar(&opts.width, "width", 0, "window width")
	flags.IntVar(&opts.height, "height", 0, "window height")
	flags.BoolVar(&opts.debug, "debug", false, "enable validation layers and debug report")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// loadConfig layers explicitly set flags over the config file over the defaults.
func loadConfig(cmd *cobra.Command, opts *options) (*dieselvk.Config, error) {
	cfg := dieselvk.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = dieselvk.LoadConfig(opts.config); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("vert") {
		cfg.VertexShader = opts.vertex
	}
	if flags.Changed("frag") {
		cfg.FragmentShader = opts.fragment
	}
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Height = opts.height
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(parent context.Context, cfg *dieselvk.Config) error {
	level, _ := cfg.Level()
	dieselvk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	defer glfw.Terminate()

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan init")
	}

	display, err := dieselvk.NewDisplay(cfg)
	if err != nil {
		return err
	}
	defer display.Destroy()

	renderer, err := dieselvk.NewRenderer(cfg, display, dieselvk.FileLoader{})
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	flag := &dieselvk.ReloadFlag{}
	watcher, err := dieselvk.NewShaderWatcher(cfg.FragmentShader, flag)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		return watcher.Run(loopCtx)
	})

	loop := dieselvk.NewFrameLoop(renderer, display, flag, dieselvk.NewPacer(cfg.FrameInterval()))
	loopErr := loop.Run(loopCtx)

	cancel()
	watcher.Close()
	if err := g.Wait(); err != nil && loopErr == nil {
		loopErr = err
	}
	return loopErr
}
