package dieselvk

import (
	"context"

	"github.com/pkg/errors"
)

// FrameState is a step of the per-frame protocol.
type FrameState int

const (
	StateIdle FrameState = iota
	StateAcquire
	StateRecord
	StateSubmit
	StateWaitFence
	StatePresent
)

func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAcquire:
		return "Acquire"
	case StateRecord:
		return "Record"
	case StateSubmit:
		return "Submit"
	case StateWaitFence:
		return "WaitFence"
	case StatePresent:
		return "Present"
	}
	return "Unknown"
}

// FrameTarget is the GPU side of a frame. Renderer implements it; tests use a stub.
type FrameTarget interface {
	// BeginFrame creates the frame's semaphore and fence.
	BeginFrame() error
	// Acquire returns the index of the next presentable image.
	Acquire() (uint32, error)
	// RebuildPipeline reloads the fragment shader and replaces the live pipeline.
	RebuildPipeline() error
	// UpdateTransform writes the transform for frame into the uniform buffer.
	UpdateTransform(frame uint64) error
	// Record fills the command buffer for the given image.
	Record(image uint32) error
	Submit() error
	// WaitFence blocks until the submission completes.
	WaitFence() error
	Present(image uint32) error
	// EndFrame destroys the frame's synchronization objects. fenced reports
	// whether the frame's fence was observed signaled.
	EndFrame(fenced bool)
}

// FrameLoop drives one frame in flight through Acquire, Record, Submit,
// WaitFence and Present.
type FrameLoop struct {
	target FrameTarget
	events EventSource
	flag   *ReloadFlag
	pacer  *Pacer
	frame  uint64
	state  FrameState
}

func NewFrameLoop(target FrameTarget, events EventSource, flag *ReloadFlag, pacer *Pacer) *FrameLoop {
	return &FrameLoop{target: target, events: events, flag: flag, pacer: pacer}
}

// Frame is the number of completed frames.
func (l *FrameLoop) Frame() uint64 {
	return l.frame
}

// State is the step the loop last entered.
func (l *FrameLoop) State() FrameState {
	return l.state
}

// Step runs one complete frame. Any error is fatal for the loop.
func (l *FrameLoop) Step() error {
	if err := l.target.BeginFrame(); err != nil {
		return errors.Wrap(err, "begin frame")
	}
	fenced := false
	defer func() {
		l.target.EndFrame(fenced)
		l.state = StateIdle
	}()

	l.state = StateAcquire
	image, err := l.target.Acquire()
	if err != nil {
		return errors.Wrap(err, "acquire")
	}

	if l.flag.Consume() {
		if err := l.target.RebuildPipeline(); err != nil {
			return errors.Wrap(err, "hot reload")
		}
	}
	if err := l.target.UpdateTransform(l.frame); err != nil {
		return errors.Wrap(err, "update transform")
	}

	l.state = StateRecord
	if err := l.target.Record(image); err != nil {
		return errors.Wrap(err, "record")
	}

	l.state = StateSubmit
	if err := l.target.Submit(); err != nil {
		return errors.Wrap(err, "submit")
	}

	l.state = StateWaitFence
	if err := l.target.WaitFence(); err != nil {
		return errors.Wrap(err, "wait fence")
	}
	fenced = true

	l.state = StatePresent
	if err := l.target.Present(image); err != nil {
		return errors.Wrap(err, "present")
	}
	l.frame++
	return nil
}

// Run steps frames until ctx is cancelled, the window asks to close, or a frame fails.
func (l *FrameLoop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			Logger().Info("render loop cancelled", "frames", l.frame)
			return nil
		}
		if l.events != nil {
			l.events.PollEvents()
			if l.events.ShouldClose() {
				Logger().Info("window closed", "frames", l.frame)
				return nil
			}
		}
		start := l.pacer.Start()
		if err := l.Step(); err != nil {
			return err
		}
		l.pacer.Wait(start)
	}
}
