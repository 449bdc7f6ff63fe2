package dieselvk

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	ErrNoDevice               = errors.New("vulkan: no physical device found")
	ErrNoQueueFamily          = errors.New("vulkan: no suitable queue family")
	ErrNoMemoryType           = errors.New("vulkan: no suitable memory type")
	ErrNoSurfaceFormat        = errors.New("vulkan: surface reports no formats")
	ErrDepthFormatUnsupported = errors.New("vulkan: depth format unsupported for attachment use")
	ErrShaderLoad             = errors.New("shader: unable to load bytecode")
)

// ResultError is a Vulkan call that returned something other than VK_SUCCESS.
type ResultError struct {
	Op     string
	Result vk.Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("vulkan error: %s: %s (%d)", e.Op, vk.Error(e.Result).Error(), e.Result)
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// isTransient reports results that a blocking wait may retry.
func isTransient(ret vk.Result) bool {
	return ret == vk.Timeout || ret == vk.NotReady
}

// NewError wraps a non-success result, naming the calling function as the failing operation.
func NewError(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	op := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		op = newStackFrame(pc).String()
	}
	return errors.WithStack(&ResultError{Op: op, Result: ret})
}

// resultErr is NewError with an explicit operation name.
func resultErr(op string, ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	return errors.WithStack(&ResultError{Op: op, Result: ret})
}

// ResultOf extracts the Vulkan result carried by err, if any.
func ResultOf(err error) (vk.Result, bool) {
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result, true
	}
	return vk.Success, false
}

type stackFrame struct {
	function string
	line     int
}

func newStackFrame(pc uintptr) stackFrame {
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	name := f.Function
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return stackFrame{function: name, line: f.Line}
}

func (s stackFrame) String() string {
	return fmt.Sprintf("%s:%d", s.function, s.line)
}

// Fatal runs the finalizers, logs err and exits. Only the executable calls it.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	Logger().Error("fatal", "err", fmt.Sprintf("%+v", err))
	fmt.Fprintln(os.Stderr, "FATAL:", err)
	os.Exit(1)
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
