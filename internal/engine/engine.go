// Package engine defines the narrow contract between scene synthesis and a
// progressive path-tracing engine: enumerate devices, open sessions, build a
// scene into a session, start accumulating and draw the current image.
package engine

import (
	"image"
	"strings"

	"voxtrace/internal/scene"
)

// Error types reported by engines.
const (
	ErrTypeSession = "engine_session_failed"
	ErrTypeScene   = "engine_scene_invalid"
)

// DeviceType identifies a class of compute device.
type DeviceType uint8

const (
	DeviceNone DeviceType = iota
	DeviceCPU
	DeviceCUDA
	DeviceOpenCL
)

// TypeFromString maps a device name such as "CPU" to its type. Unknown names
// map to DeviceNone.
func TypeFromString(name string) DeviceType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CPU":
		return DeviceCPU
	case "CUDA":
		return DeviceCUDA
	case "OPENCL":
		return DeviceOpenCL
	default:
		return DeviceNone
	}
}

func (t DeviceType) String() string {
	switch t {
	case DeviceCPU:
		return "CPU"
	case DeviceCUDA:
		return "CUDA"
	case DeviceOpenCL:
		return "OPENCL"
	default:
		return "NONE"
	}
}

// DeviceInfo describes a compute device. The zero value lets the engine
// substitute its default device.
type DeviceInfo struct {
	Type        DeviceType
	ID          string
	Description string
	Num         int
}

// SessionParams configures a render session.
type SessionParams struct {
	Device          DeviceInfo
	Progressive     bool
	StartResolution int
	Samples         int
	// Threads is the worker count; 0 lets the engine decide.
	Threads    int
	MaxBounces int
}

// BufferParams describes the accumulation buffer dimensions.
type BufferParams struct {
	Width, Height         int
	FullWidth, FullHeight int
}

// DrawTarget receives the accumulated image of a session. The image has its
// first row at the bottom.
type DrawTarget interface {
	DrawImage(img *image.RGBA, width, height int)
}

// DrawParams configures Session.Draw. A nil Target skips presentation.
type DrawParams struct {
	Target DrawTarget
}

// Progress is the human-readable state of a session.
type Progress struct {
	Status    string
	Substatus string
	Sample    int
	Samples   int
	Done      bool
}

// Engine creates render sessions on a device.
type Engine interface {
	// Devices lists available compute devices.
	Devices() []DeviceInfo

	// NewSession sets up device state for a new session. It may block.
	NewSession(params SessionParams) (Session, error)
}

// Session renders one scene progressively. Sessions are safe for concurrent
// use by the host thread and the engine's own workers.
type Session interface {
	// BuildScene creates the engine-native scene, lets build populate it and
	// assigns it to the session. It must be called before Start.
	BuildScene(build func(scene.Sink) error) error

	// Reset sizes the accumulation buffers and sets the sample target.
	Reset(buf BufferParams, samples int)

	// Start begins progressive accumulation in the background.
	Start()

	// Draw presents the currently accumulated image. It never blocks on
	// accumulation.
	Draw(buf BufferParams, params DrawParams)

	// Progress reports status and sub-status text.
	Progress() Progress

	// Close halts accumulation and frees device resources. It blocks until
	// workers have exited.
	Close()
}

// ImageSource is implemented by sessions that can copy out their image. The
// copy has its first row at the top.
type ImageSource interface {
	Image() *image.RGBA
}
