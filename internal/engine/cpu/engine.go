// Package cpu is a small progressive path tracer running on goroutines.
// It implements engine.Engine for the "CPU" device.
package cpu

import (
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxtrace/internal/engine"
)

const (
	defaultMaxBounces = 3
	defaultSamples    = 20
)

// Engine creates CPU render sessions.
type Engine struct {
	// Background is the radiance of rays escaping the scene.
	Background mgl32.Vec3
}

var _ engine.Engine = (*Engine)(nil)

// New returns a CPU engine with a dim grey background.
func New() *Engine {
	return &Engine{Background: mgl32.Vec3{0.2, 0.2, 0.2}}
}

// Devices returns the single CPU device.
func (e *Engine) Devices() []engine.DeviceInfo {
	return []engine.DeviceInfo{{
		Type:        engine.DeviceCPU,
		ID:          "CPU",
		Description: fmt.Sprintf("%s/%s, %d threads", runtime.GOOS, runtime.GOARCH, runtime.NumCPU()),
	}}
}

// NewSession creates a session. Devices other than the CPU fall back to it.
func (e *Engine) NewSession(params engine.SessionParams) (engine.Session, error) {
	if params.Device.Type != engine.DeviceCPU {
		params.Device = e.Devices()[0]
	}
	threads := params.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if params.Samples <= 0 {
		params.Samples = defaultSamples
	}
	if params.MaxBounces <= 0 {
		params.MaxBounces = defaultMaxBounces
	}
	return &Session{
		id:         uuid.NewString(),
		params:     params,
		threads:    threads,
		background: e.Background,
		status:     "Waiting",
	}, nil
}
