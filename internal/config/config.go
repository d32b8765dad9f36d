package config

import (
	"strings"
	"sync"
)

// RenderSettings holds render configuration
type RenderSettings struct {
	mu              sync.RWMutex
	deviceName      string
	samples         int
	startResolution int // in pixels, largest side of the first preview pass
	threads         int // 0 means one per CPU
	maxBounces      int
	fpsLimit        int // 0 means unlimited
}

var globalRenderSettings = &RenderSettings{
	deviceName:      "CPU",
	samples:         20,
	startResolution: 64,
	threads:         0,
	maxBounces:      3,
	fpsLimit:        30,
}

// GetDeviceName returns the name of the compute device to render on
func GetDeviceName() string {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.deviceName
}

// SetDeviceName sets the compute device name, e.g. "CPU"
func SetDeviceName(name string) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.deviceName = strings.ToUpper(strings.TrimSpace(name))
}

// GetSamples returns the progressive sample target
func GetSamples() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.samples
}

// SetSamples sets the progressive sample target
func SetSamples(samples int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.samples = clamp(samples, 1, 4096)
}

// GetStartResolution returns the resolution of the first preview pass
func GetStartResolution() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.startResolution
}

// SetStartResolution sets the resolution of the first preview pass
func SetStartResolution(res int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.startResolution = clamp(res, 8, 1024)
}

// GetThreads returns the render worker count
func GetThreads() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.threads
}

// SetThreads sets the render worker count. Negative values mean automatic.
func SetThreads(threads int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.threads = max(threads, 0)
}

// GetMaxBounces returns the path length limit
func GetMaxBounces() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.maxBounces
}

// SetMaxBounces sets the path length limit
func SetMaxBounces(bounces int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.maxBounces = clamp(bounces, 1, 16)
}

// GetFPSLimit returns the host frame rate cap
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the host frame rate cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fpsLimit = clamp(limit, 0, 240)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
