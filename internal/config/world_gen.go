package config

import "sync"

// WorldGenSettings holds demo terrain configuration
type WorldGenSettings struct {
	mu         sync.RWMutex
	seed       int64
	halfExtent int // in voxels
}

var globalWorldGenSettings = &WorldGenSettings{
	seed:       1337,
	halfExtent: 24,
}

// GetSeed returns the terrain seed
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

// SetSeed sets the terrain seed
func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetHalfExtent returns the terrain half width in voxels
func GetHalfExtent() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.halfExtent
}

// SetHalfExtent sets the terrain half width in voxels
func SetHalfExtent(extent int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.halfExtent = clamp(extent, 1, 256)
}
