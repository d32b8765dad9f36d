// Package rendercache decides per frame whether the path-traced scene must be
// rebuilt, owns the live render session and presents its accumulated image.
package rendercache

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/config"
	"voxtrace/internal/engine"
	"voxtrace/internal/profiling"
	"voxtrace/internal/scene"
)

// Volume is the voxel data rendered by the cache.
type Volume interface {
	scene.Volume
	Key() uint64
}

// FrameInput is the host state for one frame. ViewMat and ProjMat are the
// host camera matrices and only feed the fingerprint.
type FrameInput struct {
	Volume  Volume
	View    scene.View
	Light   scene.LightAngles
	ViewMat mgl32.Mat4
	ProjMat mgl32.Mat4
}

// Option customizes a RenderCache.
type Option func(*RenderCache)

// WithPresenter sets the viewport presenter called on every frame.
func WithPresenter(p Presenter) Option {
	return func(c *RenderCache) {
		c.presenter = p
	}
}

// WithTarget sets where sessions draw their accumulated image.
func WithTarget(t engine.DrawTarget) Option {
	return func(c *RenderCache) {
		c.target = t
	}
}

// WithBuilder sets the scene builder, e.g. one backed by a worker pool.
func WithBuilder(b *scene.Builder) Option {
	return func(c *RenderCache) {
		c.builder = b
	}
}

// RenderCache rebuilds the render session whenever the frame fingerprint
// changes and reuses it otherwise. Render and Close are meant to be called
// from the host's render thread.
type RenderCache struct {
	engine    engine.Engine
	params    engine.SessionParams
	builder   *scene.Builder
	presenter Presenter
	target    engine.DrawTarget

	mu       sync.Mutex
	session  engine.Session
	id       string
	buf      engine.BufferParams
	key      uint64
	hasKey   bool
	rebuilds int
	progress engine.Progress
}

// New selects the configured device and fixes the session parameters. An
// unknown device leaves the device info empty so the engine picks its
// default.
func New(eng engine.Engine, opts ...Option) *RenderCache {
	c := &RenderCache{
		engine:    eng,
		builder:   &scene.Builder{},
		presenter: nopPresenter{},
	}
	for _, opt := range opts {
		opt(c)
	}

	name := config.GetDeviceName()
	c.params = engine.SessionParams{
		Device:          selectDevice(eng.Devices(), name),
		Progressive:     true,
		StartResolution: config.GetStartResolution(),
		Samples:         config.GetSamples(),
		Threads:         config.GetThreads(),
		MaxBounces:      config.GetMaxBounces(),
	}

	logs.WithTag("device", name).
		WithTag("selected", c.params.Device.Type.String()).
		WithTag("samples", c.params.Samples).
		Info("render cache initialized")
	return c
}

func selectDevice(devices []engine.DeviceInfo, name string) engine.DeviceInfo {
	typ := engine.TypeFromString(name)
	if typ == engine.DeviceNone {
		return engine.DeviceInfo{}
	}
	for _, d := range devices {
		if d.Type == typ {
			return d
		}
	}
	return engine.DeviceInfo{}
}

// Render presents one frame into rect. When the fingerprint of in differs
// from the previous frame, the live session is closed and a new one is
// built and started before drawing. A failed rebuild is retried on the next
// call.
func (c *RenderCache) Render(ctx context.Context, rect Rect, in FrameInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.presenter.Setup(rect, Ortho(rect))

	key := Key(in.Volume.Key(), in.ViewMat, in.ProjMat)
	if !c.hasKey || key != c.key {
		c.hasKey = false
		if err := c.rebuild(ctx, rect, in); err != nil {
			return err
		}
		c.key = key
		c.hasKey = true
	}

	if c.session == nil {
		return nil
	}
	c.session.Draw(c.buf, engine.DrawParams{Target: c.target})
	c.progress = c.session.Progress()
	return nil
}

func (c *RenderCache) rebuild(ctx context.Context, rect Rect, in FrameInput) error {
	defer profiling.Track("rendercache.rebuild")()
	start := time.Now()
	device := c.params.Device.Type.String()

	c.closeSession()

	sess, err := c.engine.NewSession(c.params)
	if err != nil {
		instrumentRebuildFailure(device)
		return errors.New("creating render session failed").
			WithType(engine.ErrTypeSession).
			WithTag("device", device).
			Wrap(err)
	}
	instrumentOpenSession()

	var stats scene.Stats
	err = sess.BuildScene(func(sink scene.Sink) error {
		var err error
		stats, err = c.builder.Build(ctx, sink, scene.Input{
			Volume: in.Volume,
			View:   in.View,
			Light:  in.Light,
			Width:  rect.Width,
			Height: rect.Height,
		})
		return err
	})
	if err != nil {
		sess.Close()
		instrumentCloseSession()
		instrumentRebuildFailure(device)
		logs.WithTag("device", device).Warn(err)
		return err
	}

	c.buf = engine.BufferParams{
		Width:      rect.Width,
		Height:     rect.Height,
		FullWidth:  rect.Width,
		FullHeight: rect.Height,
	}
	sess.Reset(c.buf, c.params.Samples)
	sess.Start()

	c.session = sess
	c.id = sessionID(sess)
	c.rebuilds++

	elapsed := time.Since(start)
	instrumentRebuild(device, stats.Objects, stats.Quads, elapsed)
	logs.WithTag("session", c.id).
		WithTag("blocks", stats.Blocks).
		WithTag("objects", stats.Objects).
		WithTag("quads", stats.Quads).
		WithTag("width", rect.Width).
		WithTag("height", rect.Height).
		WithTag("duration", elapsed).
		Debug("scene rebuilt")
	return nil
}

func sessionID(s engine.Session) string {
	if v, ok := s.(interface{ ID() string }); ok {
		return v.ID()
	}
	return ""
}

func (c *RenderCache) closeSession() {
	if c.session == nil {
		return
	}
	c.session.Close()
	instrumentCloseSession()
	logs.WithTag("session", c.id).Debug("render session closed")
	c.session = nil
	c.id = ""
	c.progress = engine.Progress{}
}

// Status returns the progress reported by the live session on the last
// drawn frame.
func (c *RenderCache) Status() engine.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Rebuilds returns the number of sessions the cache has started.
func (c *RenderCache) Rebuilds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilds
}

// SessionID returns the id of the live session, if the engine assigns one.
func (c *RenderCache) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Snapshot copies the accumulated image of the live session. It returns
// false when there is no session or the engine cannot export images.
func (c *RenderCache) Snapshot() (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	src, ok := c.session.(engine.ImageSource)
	if !ok {
		return nil, false
	}
	return src.Image(), true
}

// Close tears down the live session. The next Render rebuilds.
func (c *RenderCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSession()
	c.hasKey = false
}
