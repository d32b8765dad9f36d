package rendercache

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/engine"
	"voxtrace/internal/scene"
)

type fakeEngine struct {
	devices  []engine.DeviceInfo
	sessions []*fakeSession
	params   []engine.SessionParams
	err      error
}

func (e *fakeEngine) Devices() []engine.DeviceInfo {
	return e.devices
}

func (e *fakeEngine) NewSession(params engine.SessionParams) (engine.Session, error) {
	e.params = append(e.params, params)
	if e.err != nil {
		return nil, e.err
	}
	s := &fakeSession{}
	e.sessions = append(e.sessions, s)
	return s, nil
}

type fakeSession struct {
	scenes  []*scene.Recorder
	buf     engine.BufferParams
	samples int
	started bool
	draws   int
	closed  bool
}

func (s *fakeSession) BuildScene(build func(scene.Sink) error) error {
	rec := &scene.Recorder{}
	if err := build(rec); err != nil {
		return err
	}
	s.scenes = append(s.scenes, rec)
	return nil
}

func (s *fakeSession) Reset(buf engine.BufferParams, samples int) {
	s.buf = buf
	s.samples = samples
}

func (s *fakeSession) Start() {
	s.started = true
}

func (s *fakeSession) Draw(buf engine.BufferParams, params engine.DrawParams) {
	s.draws++
	if params.Target != nil {
		params.Target.DrawImage(image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height)), buf.Width, buf.Height)
	}
}

func (s *fakeSession) Progress() engine.Progress {
	return engine.Progress{Status: "Rendering", Substatus: "Sample 1/20", Sample: 1, Samples: s.samples}
}

func (s *fakeSession) Close() {
	s.closed = true
}

type fakePresenter struct {
	rects []Rect
	proj  mgl32.Mat4
}

func (p *fakePresenter) Setup(rect Rect, proj mgl32.Mat4) {
	p.rects = append(p.rects, rect)
	p.proj = proj
}

type fakeTarget struct {
	draws int
}

func (t *fakeTarget) DrawImage(img *image.RGBA, width, height int) {
	t.draws++
}
