package cpu

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"voxtrace/internal/engine"
	"voxtrace/internal/scene"
)

const tileRows = 8

// Session accumulates samples of one scene on background goroutines.
type Session struct {
	id         string
	params     engine.SessionParams
	threads    int
	background mgl32.Vec3

	mu        sync.Mutex
	native    *scene.Recorder
	world     *world
	buf       engine.BufferParams
	samples   int
	sample    int
	status    string
	substatus string
	done      bool
	started   time.Time

	// accum and back belong to the run goroutine while it is active.
	accum []mgl32.Vec3
	back  *image.RGBA

	// front is the last complete image. Draw only takes frontMu.
	frontMu sync.RWMutex
	front   *image.RGBA

	cancel   context.CancelFunc
	finished chan struct{}
	closed   bool
}

var (
	_ engine.Session     = (*Session)(nil)
	_ engine.ImageSource = (*Session)(nil)
)

// ID returns the unique session id.
func (s *Session) ID() string {
	return s.id
}

// BuildScene records the scene produced by build. Compilation happens when
// accumulation starts.
func (s *Session) BuildScene(build func(scene.Sink) error) error {
	rec := &scene.Recorder{}
	if err := build(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session closed").WithType(engine.ErrTypeSession).WithTag("session", s.id)
	}
	s.native = rec
	s.world = nil
	return nil
}

// Reset stops accumulation and sizes the buffers. A non-positive sample
// count keeps the session default.
func (s *Session) Reset(buf engine.BufferParams, samples int) {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if samples <= 0 {
		samples = s.params.Samples
	}
	w, h := max(buf.Width, 0), max(buf.Height, 0)
	s.buf = buf
	s.samples = samples
	s.sample = 0
	s.accum = make([]mgl32.Vec3, w*h)
	s.back = image.NewRGBA(image.Rect(0, 0, w, h))
	s.done = false
	s.status = "Waiting"
	s.substatus = ""

	s.frontMu.Lock()
	s.front = image.NewRGBA(image.Rect(0, 0, w, h))
	s.frontMu.Unlock()
}

// Start begins accumulation. It is a no-op without a scene or after Close.
func (s *Session) Start() {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.native == nil {
		s.status = "No scene"
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.finished = make(chan struct{})
	s.started = time.Now()
	go s.run(ctx, s.finished)
}

// Draw hands the last complete image to the target. It never waits for an
// accumulation pass.
func (s *Session) Draw(buf engine.BufferParams, params engine.DrawParams) {
	if params.Target == nil {
		return
	}
	s.frontMu.RLock()
	defer s.frontMu.RUnlock()
	if s.front == nil {
		return
	}
	b := s.front.Bounds()
	params.Target.DrawImage(s.front, b.Dx(), b.Dy())
}

// Progress reports the session state.
func (s *Session) Progress() engine.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Progress{
		Status:    s.status,
		Substatus: s.substatus,
		Sample:    s.sample,
		Samples:   s.samples,
		Done:      s.done,
	}
}

// Image returns a copy of the current image, top row first.
func (s *Session) Image() *image.RGBA {
	s.frontMu.RLock()
	defer s.frontMu.RUnlock()
	if s.front == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	b := s.front.Bounds()
	out := image.NewRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		src := s.front.Pix[y*s.front.Stride : y*s.front.Stride+b.Dx()*4]
		dst := out.Pix[(b.Dy()-1-y)*out.Stride:]
		copy(dst, src)
	}
	return out
}

// Close stops accumulation and frees the buffers. It waits for workers.
func (s *Session) Close() {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.native = nil
	s.world = nil
	s.accum = nil
	s.back = nil
	s.status = "Closed"
	s.substatus = ""

	s.frontMu.Lock()
	s.front = nil
	s.frontMu.Unlock()
}

func (s *Session) stop() {
	s.mu.Lock()
	cancel, finished := s.cancel, s.finished
	s.cancel, s.finished = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-finished
}

func (s *Session) run(ctx context.Context, finished chan struct{}) {
	defer close(finished)

	s.setStatus("Updating scene", "")
	w, err := s.compiled()
	if err != nil {
		logs.WithTag("session", s.id).Error(err)
		s.setStatus("Error", err.Error())
		return
	}

	s.mu.Lock()
	var width, height int
	if s.back != nil {
		width, height = s.back.Bounds().Dx(), s.back.Bounds().Dy()
	}
	samples := s.samples
	s.sample = 0
	clear(s.accum)
	s.mu.Unlock()

	if width == 0 || height == 0 {
		s.finish()
		return
	}

	if s.params.Progressive && s.params.StartResolution > 0 {
		div := 1
		for max(width, height)/div > s.params.StartResolution {
			div *= 2
		}
		for ; div > 1; div /= 2 {
			s.setStatus("Rendering", fmt.Sprintf("Preview 1/%d", div))
			if err := s.preview(ctx, w, width, height, div); err != nil {
				return
			}
		}
	}

	for i := 1; i <= samples; i++ {
		if err := s.pass(ctx, w, width, height, uint64(i)); err != nil {
			return
		}
	}
	s.finish()
}

func (s *Session) compiled() (*world, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world != nil {
		return s.world, nil
	}
	w, err := compile(s.native, s.background, s.params.MaxBounces)
	if err != nil {
		return nil, err
	}
	s.world = w
	return w, nil
}

// trace renders every div-th pixel of a width*height image into out, one
// sample each, splitting rows into tiles across the worker limit.
func (s *Session) trace(ctx context.Context, w *world, width, height, div int, seed uint64, out []mgl32.Vec3) error {
	cols := (width + div - 1) / div
	rows := (height + div - 1) / div

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for ty := 0; ty < rows; ty += tileRows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(ty)))
			for cy := ty; cy < min(ty+tileRows, rows); cy++ {
				for cx := 0; cx < cols; cx++ {
					fx := (float32(cx*div) + rng.Float32()*float32(div)) / float32(width)
					fy := (float32(cy*div) + rng.Float32()*float32(div)) / float32(height)
					out[cy*cols+cx] = w.radiance(w.camera.primary(fx, fy), rng)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Session) preview(ctx context.Context, w *world, width, height, div int) error {
	cols := (width + div - 1) / div
	rows := (height + div - 1) / div
	out := make([]mgl32.Vec3, cols*rows)
	if err := s.trace(ctx, w, width, height, div, uint64(div)<<32, out); err != nil {
		return err
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.setPixel(x, y, out[(y/div)*cols+x/div], w.camera.exposure)
		}
	}
	s.present()
	return nil
}

func (s *Session) pass(ctx context.Context, w *world, width, height int, sample uint64) error {
	out := make([]mgl32.Vec3, width*height)
	if err := s.trace(ctx, w, width, height, 1, sample, out); err != nil {
		return err
	}

	inv := 1 / float32(sample)
	for i, c := range out {
		s.accum[i] = s.accum[i].Add(c)
		s.setPixel(i%width, i/width, s.accum[i].Mul(inv), w.camera.exposure)
	}
	s.present()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sample = int(sample)
	s.status = "Rendering"
	s.substatus = fmt.Sprintf("Sample %d/%d, Time %s", s.sample, s.samples, time.Since(s.started).Round(time.Millisecond))
	return nil
}

// setPixel stores a tone-mapped color in the back image. Row 0 is the bottom
// of the image.
func (s *Session) setPixel(x, y int, c mgl32.Vec3, exposure float32) {
	i := s.back.PixOffset(x, y)
	for k := range 3 {
		s.back.Pix[i+k] = encodeChannel(c[k] * exposure)
	}
	s.back.Pix[i+3] = 255
}

// present swaps the finished back image to the front.
func (s *Session) present() {
	s.frontMu.Lock()
	s.front, s.back = s.back, s.front
	s.frontMu.Unlock()
}

func encodeChannel(v float32) uint8 {
	v = mgl32.Clamp(v, 0, 1)
	return uint8(math.Round(math.Pow(float64(v), 1/2.2) * 255))
}

func (s *Session) setStatus(status, substatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.substatus = substatus
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.status = "Done"
	s.substatus = fmt.Sprintf("Sample %d/%d, Time %s", s.sample, s.samples, time.Since(s.started).Round(time.Millisecond))
}
