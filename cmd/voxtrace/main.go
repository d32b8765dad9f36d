package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/xlab/closer"

	"voxtrace/internal/camera"
	"voxtrace/internal/config"
	"voxtrace/internal/engine/cpu"
	"voxtrace/internal/graphics"
	"voxtrace/internal/meshing"
	"voxtrace/internal/profiling"
	"voxtrace/internal/rendercache"
	"voxtrace/internal/scene"
	"voxtrace/internal/volume"
)

var version = "v0.1.0"

func init() {
	runtime.LockOSThread()
}

var _ = reflect.TypeOf(appConfig{})

type appConfig struct {
	Device          string `cli:""        env:"VOXTRACE_DEVICE"           help:"Compute device to render on (CPU)."`
	Samples         int    `cli:""        env:"VOXTRACE_SAMPLES"          help:"Progressive sample target."`
	StartResolution int    `cli:""        env:"VOXTRACE_START_RESOLUTION" help:"Resolution of the first preview pass."`
	Threads         int    `cli:""        env:"VOXTRACE_THREADS"          help:"Render worker count, 0 for one per CPU."`
	MaxBounces      int    `cli:",hidden" env:"VOXTRACE_MAX_BOUNCES"      help:"Path length limit."`
	MeshWorkers     int    `cli:",hidden" env:"VOXTRACE_MESH_WORKERS"     help:"Block meshing worker count."`
	FPSLimit        int    `cli:""        env:"VOXTRACE_FPS_LIMIT"        help:"Frame rate cap, 0 for unlimited."`
	Seed            int64  `cli:""        env:"VOXTRACE_SEED"             help:"Terrain seed."`
	Extent          int    `cli:""        env:"VOXTRACE_EXTENT"           help:"Terrain half width in voxels."`
	Width           int    `cli:""        env:"VOXTRACE_WIDTH"            help:"Window width."`
	Height          int    `cli:""        env:"VOXTRACE_HEIGHT"           help:"Window height."`
	Snapshot        string `cli:""        env:"VOXTRACE_SNAPSHOT"         help:"PNG file written when a render reaches its sample target."`
	AdminAddr       string `cli:""        env:"VOXTRACE_ADMIN_ADDR"       help:"Metrics and pprof listening address, disabled when empty."`
	LogLevel        string `cli:""        env:"VOXTRACE_LOG_LEVEL"        help:"Log level (debug|info|warning|error)."`
	LogIndent       bool   `cli:""        env:"VOXTRACE_LOG_INDENT"       help:"Indent logs."`
	Version         bool   `cli:""        env:"-"                         help:"Show version."`
	Help            bool   `cli:""        env:"-"                         help:"Show help."`
}

func main() {
	conf := appConfig{
		Device:          config.GetDeviceName(),
		Samples:         config.GetSamples(),
		StartResolution: config.GetStartResolution(),
		Threads:         config.GetThreads(),
		MaxBounces:      config.GetMaxBounces(),
		MeshWorkers:     runtime.NumCPU(),
		FPSLimit:        config.GetFPSLimit(),
		Seed:            config.GetSeed(),
		Extent:          config.GetHalfExtent(),
		Width:           900,
		Height:          600,
		LogLevel:        logs.InfoLevel.String(),
	}

	cli.Register().
		Help("Path traces an editable voxel terrain.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	applyConfig(conf)

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)
	defer closer.Close()

	if conf.AdminAddr != "" {
		go serveAdmin(ctx, conf.AdminAddr)
	}

	if err := glfw.Init(); err != nil {
		logs.Fatal(errors.New("initializing glfw failed").Wrap(err))
	}
	defer glfw.Terminate()

	window, err := setupWindow(conf.Width, conf.Height)
	if err != nil {
		logs.Fatal(errors.New("creating window failed").Wrap(err))
	}
	if err := gl.Init(); err != nil {
		logs.Fatal(errors.New("initializing opengl failed").Wrap(err))
	}

	display := graphics.NewDisplay()
	if err := display.Init(); err != nil {
		logs.Fatal(err)
	}
	defer display.Dispose()

	vol := volume.New()
	func() {
		defer profiling.Track("volume.Populate")()
		volume.NewGenerator(config.GetSeed()).Populate(vol, config.GetHalfExtent())
	}()

	pool := meshing.NewWorkerPool(conf.MeshWorkers, conf.MeshWorkers*4, nil)
	closer.Bind(pool.Shutdown)

	cache := rendercache.New(cpu.New(),
		rendercache.WithPresenter(display),
		rendercache.WithTarget(display),
		rendercache.WithBuilder(&scene.Builder{Pool: pool}),
	)
	closer.Bind(cache.Close)

	fbw, fbh := window.GetFramebufferSize()
	orbit := camera.NewOrbit(fbw, fbh)

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("blocks", vol.BlockCount()).
		WithTag("mesh_workers", pool.Workers()).
		WithTag("device", config.GetDeviceName()).
		Info("starting voxtrace")

	setupInputHandlers(window, orbit, vol, cache)
	runLoop(ctx, window, display, orbit, vol, cache, conf.Snapshot)
}

func applyConfig(conf appConfig) {
	config.SetDeviceName(conf.Device)
	config.SetSamples(conf.Samples)
	config.SetStartResolution(conf.StartResolution)
	config.SetThreads(conf.Threads)
	config.SetMaxBounces(conf.MaxBounces)
	config.SetFPSLimit(conf.FPSLimit)
	config.SetSeed(conf.Seed)
	config.SetHalfExtent(conf.Extent)
}

func setupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, "voxtrace", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)
	return window, nil
}

func runLoop(ctx context.Context, window *glfw.Window, display *graphics.Display, orbit *camera.Orbit, vol *volume.Volume, cache *rendercache.RenderCache, snapshotPath string) {
	lastTitle := time.Now()
	saved := ""
	var limiter fpsLimiter

	for !window.ShouldClose() && ctx.Err() == nil {
		fbw, fbh := window.GetFramebufferSize()
		orbit.SetViewport(fbw, fbh)

		frame := rendercache.FrameInput{
			Volume:  vol,
			View:    orbit.View(),
			Light:   orbit.Light,
			ViewMat: orbit.GetViewMatrix(),
			ProjMat: orbit.GetProjectionMatrix(),
		}
		rect := rendercache.Rect{Width: fbw, Height: fbh}
		if err := cache.Render(ctx, rect, frame); err != nil {
			logs.Warn(errors.New("rendering frame failed").Wrap(err))
		}

		progress := cache.Status()
		display.DrawStatus(progress)

		if time.Since(lastTitle) > 250*time.Millisecond {
			window.SetTitle(fmt.Sprintf("voxtrace - %s %s", progress.Status, progress.Substatus))
			lastTitle = time.Now()
		}

		if id := cache.SessionID(); snapshotPath != "" && progress.Done && id != saved {
			if img, ok := cache.Snapshot(); ok {
				if err := writePNG(snapshotPath, img); err != nil {
					logs.Warn(err)
				} else {
					logs.WithTag("file", snapshotPath).
						WithTag("session", id).
						WithTag("profile", profiling.TopN(3)).
						Info("snapshot saved")
				}
			}
			saved = id
		}

		window.SwapBuffers()
		glfw.PollEvents()
		limiter.Wait()
	}
}

func serveAdmin(ctx context.Context, addr string) {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)

	s := &http.Server{Addr: addr, Handler: &admin}
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.New("shutting down the admin server failed").
				WithTag("addr", addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", addr).Info("starting admin server")
	switch err := s.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", addr).Info("stopping admin server")
	default:
		logs.Warn(errors.New("admin server stopped").
			WithTag("addr", addr).
			Wrap(err))
	}
}
