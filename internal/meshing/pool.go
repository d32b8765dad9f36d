package meshing

import (
	"context"
	"sync"

	"voxtrace/internal/volume"
)

// MeshJob represents a block meshing request.
type MeshJob struct {
	Index  int
	Pos    volume.BlockPos
	Source QuadSource
	// Result channel - receives the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation. Mesh is nil when the
// block has no visible faces.
type MeshResult struct {
	Index int
	Pos   volume.BlockPos
	Mesh  *Mesh
	Quads int
	Error error
}

// WorkerPool manages goroutines for block mesh generation. Each worker owns
// one staging buffer for its lifetime.
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	alloc    AllocFunc
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a pool with the given number of workers. A nil alloc
// uses DefaultAlloc.
func NewWorkerPool(workers int, queueSize int, alloc AllocFunc) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		alloc:    alloc,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJobBlocking blocks until the job is queued, ctx is done or the pool
// shuts down. Returns false when the job was not queued.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	// allocated on first job so idle pools stay small
	var staging *Staging

	for {
		select {
		case job := <-p.jobQueue:
			result := MeshResult{Index: job.Index, Pos: job.Pos}
			if staging == nil {
				staging, result.Error = NewStaging(p.alloc)
			}
			if result.Error == nil {
				result.Mesh, result.Quads = BuildBlockMesh(job.Source, job.Pos, staging)
			}

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// BuildAll meshes every position and returns the results in input order.
// The first allocation failure is returned as the error.
func (p *WorkerPool) BuildAll(ctx context.Context, src QuadSource, positions []volume.BlockPos) ([]MeshResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]MeshResult, len(positions))
	resultChan := make(chan MeshResult, len(positions))

	submitted := 0
	for i, pos := range positions {
		job := MeshJob{Index: i, Pos: pos, Source: src, ResultChan: resultChan}
		if !p.SubmitJobBlocking(ctx, job) {
			break
		}
		submitted++
	}

	var firstErr error
	for range submitted {
		select {
		case r := <-resultChan:
			results[r.Index] = r
			if r.Error != nil && firstErr == nil {
				firstErr = r.Error
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if submitted < len(positions) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, context.Canceled
	}
	return results, firstErr
}

// Shutdown stops the workers and waits for them to exit.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
