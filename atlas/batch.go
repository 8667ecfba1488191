package atlas

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/internal/parallel"
)

type request struct {
	atlas             *Atlas
	font, size, glyph int
}

// Batch renders queued glyphs in parallel. Several workers may render
// into the same atlas; each worker uses its own Renderer instance.
//
// Batch is safe for concurrent use. Glyphs added while Run is in
// progress are rendered by the next Run.
type Batch struct {
	pool      *parallel.WorkerPool
	renderers sync.Pool

	mu      sync.Mutex
	pending []request
	queued  map[request]struct{}

	rendered atomic.Uint64
	skipped  atomic.Uint64
}

// NewBatch creates a batch with the given number of workers (GOMAXPROCS
// if workers <= 0). f is called whenever a worker needs a renderer.
func NewBatch(workers int, f RendererFactory) *Batch {
	b := &Batch{
		pool:   parallel.NewWorkerPool(workers),
		queued: make(map[request]struct{}),
	}
	b.renderers.New = func() any { return f() }
	return b
}

// Add queues (font, size, glyph) for rendering into a. It reports false
// if the glyph is already cached in a or already queued.
func (b *Batch) Add(a *Atlas, font, size, glyph int) bool {
	if _, ok := a.Get(font, size, glyph); ok {
		return false
	}
	req := request{atlas: a, font: font, size: size, glyph: glyph}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.queued[req]; ok {
		return false
	}
	b.queued[req] = struct{}{}
	b.pending = append(b.pending, req)
	return true
}

// AddGlyphs queues several glyphs of one font and size and returns how
// many were queued.
func (b *Batch) AddGlyphs(a *Atlas, font, size int, glyphs []int) int {
	n := 0
	for _, g := range glyphs {
		if b.Add(a, font, size, g) {
			n++
		}
	}
	return n
}

// Pending returns the number of queued glyphs.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Run renders all queued glyphs and waits for them. It returns the first
// render error. If ctx is canceled, glyphs not yet started are dropped
// and ctx.Err() is returned. Glyphs that find their atlas full are
// skipped and counted in Skipped.
func (b *Batch) Run(ctx context.Context) error {
	b.mu.Lock()
	reqs := b.pending
	b.pending = nil
	clear(b.queued)
	b.mu.Unlock()

	if len(reqs) == 0 {
		return ctx.Err()
	}

	tasks := make([]parallel.Task, len(reqs))
	for i, req := range reqs {
		tasks[i] = func(context.Context) error {
			return b.render(req)
		}
	}

	err := b.pool.Run(ctx, tasks)
	glyphatlas.Logger().Debug("atlas: batch done",
		"glyphs", len(reqs), "rendered", b.rendered.Load(), "skipped", b.skipped.Load())
	return err
}

func (b *Batch) render(req request) error {
	r := b.renderers.Get().(Renderer)
	defer b.renderers.Put(r)

	e, err := req.atlas.Lookup(req.font, req.size, req.glyph, r)
	if err != nil {
		return fmt.Errorf("atlas: batch: %w", err)
	}
	if e.IsFull() {
		b.skipped.Add(1)
		glyphatlas.Logger().Warn("atlas: batch glyph skipped, atlas full",
			"font", req.font, "size", req.size, "glyph", req.glyph)
		return nil
	}
	b.rendered.Add(1)
	return nil
}

// Rendered returns the number of glyphs placed by all runs so far.
func (b *Batch) Rendered() uint64 {
	return b.rendered.Load()
}

// Skipped returns the number of glyphs dropped because their atlas was
// full.
func (b *Batch) Skipped() uint64 {
	return b.skipped.Load()
}

// Close stops the workers. The batch must not be used afterwards.
func (b *Batch) Close() {
	b.pool.Close()
}
