// Package tracer implements the non-sequential ray tracing engine: it
// expands each input ray into a tree of child rays by repeatedly finding
// the nearest surface hit and asking that surface for its physical
// response.
package tracer

import (
	"context"
	"io"
	"math"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/scene"
)

// indexEpsilon decides whether a ray is currently inside the medium of
// the surface it just hit, in which case the hit is an exit back into the
// ambient medium.
const indexEpsilon = 1e-9

// Config holds the trace cutoffs. Zero values mean the defaults: a
// generation limit of 10 and an intensity floor of 1e-6.
type Config struct {
	MaxGeneration int
	MinIntensity  float64
	Logger        *log.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxGeneration <= 0 {
		c.MaxGeneration = 10
	}
	if c.MinIntensity <= 0 {
		c.MinIntensity = 1e-6
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Hit records one ray striking one surface, with the intersection point
// in world coordinates. The slice of hits per tree is the raytrace
// equivalent of a detector readout.
type Hit struct {
	SurfaceID string
	Point     core.Vec3
	Ray       *core.Ray
}

// RayTree is the result of tracing one input ray: every ray of the tree
// in breadth-first order (root first), the hits along the way, and the
// configuration error that cut the trace short, if any.
type RayTree struct {
	Rays []*core.Ray
	Hits []Hit
	Err  error
}

// Root returns the input ray of the tree.
func (rt *RayTree) Root() *core.Ray {
	return rt.Rays[0]
}

// Leaves returns the rays no other ray descends from: escaped rays,
// absorbed rays and rays stopped by a cutoff.
func (rt *RayTree) Leaves() []*core.Ray {
	parents := make(map[*core.Ray]bool, len(rt.Rays))
	for _, r := range rt.Rays {
		if r.Parent != nil {
			parents[r.Parent] = true
		}
	}
	var leaves []*core.Ray
	for _, r := range rt.Rays {
		if !parents[r] {
			leaves = append(leaves, r)
		}
	}
	return leaves
}

// HitsOn returns the hits recorded on one surface, identified by ID.
func (rt *RayTree) HitsOn(surfaceID string) []Hit {
	var hits []Hit
	for _, h := range rt.Hits {
		if h.SurfaceID == surfaceID {
			hits = append(hits, h)
		}
	}
	return hits
}

// Tracer traces rays through a flattened optical system. A Tracer is
// read-only after creation and safe for concurrent use.
type Tracer struct {
	entries []scene.SurfaceEntry
	ambient core.Medium
	config  Config
}

// New flattens the system and prepares a tracer for it. The scene graph
// must not be mutated while the tracer is in use.
func New(sys *scene.System, config Config) *Tracer {
	return &Tracer{
		entries: sys.Flatten(),
		ambient: sys.Ambient,
		config:  config.withDefaults(),
	}
}

// Trace expands one ray into its full tree. A surface configuration
// error (such as a reflectivity outside [0,1]) stops the expansion and is
// returned both directly and in the tree's Err field; the partial tree
// remains valid.
func (t *Tracer) Trace(ray core.Ray) (*RayTree, error) {
	root := ray
	tree := &RayTree{Rays: []*core.Ray{&root}}

	work := []*core.Ray{&root}
	for len(work) > 0 {
		r := work[0]
		work = work[1:]

		if r.Intensity < t.config.MinIntensity {
			continue
		}

		entry, localRay, hitT := t.nearestHit(*r)
		if entry == nil {
			continue // escaped the system
		}

		worldPoint := r.At(hitT)
		tree.Hits = append(tree.Hits, Hit{
			SurfaceID: entry.Surface.ID(),
			Point:     worldPoint,
			Ray:       r,
		})

		if r.Generation >= t.config.MaxGeneration {
			t.config.Logger.Debug("generation cutoff",
				"surface", entry.Surface.ID(), "generation", r.Generation)
			continue
		}

		n1, n2 := t.resolveMedia(*r, entry)
		children, err := entry.Surface.Propagate(localRay, n1, n2)
		if err != nil {
			tree.Err = err
			return tree, err
		}

		for _, c := range children {
			child := r.Child(
				entry.ToWorld.Apply(c.Origin),
				entry.ToWorld.ApplyDirection(c.Direction),
				c.Intensity,
				c.RefIndex,
			)
			child.Parent = r
			child.SurfaceID = entry.Surface.ID()
			node := &child
			tree.Rays = append(tree.Rays, node)
			work = append(work, node)
		}
	}

	return tree, nil
}

// nearestHit searches every surface for the closest intersection along
// the ray. Rigid poses preserve distance, so local hit distances compare
// directly across surfaces. Ties go to the surface declared first, which
// the strict inequality guarantees because entries keep declaration
// order.
func (t *Tracer) nearestHit(ray core.Ray) (*scene.SurfaceEntry, core.Ray, float64) {
	var best *scene.SurfaceEntry
	var bestRay core.Ray
	bestT := math.Inf(1)

	for i := range t.entries {
		e := &t.entries[i]
		local := ray
		local.Origin = e.ToLocal.Apply(ray.Origin)
		local.Direction = e.ToLocal.ApplyDirection(ray.Direction)

		p := e.Surface.Intersect(local)
		if core.IsNoHit(p) {
			continue
		}
		if d := p.Subtract(local.Origin).Length(); d < bestT {
			best = e
			bestRay = local
			bestT = d
		}
	}
	return best, bestRay, bestT
}

// resolveMedia determines the refractive indices on both sides of a hit.
// The incident index rides on the ray itself. If the ray is already
// inside the hit surface's medium, the hit is an exit back into the
// ambient medium; otherwise it is an entry into that medium.
func (t *Tracer) resolveMedia(ray core.Ray, entry *scene.SurfaceEntry) (float64, float64) {
	n1 := ray.RefIndex

	medium := entry.Medium
	if medium == nil {
		medium = t.ambient
	}
	nSurf := medium.RefractiveIndex(ray.Wavelength)

	if math.Abs(n1-nSurf) < indexEpsilon {
		return n1, t.ambient.RefractiveIndex(ray.Wavelength)
	}
	return n1, nSurf
}

// TraceBundle traces a set of rays concurrently, one tree per input ray,
// preserving input order in the result. A configuration error in one tree
// is recorded on that tree without disturbing the others; the only error
// TraceBundle itself returns is context cancellation. workers <= 0 uses
// one worker per CPU.
func (t *Tracer) TraceBundle(ctx context.Context, rays []core.Ray, workers int) ([]*RayTree, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	trees := make([]*RayTree, len(rays))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, ray := range rays {
		i, ray := i, ray
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tree, err := t.Trace(ray)
			if err != nil {
				t.config.Logger.Warn("trace aborted", "ray", i, "err", err)
			}
			trees[i] = tree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return trees, err
	}
	return trees, nil
}
