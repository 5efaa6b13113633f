package scanner

import (
	"context"
	"fmt"

	"memscan/match"
	"memscan/process"
	"memscan/value"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sync/errgroup"
)

// scanPlan is a validated first scan
type scanPlan struct {
	kind      match.Kind
	types     []value.Type
	operands  *operands
	alignment int // 0: natural alignment per type
	step      int
}

func newScanPlan(req SearchRequest, alignment int) (*scanPlan, error) {
	if err := req.validate(true); err != nil {
		return nil, err
	}

	ops, err := parseOperands(req, planTypes(req.Type), false)
	if err != nil {
		return nil, err
	}

	p := &scanPlan{kind: req.Kind, operands: ops, alignment: alignment}
	for _, t := range planTypes(req.Type) {
		if _, ok := ops.get(t); ok {
			p.types = append(p.types, t)
		}
	}

	// natural alignments are powers of two, so the smallest divides the rest
	p.step = alignment
	if p.step == 0 {
		p.step = value.MaxWidth
		for _, t := range p.types {
			p.step = min(p.step, value.Alignment(t))
		}
	}
	return p, nil
}

// matchAt returns the first planned type whose value at data[i:] satisfies
// the predicate
func (p *scanPlan) matchAt(addr process.ProcessMemoryAddress, data []byte, i int) (value.Type, bool) {
	for _, t := range p.types {
		w := value.Width(t)
		if i+w > len(data) {
			continue
		}
		if p.alignment == 0 && uint64(addr)%uint64(value.Alignment(t)) != 0 {
			continue
		}
		cur, err := value.Decode(data[i:i+w], t)
		if err != nil {
			continue
		}
		operand, _ := p.operands.get(t)
		if match.Evaluate(p.kind, cur, value.Value{}, operand) {
			return t, true
		}
	}
	return value.Auto, false
}

// scanChunk evaluates every address in data[:n]; data may extend past n so
// that values starting near the end of the chunk can be decoded
func (p *scanPlan) scanChunk(out []Candidate, base process.ProcessMemoryAddress, data []byte, n int) []Candidate {
	n = min(n, len(data))
	step := uint64(p.step)
	first := 0
	if rem := uint64(base) % step; rem != 0 {
		first = int(step - rem)
	}

	for i := first; i < n; i += p.step {
		addr := base + process.ProcessMemoryAddress(i)
		if t, ok := p.matchAt(addr, data, i); ok {
			out = append(out, newCandidate(addr, t, data[i:i+value.Width(t)]))
		}
	}
	return out
}

// scanRegion reads r in chunks and returns its candidates in address order.
// Chunks that cannot be read are skipped.
func (p *scanPlan) scanRegion(ctx context.Context, src process.RegionSource, r process.Region, chunkSize int, prog *progress, log *logger.Logger) ([]Candidate, error) {
	var out []Candidate
	size := int64(r.Size)

	for off := int64(0); off < size; off += int64(chunkSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(int64(chunkSize), size-off)
		readLen := min(n+value.MaxWidth-1, size-off)
		addr := r.Base + process.ProcessMemoryAddress(off)

		data, err := src.ReadMemory(addr, process.ProcessMemorySize(readLen))
		if err != nil {
			log.Debugln("Skipping unreadable chunk at", fmt.Sprintf("%x", uint64(addr)), ":", err)
			prog.add(n)
			continue
		}

		out = p.scanChunk(out, addr, data, int(n))
		prog.add(n)
	}
	return out, nil
}

// selectRegions keeps the regions a first scan visits
func selectRegions(regions []process.Region, opts Options) []process.Region {
	var out []process.Region
	for _, r := range regions {
		if !r.Readable || r.Size == 0 {
			continue
		}
		if opts.RequireWritable && !r.Writable {
			continue
		}
		if !opts.RegionLevel.Includes(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// scan runs a first scan over src. Regions are scanned by up to
// opts.Workers goroutines; candidates are returned ordered by region and
// then by address, independent of worker scheduling. A cancelled ctx
// discards everything found so far.
func scan(ctx context.Context, src process.RegionSource, req SearchRequest, opts Options, prog *progress, log *logger.Logger) ([]Candidate, error) {
	plan, err := newScanPlan(req, opts.Alignment)
	if err != nil {
		return nil, err
	}

	all, err := src.Regions()
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	regions := selectRegions(all, opts)

	var total int64
	for _, r := range regions {
		total += int64(r.Size)
	}
	prog.start(total)

	log.Infoln("Starting scan:", req, "over", len(regions), "of", len(all), "regions,", total, "bytes, workers", opts.Workers)

	perRegion := make([][]Candidate, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, r := range regions {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			found, err := plan.scanRegion(gctx, src, r, opts.ChunkSize, prog, log)
			if err != nil {
				return err
			}
			perRegion[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count := 0
	for _, found := range perRegion {
		count += len(found)
	}
	candidates := make([]Candidate, 0, count)
	for _, found := range perRegion {
		candidates = append(candidates, found...)
	}

	log.Infoln("Scan complete, found", len(candidates), "matches")
	return candidates, nil
}
