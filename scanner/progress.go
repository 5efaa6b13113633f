package scanner

import "sync/atomic"

// progress counts work done by the running pass. It is updated by scan
// workers and read by Session.Progress from any goroutine.
type progress struct {
	done  atomic.Int64
	total atomic.Int64
}

func (p *progress) start(total int64) {
	p.done.Store(0)
	p.total.Store(total)
}

func (p *progress) add(n int64) {
	p.done.Add(n)
}

// finish marks the pass complete
func (p *progress) finish() {
	p.total.Store(1)
	p.done.Store(1)
}

func (p *progress) clear() {
	p.done.Store(0)
	p.total.Store(0)
}

func (p *progress) fraction() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	f := float64(p.done.Load()) / float64(total)
	if f > 1 {
		f = 1
	}
	return f
}
