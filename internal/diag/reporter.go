package diag

import "sync"

// Reporter is the minimal sink phases emit diagnostics into.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adds diagnostics to a Bag. esbuild runs plugin callbacks
// concurrently, so access is serialized.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

// NewBagReporter wraps bag.
func NewBagReporter(bag *Bag) *BagReporter {
	return &BagReporter{Bag: bag}
}

func (r *BagReporter) Report(d Diagnostic) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	r.Bag.Add(d)
	r.mu.Unlock()
}
