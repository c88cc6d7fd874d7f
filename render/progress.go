package render

import "fmt"

// Progress renders a fixed-width textual progress bar of totalOutputs
// (50) '-' marks, five per 10%, across an arbitrary number of iterations.
// Matches the reference renderer's console progress meter.
type Progress struct {
	total        int
	iteration    int
	totalOutputs int
	header       bool
	w            func(string)
}

// NewProgress returns a progress meter over total iterations, writing
// through w (fmt.Print by default when w is nil).
func NewProgress(total int, w func(string)) *Progress {
	if w == nil {
		w = func(s string) { fmt.Print(s) }
	}
	return &Progress{total: total, totalOutputs: 50, w: w}
}

// Start prints the ruler header once.
func (p *Progress) Start() {
	if !p.header {
		p.w("....1....2....3....4....5....6....7....8....9....0\n")
		p.header = true
	}
}

// Increment advances by one iteration, emitting a '-' for every
// percentage bucket crossed since the previous call.
func (p *Progress) Increment() {
	outputsDiv := 100.0 / float64(p.totalOutputs)
	prevPercent := float64(p.iteration) / float64(p.total) * 100
	p.iteration++
	nextPercent := float64(p.iteration) / float64(p.total) * 100

	prevOutputs := int(prevPercent / outputsDiv)
	nextOutputs := int(nextPercent / outputsDiv)
	for i := 0; i < nextOutputs-prevOutputs; i++ {
		p.w("-")
	}
}

// Done prints the trailing newline.
func (p *Progress) Done() { p.w("\n") }
