// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how far an import has got. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	done      int
	skipped   int
	every     int
	lastShown int
	began     time.Time
	running   bool
}

// NewProgress writes a status line to out every `every` records.
// A nil writer disables output.
func NewProgress(out io.Writer, total, every int) *Progress {
	if every < 1 {
		every = 1
	}
	return &Progress{out: out, total: total, every: every}
}

// Begin resets the counters and starts the clock.
func (p *Progress) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.began = time.Now()
	p.running = true
	p.done, p.skipped, p.lastShown = 0, 0, 0
}

// Stored records n plants written to the store.
func (p *Progress) Stored(n int) {
	p.advance(n, 0)
}

// Skipped records n plants left out of the import.
func (p *Progress) Skipped(n int) {
	p.advance(0, n)
}

func (p *Progress) advance(stored, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = min(p.done+stored, p.total)
	p.skipped += skipped
	if seen := p.done + p.skipped; seen-p.lastShown >= p.every {
		p.print()
		p.lastShown = seen
	}
}

// End prints the final line.
func (p *Progress) End() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.print()
	if p.out != nil {
		fmt.Fprintln(p.out)
	}
}

// Counts returns the stored and skipped totals so far.
func (p *Progress) Counts() (stored, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.skipped
}

// must hold mu
func (p *Progress) print() {
	if p.out == nil {
		return
	}
	secs := time.Since(p.began).Seconds()
	rate := 0.0
	if secs > 0 {
		rate = float64(p.done) / secs
	}
	fmt.Fprintf(p.out, "\rImported %d/%d plants (%d skipped) - %.1f plants/s",
		p.done, p.total, p.skipped, rate)
}
