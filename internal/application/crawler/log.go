package crawler

import (
	"fmt"
	"sync"
	"time"
)

const logCapacity = 200

// logBuffer is a fixed-capacity ring of crawl log lines. The dashboard
// polls it; old entries are dropped once capacity is reached.
type logBuffer struct {
	mu      sync.Mutex
	entries []string
	next    int
	full    bool
}

func newLogBuffer(capacity int) *logBuffer {
	return &logBuffer{entries: make([]string, capacity)}
}

func (b *logBuffer) add(ts time.Time, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = fmt.Sprintf("%s %s", ts.UTC().Format(time.RFC3339), msg)
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// tail returns up to n most recent lines, oldest first.
func (b *logBuffer) tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.next
	if b.full {
		size = len(b.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]string, 0, n)
	start := b.next - n
	if start < 0 {
		start += len(b.entries)
	}
	for i := 0; i < n; i++ {
		out = append(out, b.entries[(start+i)%len(b.entries)])
	}
	return out
}
