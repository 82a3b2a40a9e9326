package logging

import (
	"fmt"
	"sync"
	"time"
)

// Level names as they appear in the output and in a Record.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// DefaultBufferSize is the number of records kept in memory.
const DefaultBufferSize = 1000

// Record is a single log line kept in memory.
type Record struct {
	Time    time.Time
	Level   string
	Name    string
	Message string
}

// String formats the record like the log output.
func (r Record) String() string {
	return fmt.Sprintf("%s %-5s | %-15s | %s", r.Time.Format("15:04:05"), r.Level, r.Name, r.Message)
}

// ringBuffer keeps the latest records, oldest first.
type ringBuffer struct {
	mu    sync.Mutex
	items []Record
	next  int
	full  bool
}

var records = newRingBuffer(DefaultBufferSize)

func newRingBuffer(size int) *ringBuffer {
	if size < 1 {
		size = 1
	}
	return &ringBuffer{items: make([]Record, size)}
}

func (b *ringBuffer) add(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[b.next] = r
	b.next = (b.next + 1) % len(b.items)
	if b.next == 0 {
		b.full = true
	}
}

func (b *ringBuffer) snapshot() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		out := make([]Record, b.next)
		copy(out, b.items[:b.next])
		return out
	}
	out := make([]Record, 0, len(b.items))
	out = append(out, b.items[b.next:]...)
	out = append(out, b.items[:b.next]...)
	return out
}

func (b *ringBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next = 0
	b.full = false
}

// Records returns a copy of the buffered records, oldest first.
func Records() []Record {
	return records.snapshot()
}

// Tail returns at most n of the newest records, oldest first.
func Tail(n int) []Record {
	all := records.snapshot()
	if n >= 0 && len(all) > n {
		return all[len(all)-n:]
	}
	return all
}

// ResetRecords clears the buffer.
func ResetRecords() {
	records.reset()
}
