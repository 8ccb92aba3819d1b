package agent

import "sync"

// maxStreamBytes is the per-stream buffer bound for captured subprocess output.
const maxStreamBytes = 10 * 1024 * 1024

// boundedBuffer accumulates writes up to a byte limit. Once the limit would
// be exceeded, further writes are rejected with ErrOutputTooLarge and
// Overflowed latches true so the caller can classify the resulting
// cmd.Wait() error correctly even though the write itself already failed
// inside the exec package's copy goroutine.
type boundedBuffer struct {
	mu          sync.Mutex
	stream      string
	limit       int
	data        []byte
	overflowed  bool
}

func newBoundedBuffer(stream string, limit int) *boundedBuffer {
	return &boundedBuffer{stream: stream, limit: limit}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data)+len(p) > b.limit {
		b.overflowed = true
		return 0, &ErrOutputTooLarge{Stream: b.stream}
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

func (b *boundedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowed
}
