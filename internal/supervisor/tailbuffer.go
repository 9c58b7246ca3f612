package supervisor

import (
	"io"
	"sync"
)

const maxTailBytes = 64 << 10

// tailBuffer keeps the last maxTailBytes of a stream. Diagnostic text for
// error messages lives at the end of the output, so the head is dropped.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func newTailBuffer() *tailBuffer {
	return &tailBuffer{}
}

func (t *tailBuffer) readFrom(r io.Reader) error {
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			t.append(chunk[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (t *tailBuffer) append(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > maxTailBytes {
		t.buf = t.buf[len(t.buf)-maxTailBytes:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
