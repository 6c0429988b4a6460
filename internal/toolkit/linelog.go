package toolkit

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
)

// lineLogger logs complete lines written to it, one event per line.
type lineLogger struct {
	mu    sync.Mutex
	buf   []byte
	log   zerolog.Logger
	level zerolog.Level
}

func (lw *lineLogger) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		lw.emit(lw.buf[:idx])
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline.
func (lw *lineLogger) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.emit(lw.buf)
	lw.buf = nil
}

func (lw *lineLogger) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	lw.log.WithLevel(lw.level).Str("src", "toolkit").Msg(string(line))
}
