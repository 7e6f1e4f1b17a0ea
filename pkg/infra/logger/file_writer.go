package logger

import (
	"bufio"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// FileWriter buffers log lines on a channel and flushes them to disk from a
// single goroutine. Lines are dropped, not blocked on, when the queue is full.
type FileWriter struct {
	file    *os.File
	buf     *bufio.Writer
	mu      sync.Mutex
	queue   chan []byte
	done    chan struct{}
	stopped chan struct{}
	closed  sync.Once
	dropped atomic.Uint64
}

func NewFileWriter(path string, bufferSize int) (*FileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	w := &FileWriter{
		file:    file,
		buf:     bufio.NewWriterSize(file, bufferSize),
		queue:   make(chan []byte, 1000),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop(2 * time.Second)
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	select {
	case w.queue <- append([]byte(nil), p...):
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped reports how many lines were discarded because the queue was full.
func (w *FileWriter) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *FileWriter) loop(flushEvery time.Duration) {
	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()
	defer close(w.stopped)
	for {
		select {
		case line := <-w.queue:
			w.mu.Lock()
			_, _ = w.buf.Write(line)
			w.mu.Unlock()
		case <-ticker.C:
			w.flush()
		case <-w.done:
			w.drain()
			w.flush()
			return
		}
	}
}

func (w *FileWriter) drain() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		select {
		case line := <-w.queue:
			_, _ = w.buf.Write(line)
		default:
			return
		}
	}
}

func (w *FileWriter) flush() {
	w.mu.Lock()
	_ = w.buf.Flush()
	w.mu.Unlock()
}

func (w *FileWriter) Close() error {
	w.closed.Do(func() { close(w.done) })
	<-w.stopped
	return w.file.Close()
}

// FileHook mirrors every entry into a FileWriter.
type FileHook struct {
	writer *FileWriter
}

func NewFileHook(writer *FileWriter) *FileHook {
	return &FileHook{writer: writer}
}

func (h *FileHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

func (h *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
