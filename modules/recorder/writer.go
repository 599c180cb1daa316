package recorder

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
)

// Writer appends lines to log files.
// Files are kept open while they're being written to, and closed after being idle for a while.
type Writer struct {
	dir   string
	files *common.Map[string, *logFile]

	stop     chan struct{}
	stopOnce sync.Once
}

type logFile struct {
	mu        sync.Mutex
	f         *os.File
	lastWrite time.Time
	closed    bool
}

// NewWriter returns a Writer writing to dir.
// If idle is non-zero, files that haven't been written to in that long are closed.
func NewWriter(dir string, idle time.Duration) (*Writer, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}

	w := &Writer{
		dir:   dir,
		files: common.NewMap[string, *logFile](),
		stop:  make(chan struct{}),
	}

	if idle > 0 {
		go w.closeLoop(idle)
	}
	return w, nil
}

// Write appends the line to its file.
func (w *Writer) Write(l Line) error {
	name := l.FileName()

	for {
		lf, err := w.open(name)
		if err != nil {
			return err
		}

		lf.mu.Lock()
		if lf.closed {
			// closed between being looked up and being locked
			lf.mu.Unlock()
			continue
		}

		_, err = lf.f.WriteString(l.String())
		lf.lastWrite = time.Now()
		lf.mu.Unlock()

		return errors.Wrapf(err, "writing to %v", name)
	}
}

func (w *Writer) open(name string) (lf *logFile, err error) {
	w.files.WriteFunc(func(m map[string]*logFile) {
		if lf = m[name]; lf != nil {
			return
		}

		var f *os.File
		f, err = os.OpenFile(filepath.Join(w.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}

		lf = &logFile{f: f, lastWrite: time.Now()}
		m[name] = lf
	})
	return lf, errors.Wrapf(err, "opening %v", name)
}

func (w *Writer) closeLoop(idle time.Duration) {
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := w.closeIdle(time.Now().Add(-idle))
			if err != nil {
				log.Errorf("closing idle log files: %v", err)
			}
			if n > 0 {
				log.Debugf("closed %d idle log files", n)
			}
		case <-w.stop:
			return
		}
	}
}

// closeIdle closes every file last written to before the given time.
func (w *Writer) closeIdle(before time.Time) (n int, err error) {
	var errs []error
	w.files.WriteFunc(func(m map[string]*logFile) {
		for name, lf := range m {
			lf.mu.Lock()
			if lf.lastWrite.Before(before) {
				errs = append(errs, lf.close())
				delete(m, name)
				n++
			}
			lf.mu.Unlock()
		}
	})
	return n, errors.Combine(errs...)
}

// Length returns the number of open files.
func (w *Writer) Length() int {
	return w.files.Length()
}

// Close closes all open files. Lines written after Close reopen their file.
func (w *Writer) Close() error {
	w.stopOnce.Do(func() { close(w.stop) })

	_, err := w.closeIdle(time.Now().Add(time.Hour))
	return err
}

// close must be called with mu held.
func (lf *logFile) close() error {
	lf.closed = true
	return lf.f.Close()
}
