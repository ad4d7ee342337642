package emotion

import (
	"errors"
	"fmt"
	"sync"
)

// Loader builds the process-wide classifier on first use. Every caller sees
// the same instance or the same error.
type Loader struct {
	once sync.Once
	load func() (*Classifier, error)
	c    *Classifier
	err  error
}

func NewLoader(load func() (*Classifier, error)) *Loader {
	return &Loader{load: load}
}

// Get returns the loaded classifier. Load failures are reported as
// ErrModelUnavailable.
func (l *Loader) Get() (*Classifier, error) {
	l.once.Do(func() {
		c, err := l.load()
		switch {
		case err == nil && c == nil:
			l.err = fmt.Errorf("%w: loader returned no classifier", ErrModelUnavailable)
		case err != nil && !errors.Is(err, ErrModelUnavailable):
			l.err = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		default:
			l.c, l.err = c, err
		}
	})
	return l.c, l.err
}
