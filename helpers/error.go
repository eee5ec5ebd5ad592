package helpers

import (
	"strings"
	"sync"

	"github.com/juju/errors"
)

// FoldErrors joins non-nil errors, single error is returned as is.
func FoldErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	var last error
	ss := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			last = e
			ss = append(ss, e.Error())
		}
	}
	switch len(ss) {
	case 0:
		return nil
	case 1:
		return last
	}
	return errors.New(strings.Join(ss, "\n"))
}

// Run f and send its error (nil too) into errch, then wg.Done().
// Use with FoldErrChan for parallel init tasks.
func WrapErrChan(wg *sync.WaitGroup, errch chan<- error, f func() error) {
	defer wg.Done()
	errch <- f()
}

// errch must be closed.
func FoldErrChan(errch <-chan error) error {
	errs := make([]error, 0, len(errch))
	for e := range errch {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return FoldErrors(errs)
}
