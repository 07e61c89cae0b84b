package gitctx

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// fakeRunner answers git invocations from a table keyed by the joined args.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	fail    map[string]bool
	panicOn string
	calls   []string
	dirs    []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, fail: map[string]bool{}}
}

func (f *fakeRunner) on(out string, args ...string) *fakeRunner {
	f.outputs[strings.Join(args, " ")] = out
	return f
}

func (f *fakeRunner) failOn(args ...string) *fakeRunner {
	f.fail[strings.Join(args, " ")] = true
	return f
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.dirs = append(f.dirs, dir)
	f.mu.Unlock()
	if f.panicOn != "" && key == f.panicOn {
		panic("boom")
	}
	if f.fail[key] {
		return "", errors.New("exit status 128")
	}
	out, ok := f.outputs[key]
	if !ok {
		return "", errors.Newf("unexpected git call: %s", key)
	}
	return out, nil
}

// nul renders fields the way git prints them with -z.
func nul(fields ...string) string {
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, "\x00") + "\x00"
}
