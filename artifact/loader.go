package artifact

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

type LoaderArgs struct {
	ArtifactPath string `arg:"--artifact-path,env:ARTIFACT_PATH" default:"service_interval_model.json" json:"artifact_path"`
}

// Loader reads the artifact at most once per process. Concurrent first loads
// collapse into a single file read and every later Load returns the cached
// bundle without touching storage. A loader is never torn down; the bundle
// lives for the life of the process.
type Loader struct {
	path   string
	cached atomic.Pointer[Bundle]
	sf     singleflight.Group
	reads  atomic.Uint64
}

func NewLoader(args LoaderArgs) *Loader {
	return &Loader{path: args.ArtifactPath}
}

func (l *Loader) Path() string {
	return l.path
}

// Load returns the process-wide bundle, reading the artifact on first use.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if b := l.cached.Load(); b != nil {
		return b, nil
	}
	v, err, _ := l.sf.Do(l.path, func() (interface{}, error) {
		if b := l.cached.Load(); b != nil {
			return b, nil
		}
		b, err := l.read()
		if err != nil {
			return nil, err
		}
		l.cached.Store(b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

func (l *Loader) read() (*Bundle, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact '%s': %v", l.path, err)
	}
	l.reads.Inc()
	return FromJSON(data)
}

// Reads reports how many times the artifact file was actually read.
func (l *Loader) Reads() uint64 {
	return l.reads.Load()
}
