package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes artifacts as files below a directory.
type DirSink struct {
	Dir string
}

// NewDirSink returns a sink writing below dir. The directory is created on
// first use.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// Put writes data to Dir/name and returns the file path.
func (s *DirSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := validate(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}
	p := filepath.Join(s.Dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}
