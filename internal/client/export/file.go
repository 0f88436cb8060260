package export

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/filex"
)

// FileSink writes artifacts below a root directory.
type FileSink struct {
	root string
}

// NewFileSink creates dir (relative to the working directory unless
// absolute) and returns a sink rooted there.
func NewFileSink(dir string) (*FileSink, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileSink{root: root}, nil
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Put(ctx context.Context, key string, a *models.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := filepath.Join(s.root, filepath.FromSlash(key))
	if _, err := filex.EnsureDir(filepath.Dir(p)); err != nil {
		return "", err
	}
	if err := filex.WriteFileAtomic(p, a.Data, 0o640); err != nil {
		return "", err
	}
	return p, nil
}
