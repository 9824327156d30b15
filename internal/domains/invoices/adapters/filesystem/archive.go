package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
)

var _ ports.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore keeps invoice copies under a directory. Copies are written to
// a temp file and renamed into place on commit, so readers never see a
// partial invoice.
type ArchiveStore struct {
	dir string
}

func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{dir: dir}
}

func (s *ArchiveStore) Dir() string {
	return s.dir
}

// Path is where a committed invoice lives.
func (s *ArchiveStore) Path(fileName string) string {
	return filepath.Join(s.dir, fileName)
}

func (s *ArchiveStore) Create(ctx context.Context, fileName string) (ports.Sink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fileName == "" || filepath.Base(fileName) != fileName {
		return nil, fmt.Errorf("invalid invoice file name %q", fileName)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoice dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+fileName+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create invoice temp file: %w", err)
	}
	return &fileSink{file: tmp, final: s.Path(fileName)}, nil
}

type fileSink struct {
	file  *os.File
	final string
	once  sync.Once
	err   error
}

func (f *fileSink) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

func (f *fileSink) Commit() error {
	f.once.Do(func() {
		if err := f.file.Sync(); err != nil {
			f.err = errors.Join(err, f.discard())
			return
		}
		if err := f.file.Close(); err != nil {
			f.err = errors.Join(err, os.Remove(f.file.Name()))
			return
		}
		if err := os.Rename(f.file.Name(), f.final); err != nil {
			f.err = errors.Join(err, os.Remove(f.file.Name()))
		}
	})
	return f.err
}

func (f *fileSink) Abort() error {
	f.once.Do(func() {
		f.err = f.discard()
	})
	return f.err
}

func (f *fileSink) discard() error {
	closeErr := f.file.Close()
	if err := os.Remove(f.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, err)
	}
	return nil
}
