package cartstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/norun9/dressco-storefront/cart"
)

// ErrInvalidSession is returned for session ids that cannot name a file.
var ErrInvalidSession = errors.New("cartstore: invalid session id")

// FileCartStore writes one JSON file per session under a root directory.
type FileCartStore struct {
	dir string
	log logrus.FieldLogger
}

// NewFileCartStore constructor
func NewFileCartStore(dir string, log logrus.FieldLogger) *FileCartStore {
	return &FileCartStore{dir: dir, log: log}
}

// Initialize creates the root directory.
func (f *FileCartStore) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating cart directory %s", f.dir)
	}
	f.log.WithField("dir", f.dir).Info("FileCartStore initialized")
	return nil
}

func (f *FileCartStore) path(sessionID string) (string, error) {
	if sessionID == "" || sessionID == "." || sessionID == ".." ||
		strings.ContainsAny(sessionID, `/\`) {
		return "", errors.Wrapf(ErrInvalidSession, "%q", sessionID)
	}
	return filepath.Join(f.dir, sessionID, cart.StorageKey+".json"), nil
}

// Load reads the session's file.
func (f *FileCartStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	p, err := f.path(sessionID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the slot so readers never
// see a partial write.
func (f *FileCartStore) Save(ctx context.Context, sessionID string, data []byte) error {
	p, err := f.path(sessionID)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.Wrapf(err, "renaming into %s", p)
	}
	return nil
}

// Delete removes the session's directory.
func (f *FileCartStore) Delete(ctx context.Context, sessionID string) error {
	p, err := f.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Dir(p)); err != nil {
		return errors.Wrap(err, "removing cart directory")
	}
	return nil
}

// Ping reports whether the root directory is reachable.
func (f *FileCartStore) Ping(ctx context.Context) bool {
	info, err := os.Stat(f.dir)
	return err == nil && info.IsDir()
}

func (f *FileCartStore) Close() error { return nil }
