package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
)

// localStore keeps documents on disk under MediaDir. Dev only.
type localStore struct {
	mediaDir string
	baseURL  string
}

var _ core.FileStore = (*localStore)(nil)

func NewLocalStore(conf *core.Config) *localStore {
	return &localStore{
		mediaDir: conf.MediaDir,
		baseURL:  conf.FrontendBaseURL + "/media",
	}
}

func (s *localStore) Upload(ctx context.Context, localPath, ownerKey, slot string) (string, error) {
	defer func() { _ = os.Remove(localPath) }()

	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}
	defer func() { _ = src.Close() }()

	dir := filepath.Join(s.mediaDir, ownerKey)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}
	name := slot + filepath.Ext(localPath)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}
	defer func() { _ = dst.Close() }()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}
	return s.baseURL + "/" + ownerKey + "/" + name, nil
}
