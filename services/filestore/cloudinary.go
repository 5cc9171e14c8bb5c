// Package filestore persists applicant documents and hands back durable URLs.
package filestore

import (
	"context"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
)

type cloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

var _ core.FileStore = (*cloudinaryStore)(nil)

func NewCloudinaryStore(conf *core.Config) (*cloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(
		conf.Cloudinary.CloudName,
		conf.Cloudinary.ApiKey,
		conf.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, errors.Wrap(err, "configuring cloudinary")
	}
	return &cloudinaryStore{cld: cld, folder: conf.AppName}, nil
}

// Upload pushes the temp file at localPath under <folder>/<ownerKey>/<slot>
// and removes the temp file regardless of the outcome.
func (s *cloudinaryStore) Upload(ctx context.Context, localPath, ownerKey, slot string) (string, error) {
	defer func() { _ = os.Remove(localPath) }()

	res, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		PublicID: slot,
		Folder:   s.folder + "/" + ownerKey,
	})
	if err != nil {
		return "", errors.Wrap(core.ErrUploadFailed, err.Error())
	}
	if res.Error.Message != "" {
		return "", errors.Wrap(core.ErrUploadFailed, res.Error.Message)
	}
	return res.SecureURL, nil
}
