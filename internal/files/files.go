package files

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// Test data larger than this is rejected, the judge would refuse it anyway.
const MaxFileSize = 16 * 1024 * 1024

var ErrFileTooLarge = errors.New("file is too large")

type FileStorage struct {
	cl     *minio.Client
	Bucket string
}

type Config struct {
	Url      string
	Login    string
	Password string
	Bucket   string
	Secure   bool
}

func NewFileStorage(cfg Config) (*FileStorage, error) {
	client, err := minio.New(cfg.Url, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Login, cfg.Password, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}
	return &FileStorage{cl: client, Bucket: cfg.Bucket}, nil
}

func (s *FileStorage) GetFile(ctx context.Context, filename string) (io.Reader, error) {
	file, err := s.cl.GetObject(ctx, s.Bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Getter is the read side of FileStorage.
type Getter interface {
	GetFile(ctx context.Context, filename string) (io.Reader, error)
}

// ReadString reads a whole object into memory.
func ReadString(ctx context.Context, storage Getter, filename string) (string, error) {
	r, err := storage.GetFile(ctx, filename)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get %s", filename)
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", filename)
	}
	if len(data) > MaxFileSize {
		return "", errors.Wrapf(ErrFileTooLarge, "%s", filename)
	}
	return string(data), nil
}
