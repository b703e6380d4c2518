package pkg

import (
	"io"

	"github.com/minio/minio-go"
)

// ObjectStorage reads backup metadata from an S3 compatible bucket (DigitalOcean Spaces)
type ObjectStorage struct {
	BucketName string
	Client     *minio.Client
}

// NewObjectStorage constructs a minio client for the bucket
func NewObjectStorage(endpoint string, key string, secret string, bucketName string) (*ObjectStorage, error) {
	minioClient, err := minio.New(endpoint, key, secret, true)
	if err != nil {
		return nil, err
	}

	return &ObjectStorage{BucketName: bucketName, Client: minioClient}, nil
}

// ListObjectKeys lists the key of every object under prefix
func (s *ObjectStorage) ListObjectKeys(prefix string) ([]string, error) {
	var keys []string

	err := WithRetry("list bucket "+s.BucketName, func() error {
		doneCh := make(chan struct{})
		defer close(doneCh)

		keys = keys[:0]
		for item := range s.Client.ListObjectsV2(s.BucketName, prefix, true, doneCh) {
			if item.Err != nil {
				return item.Err
			}
			keys = append(keys, item.Key)
		}
		return nil
	})

	return keys, err
}

// OpenObject opens an object for reading
func (s *ObjectStorage) OpenObject(key string) (io.ReadCloser, error) {
	object, err := s.Client.GetObject(s.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return object, nil
}
