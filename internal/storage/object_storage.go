package storage

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gedops/internal/types"
)

const (
	backupBucket = "ged-backups"
)

type Credentials struct {
	Endpoint, KeyID, SecretKey, Region string
}

type objectStorage struct {
	client *minio.Client
	region string
}

func NewObjectStorage(cred Credentials) (Storage, error) {
	mn, err := minio.New(cred.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cred.KeyID, cred.SecretKey, ""),
		Secure: false,
		Region: cred.Region,
	})
	if err != nil {
		return nil, err
	}
	return &objectStorage{
		region: cred.Region,
		client: mn,
	}, nil
}

func (s objectStorage) Save(ctx context.Context, location string, file types.File) error {
	if err := s.makeBucket(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, backupBucket, objectKey(location), file.Content, file.Stat.Size, minio.PutObjectOptions{
		ContentType: file.GetContentType(),
	})
	return err
}

func (s objectStorage) Get(ctx context.Context, location string) (*types.File, error) {
	r, err := s.client.GetObject(ctx, backupBucket, objectKey(location), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	stat, err := r.Stat()
	if err != nil {
		return nil, err
	}

	return &types.File{
		Content: r,
		Stat:    types.FileStat{Size: stat.Size, Name: stat.Key},
	}, nil
}

func (s objectStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	result := make([]ObjectInfo, 0)
	for obj := range s.client.ListObjects(ctx, backupBucket, minio.ListObjectsOptions{
		Prefix:    objectKey(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		result = append(result, ObjectInfo{
			Location: obj.Key,
			Size:     obj.Size,
			ModTime:  obj.LastModified,
		})
	}
	return result, nil
}

func (s objectStorage) Delete(ctx context.Context, location string) error {
	return s.client.RemoveObject(ctx, backupBucket, objectKey(location), minio.RemoveObjectOptions{})
}

func (s objectStorage) makeBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, backupBucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.client.MakeBucket(ctx, backupBucket, minio.MakeBucketOptions{
		Region: s.region,
	})
}

func (s objectStorage) Ping(ctx context.Context) error {
	_, err := s.client.ListBuckets(ctx)
	return err
}

// objectKey strips the leading slash an absolute local path carries so
// the same location string addresses both backends.
func objectKey(location string) string {
	return strings.TrimPrefix(location, "/")
}
