package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

// RegistryRepo keeps the registry document as one object.
type RegistryRepo struct {
	client *minio.Client
	bucket string
	key    string
}

func NewRegistryRepo(client *minio.Client, bucket, key string) *RegistryRepo {
	return &RegistryRepo{client: client, bucket: bucket, key: key}
}

func (r *RegistryRepo) Load(ctx context.Context) ([]int64, error) {
	if r.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}

	obj, err := r.client.GetObject(ctx, r.bucket, r.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get registry object: %w", err)
	}
	defer obj.Close()

	return decodeObject(io.ReadAll(obj))
}

// decodeObject maps the result of reading the registry object. GetObject is
// lazy, so a missing key only surfaces on the first read.
func decodeObject(data []byte, err error) ([]int64, error) {
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry object: %w", err)
	}
	return registry.DecodeDocument(data)
}

func (r *RegistryRepo) Save(ctx context.Context, userIDs []int64) error {
	if r.client == nil {
		return fmt.Errorf("s3 client is nil")
	}

	data, err := registry.EncodeDocument(userIDs)
	if err != nil {
		return err
	}

	if _, err := r.client.PutObject(ctx, r.bucket, r.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	}); err != nil {
		return fmt.Errorf("put registry object: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
