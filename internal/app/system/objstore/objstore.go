// Package objstore wraps the MinIO client with the handful of operations
// the file manager needs. All file bytes live here; everything else in the
// system is metadata.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// FolderMarker is the zero-byte object written to make an empty folder
// visible in listings.
const FolderMarker = ".keep"

// Store is a bucket-scoped object store client.
type Store struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// Entry is one row in a folder listing.
type Entry struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	IsFolder     bool      `json:"is_folder"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// Connect builds a MinIO client for the given endpoint.
func Connect(endpoint, accessKey, secretKey, region string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client init: %w", err)
	}
	return client, nil
}

// New creates a Store over an existing client and bucket.
func New(client *minio.Client, bucket string, logger *zap.Logger) *Store {
	return &Store{client: client, bucket: bucket, log: logger}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("bucket create %q: %w", s.bucket, err)
	}
	s.log.Info("created bucket", zap.String("bucket", s.bucket))
	return nil
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket ping %q: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q missing", s.bucket)
	}
	return nil
}

// List returns the immediate children of a folder: subfolders first (via
// delimiter listing), then files. Folder marker objects are hidden.
func (s *Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	var folders, files []Entry
	for obj := range objectCh {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			p := strings.TrimSuffix(obj.Key, "/")
			folders = append(folders, Entry{
				Path:     p,
				Name:     baseName(p),
				IsFolder: true,
			})
			continue
		}
		if baseName(obj.Key) == FolderMarker {
			continue
		}
		files = append(files, Entry{
			Path:         obj.Key,
			Name:         baseName(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return append(folders, files...), nil
}

// Put stores an object.
func (s *Store) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", path, err)
	}
	return nil
}

// Get opens an object for reading. The caller closes it.
func (s *Store) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", path, err)
	}
	return obj, nil
}

// Stat returns metadata for a single object.
func (s *Store) Stat(ctx context.Context, path string) (Entry, error) {
	info, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		return Entry{}, fmt.Errorf("stat %q: %w", path, err)
	}
	return Entry{
		Path:         info.Key,
		Name:         baseName(info.Key),
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// Exists reports whether an object is present at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return true, nil
}

// Delete removes a single object.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

// DeletePrefix removes every object under a folder and returns the count.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	count := 0
	for obj := range objectCh {
		if obj.Err != nil {
			return count, fmt.Errorf("list %q: %w", prefix, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return count, fmt.Errorf("delete %q: %w", obj.Key, err)
		}
		count++
	}
	return count, nil
}

// Move renames an object via server-side copy plus delete.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dst},
		minio.CopySrcOptions{Bucket: s.bucket, Object: src})
	if err != nil {
		return fmt.Errorf("copy %q -> %q: %w", src, dst, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, src, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %q after copy: %w", src, err)
	}
	return nil
}

// MovePrefix moves every object under srcPrefix to the same relative path
// under dstPrefix, returning the number of objects moved.
func (s *Store) MovePrefix(ctx context.Context, srcPrefix, dstPrefix string) (int, error) {
	src := srcPrefix
	if src != "" && !strings.HasSuffix(src, "/") {
		src += "/"
	}
	dstRoot := strings.TrimSuffix(dstPrefix, "/")

	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    src,
		Recursive: true,
	})

	count := 0
	for obj := range objectCh {
		if obj.Err != nil {
			return count, fmt.Errorf("list %q: %w", srcPrefix, obj.Err)
		}
		rel := strings.TrimPrefix(obj.Key, src)
		dst := dstRoot + "/" + rel
		if err := s.Move(ctx, obj.Key, dst); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// PutFolderMarker writes the zero-byte marker object that makes an empty
// folder appear in listings.
func (s *Store) PutFolderMarker(ctx context.Context, folder string) error {
	marker := strings.TrimSuffix(folder, "/") + "/" + FolderMarker
	return s.Put(ctx, marker, bytes.NewReader(nil), 0, "application/octet-stream")
}

// PresignedGet returns a time-limited download URL. downloadName, when
// non-empty, sets the attachment filename on the response.
func (s *Store) PresignedGet(ctx context.Context, path string, expiry time.Duration, downloadName string) (string, error) {
	params := make(url.Values)
	if downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", path, err)
	}
	return u.String(), nil
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
