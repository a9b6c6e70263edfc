package loader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/blobstore/minio"
	"github.com/hupe1980/recotarget/blobstore/s3"
)

// OpenStore returns the blob store for an input location:
//
//	/data/run-17                         local directory
//	file:///data/run-17                  local directory
//	s3://bucket/prefix                   Amazon S3, credentials from the AWS chain
//	minio://host:9000/bucket/prefix      MinIO, credentials from MINIO_* variables
//
// MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_SECURE configure MinIO;
// MINIO_ENDPOINT is used when the URL has no host.
func OpenStore(ctx context.Context, location string) (blobstore.WritableStore, error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return blobstore.NewLocalStore(location), nil
	}

	switch scheme {
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(u.Path), nil

	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, fmt.Errorf("s3 location %q has no bucket", location)
		}
		var opts []s3.Option
		if region := os.Getenv("AWS_REGION"); region != "" {
			opts = append(opts, s3.WithRegion(region))
		}
		return s3.New(ctx, bucket, prefix, opts...)

	case "minio":
		endpoint, path, _ := strings.Cut(rest, "/")
		if endpoint == "" {
			endpoint = os.Getenv("MINIO_ENDPOINT")
		}
		bucket, prefix, _ := strings.Cut(path, "/")
		if bucket == "" {
			return nil, fmt.Errorf("minio location %q has no bucket", location)
		}
		secure, _ := strconv.ParseBool(os.Getenv("MINIO_SECURE"))
		return minio.New(minio.Config{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    secure,
			Region:    os.Getenv("MINIO_REGION"),
		}, bucket, prefix)

	default:
		return nil, fmt.Errorf("unsupported input location scheme %q", scheme)
	}
}
