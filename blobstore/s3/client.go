package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of the S3 API used by Store. *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	manager.DownloadAPIClient
	s3.HeadObjectAPIClient
	s3.ListObjectsV2APIClient
}

// TransferConfig tunes the parallel transfer managers.
type TransferConfig struct {
	// PartSize is the size of each ranged GET or multipart upload part.
	// Default: 8MB.
	PartSize int64

	// Concurrency is the number of parts transferred in parallel.
	// Default: 5.
	Concurrency int
}

// DefaultTransferConfig returns the transfer settings used by NewStore.
func DefaultTransferConfig() TransferConfig {
	return TransferConfig{
		PartSize:    8 * 1024 * 1024,
		Concurrency: 5,
	}
}

type options struct {
	region    string
	endpoint  string
	pathStyle bool
	transfer  TransferConfig
}

// Option configures New.
type Option func(*options)

// WithRegion overrides the region from the shared AWS configuration.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint points the client at an S3-compatible endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithPathStyle enables path-style addressing (bucket in the URL path).
func WithPathStyle(enabled bool) Option {
	return func(o *options) {
		o.pathStyle = enabled
	}
}

// WithTransferConfig sets the part size and concurrency of transfers.
func WithTransferConfig(cfg TransferConfig) Option {
	return func(o *options) {
		o.transfer = cfg
	}
}

// New loads the default AWS configuration (environment, shared files, IMDS)
// and returns a Store for bucket below rootPrefix.
func New(ctx context.Context, bucket, rootPrefix string, optFns ...Option) (*Store, error) {
	o := options{transfer: DefaultTransferConfig()}
	for _, fn := range optFns {
		fn(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
		}
		so.UsePathStyle = o.pathStyle
	})

	return NewStore(client, bucket, rootPrefix, o.transfer), nil
}
