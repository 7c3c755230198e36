// Package provision creates buckets against a running local S3 endpoint.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"github.com/offlinehq/s3local/internal/logger"
)

// Static development credentials accepted by the local emulator.
const (
	accessKeyID     = "S3RVER"
	secretAccessKey = "S3RVER"
	region          = "us-east-1"
)

// Client issues idempotent create-bucket calls against a local endpoint
// using path-style addressing and no TLS.
type Client struct {
	s3       *s3.Client
	endpoint string
}

// New builds a client for the given endpoint, e.g. "http://localhost:4569".
func New(ctx context.Context, endpoint string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, secretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Client{s3: client, endpoint: endpoint}, nil
}

// CreateBucket creates a single bucket. A bucket that already exists counts
// as success; creation must stay idempotent so a retry on the next start is
// always safe.
func (c *Client) CreateBucket(ctx context.Context, name string) error {
	_, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			logger.Debug("bucket already exists", "bucket", name)
			return nil
		}
		return fmt.Errorf("failed to create bucket %q: %w", name, err)
	}
	logger.Debug("bucket created", "bucket", name)
	return nil
}

// CreateBuckets issues one creation call per name concurrently and waits for
// all of them. The first error is returned; in-flight sibling calls are not
// cancelled. An empty list resolves immediately.
func (c *Client) CreateBuckets(ctx context.Context, names []string) error {
	var g errgroup.Group
	for _, name := range names {
		name := name
		g.Go(func() error {
			return c.CreateBucket(ctx, name)
		})
	}
	return g.Wait()
}

// Endpoint returns the endpoint this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}
