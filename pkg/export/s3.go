package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	orgconfig "github.com/dd0wney/cluso-orgnet/pkg/config"
)

// s3Client is the subset of the S3 API the uploader needs
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader ships encoded snapshots to an S3 bucket
type S3Uploader struct {
	client s3Client
	bucket string
	prefix string
}

// NewS3Uploader builds an uploader from the default AWS credential chain
func NewS3Uploader(ctx context.Context, cfg orgconfig.S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Upload encodes the snapshot and puts it at <prefix>/<canonical name>.
// Returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, snap *Snapshot) (string, error) {
	compressed, err := Encode(snap)
	if err != nil {
		return "", err
	}

	key := path.Join(u.prefix, FileName(snap.RunID))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w", u.bucket, key, err)
	}

	return key, nil
}
