package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores an encoded file under folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file DataURI, folder string) (string, error)
}

// S3Config holds object storage settings. Endpoint may point at any
// S3-compatible server such as MinIO.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PublicURL    string
}

// S3Uploader puts objects into a single bucket.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	newKey    func(folder, ext string) string
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader builds an uploader from cfg. Static credentials are used
// when an access key is set, otherwise the default AWS chain applies.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.RetryMaxAttempts = 1
	})

	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		newKey:    objectKey,
	}, nil
}

func objectKey(folder, ext string) string {
	return folder + "/" + uuid.NewString() + ext
}

// Upload stores file under <folder>/<uuid><ext>.
func (u *S3Uploader) Upload(ctx context.Context, file DataURI, folder string) (string, error) {
	key := u.newKey(folder, file.Extension)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Bytes()),
		ContentLength: aws.Int64(int64(len(file.Bytes()))),
		ContentType:   aws.String(file.MIME),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.publicURL + "/" + key, nil
}
