package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

const (
	defaultRegion     = "us-east-1"
	defaultPresignTTL = 15 * time.Minute
)

// S3Config describes an S3 or MinIO bucket. Empty keys fall back to the
// default AWS credential chain.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	// PresignTTL > 0 makes Put return a presigned GET URL instead of an
	// s3:// location.
	PresignTTL time.Duration
}

// S3Sink uploads artifacts with PutObject.
type S3Sink struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewS3Sink builds an S3 client from cfg. Without static keys the default
// AWS credential chain is used.
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and older S3 clones reject aws-chunked trailing checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)

	return &S3Sink{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL,
	}, nil
}

func (s *S3Sink) Name() string { return "s3" }

func (s *S3Sink) Put(ctx context.Context, key string, a *models.Artifact) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(a.Data),
		ContentLength: aws.Int64(int64(len(a.Data))),
	}
	if a.ContentType != "" {
		in.ContentType = aws.String(a.ContentType)
	}
	if a.FileName != "" {
		in.ContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", a.FileName))
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", err
	}

	if s.presignTTL <= 0 {
		return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
	}
	return s.URL(ctx, key)
}

// URL returns a presigned GET URL for key.
func (s *S3Sink) URL(ctx context.Context, key string) (string, error) {
	ttl := s.presignTTL
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
