package predictor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3Options configures access to an S3-compatible object store.
// AccessKey/SecretKey may be empty to use the default AWS credential chain.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// newS3Client is a seam for tests.
var newS3Client = func(ctx context.Context, opts S3Options) (objectGetter, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Load reads the artifact at source, either a local path or an s3://bucket/key URI,
// and builds the model from it.
func Load(ctx context.Context, source string, opts S3Options) (*LinearModel, error) {
	rc, err := open(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", source, err)
	}

	artifact, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", source, err)
	}
	return NewLinearModel(artifact)
}

func open(ctx context.Context, source string, opts S3Options) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, s3Scheme) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open model artifact: %w", err)
		}
		return f, nil
	}

	bucket, key, err := parseS3URI(source)
	if err != nil {
		return nil, err
	}

	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model artifact %s: %w", source, err)
	}
	return out.Body, nil
}

func parseS3URI(uri string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q, expected s3://bucket/key", uri)
	}
	return bucket, key, nil
}
