package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client used to read holdings.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// parseS3URL splits s3://bucket/key.
func parseS3URL(addr string) (bucket, key string, err error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", "", err
	}
	bucket, key = u.Host, strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 location %q: want s3://bucket/key", addr)
	}
	return bucket, key, nil
}

// newS3Client builds a client from the default AWS credential chain.
func newS3Client(ctx context.Context) (ObjectGetter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load AWS configuration: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// s3get reads an object and returns its content and content type.
func s3get(ctx context.Context, client ObjectGetter, addr string) ([]byte, string, error) {
	bucket, key, err := parseS3URL(addr)
	if err != nil {
		return nil, "", err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("cannot get %q: %w", addr, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return nil, "", fmt.Errorf("cannot read %q: %w", addr, err)
	}
	return buf.Bytes(), aws.ToString(out.ContentType), nil
}
