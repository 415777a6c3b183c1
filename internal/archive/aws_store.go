package archive

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultAWSRegion = "us-east-1"

// awsObjects is the part of *s3.Client the store uses.
type awsObjects interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// AWSStore writes snapshots to an existing S3 bucket using the AWS default
// credential chain (env, shared profile, instance role).
type AWSStore struct {
	client awsObjects
	bucket string
}

func NewAWSStore(ctx context.Context, bucket, region, profile string) (*AWSStore, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(defaultAWSRegion)}
	if r := strings.TrimSpace(region); r != "" {
		opts = append(opts, config.WithRegion(r))
	}
	if p := strings.TrimSpace(profile); p != "" {
		opts = append(opts, config.WithSharedConfigProfile(p))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return newAWSStore(s3.NewFromConfig(awsCfg), bucket), nil
}

func newAWSStore(client awsObjects, bucket string) *AWSStore {
	return &AWSStore{client: client, bucket: bucket}
}

func (s *AWSStore) Put(ctx context.Context, key string, content []byte) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(content),
		ContentType: awssdk.String("application/json"),
	})
	return err
}

func (s *AWSStore) List(ctx context.Context) ([]string, error) {
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: awssdk.String(s.bucket),
		Prefix: awssdk.String(keyPrefix),
	})
	keys := make([]string, 0, 32)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if k := awssdk.ToString(obj.Key); k != "" {
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}
