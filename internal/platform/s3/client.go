package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// VersioningState is the versioning status of a bucket. A bucket that has
// never had versioning enabled reports Disabled; once Enabled it can only
// move to Suspended, never back to Disabled.
type VersioningState string

const (
	VersioningDisabled  VersioningState = "Disabled"
	VersioningEnabled   VersioningState = "Enabled"
	VersioningSuspended VersioningState = "Suspended"
)

// Client wraps the S3 client for Hetzner Object Storage.
type Client struct {
	s3     *s3.Client
	region string
}

// NewClient creates a new S3 client for Hetzner Object Storage.
func NewClient(endpoint, region, accessKey, secretKey string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = false // Hetzner uses virtual-hosted style
	})

	return &Client{s3: client, region: region}, nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// BucketLocation returns the bucket's location constraint. An empty
// constraint means the service default region.
func (c *Client) BucketLocation(ctx context.Context, bucketName string) (string, error) {
	result, err := c.s3.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get location of bucket %s: %w", bucketName, err)
	}
	if result.LocationConstraint == "" {
		return c.region, nil
	}
	return string(result.LocationConstraint), nil
}

// Versioning returns the bucket's versioning state. An absent status in
// the response means versioning was never enabled.
func (c *Client) Versioning(ctx context.Context, bucketName string) (VersioningState, error) {
	result, err := c.s3.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get versioning of bucket %s: %w", bucketName, err)
	}

	switch result.Status {
	case types.BucketVersioningStatusEnabled:
		return VersioningEnabled, nil
	case types.BucketVersioningStatusSuspended:
		return VersioningSuspended, nil
	default:
		return VersioningDisabled, nil
	}
}

// EnableVersioning turns on object versioning for the bucket. This cannot
// be reverted to Disabled, only to Suspended.
func (c *Client) EnableVersioning(ctx context.Context, bucketName string) error {
	_, err := c.s3.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(bucketName),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable versioning on bucket %s: %w", bucketName, err)
	}
	return nil
}

// LifecycleRules returns the bucket's lifecycle rules. The second return
// value distinguishes a bucket with no lifecycle configuration at all
// (false, the service reports this as an error condition) from one with an
// empty rule set.
func (c *Client) LifecycleRules(ctx context.Context, bucketName string) ([]types.LifecycleRule, bool, error) {
	result, err := c.s3.GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNoLifecycleConfiguration(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get lifecycle of bucket %s: %w", bucketName, err)
	}
	return result.Rules, true, nil
}

// PutLifecycleRules replaces the bucket's lifecycle configuration with the
// given rule set.
func (c *Client) PutLifecycleRules(ctx context.Context, bucketName string, rules []types.LifecycleRule) error {
	_, err := c.s3.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucketName),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: rules,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put lifecycle on bucket %s: %w", bucketName, err)
	}
	return nil
}

// ListObjectVersions returns all delete markers and object versions in the
// bucket, following continuation markers until the listing is exhausted.
func (c *Client) ListObjectVersions(ctx context.Context, bucketName string) ([]types.DeleteMarkerEntry, []types.ObjectVersion, error) {
	var markers []types.DeleteMarkerEntry
	var versions []types.ObjectVersion

	input := &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucketName),
	}
	for {
		result, err := c.s3.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list object versions in bucket %s: %w", bucketName, err)
		}

		markers = append(markers, result.DeleteMarkers...)
		versions = append(versions, result.Versions...)

		if !aws.ToBool(result.IsTruncated) {
			return markers, versions, nil
		}
		input.KeyMarker = result.NextKeyMarker
		input.VersionIdMarker = result.NextVersionIdMarker
	}
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed S3 errors first
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	// that may not return the exact SDK error types
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}

// isNoLifecycleConfiguration checks if the error signals that the bucket
// has no lifecycle configuration. The service reports absence as an error,
// distinct from an empty rule set.
func isNoLifecycleConfiguration(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchLifecycleConfiguration"
	}

	return false
}
