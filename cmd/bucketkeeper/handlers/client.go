// Package handlers implements the command logic for the bucketkeeper CLI.
//
// Handlers receive their collaborators through package-level factory
// variables so tests can substitute fakes without a network or a terminal.
package handlers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/imamik/bucketkeeper/internal/config"
	platforms3 "github.com/imamik/bucketkeeper/internal/platform/s3"
)

// bucketClient is the bucket control-plane surface the handlers need.
// Implemented by *s3.Client; replaced by a fake in tests.
type bucketClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	BucketLocation(ctx context.Context, bucket string) (string, error)
	Versioning(ctx context.Context, bucket string) (platforms3.VersioningState, error)
	EnableVersioning(ctx context.Context, bucket string) error
	LifecycleRules(ctx context.Context, bucket string) ([]types.LifecycleRule, bool, error)
	PutLifecycleRules(ctx context.Context, bucket string, rules []types.LifecycleRule) error
	ListObjectVersions(ctx context.Context, bucket string) ([]types.DeleteMarkerEntry, []types.ObjectVersion, error)
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.Load

	newBucketClient = func(cfg *config.Config) (bucketClient, error) {
		return platforms3.NewClient(cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	}

	newPrompter = func() prompter {
		return huhPrompter{}
	}
)
