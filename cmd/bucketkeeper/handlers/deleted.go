package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/bucketkeeper/internal/retention"
)

// Deleted handles the --deleted report mode.
//
// It lists the bucket's delete markers and noncurrent object versions and
// prints them grouped by key with aggregate counts. Read-only: no bucket
// state is modified. An unreachable bucket is fatal; a failed listing
// degrades to a "could not retrieve" message.
func Deleted(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	prompt := newPrompter()
	if err := ensureSecretKey(ctx, cfg, prompt); err != nil {
		return err
	}

	client, err := newBucketClient(cfg)
	if err != nil {
		return err
	}

	log.Printf("Checking bucket %s at %s", cfg.Bucket, cfg.Endpoint)
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", cfg.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s not found", cfg.Bucket)
	}

	markers, versions, err := client.ListObjectVersions(ctx, cfg.Bucket)
	if err != nil {
		log.Printf("could not retrieve object versions: %v", err)
		return nil
	}

	report := retention.BuildReport(markers, versions)
	printReport(cfg.Bucket, report)
	return nil
}
