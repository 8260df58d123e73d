package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/imamik/bucketkeeper/internal/config"
	platforms3 "github.com/imamik/bucketkeeper/internal/platform/s3"
	"github.com/imamik/bucketkeeper/internal/retention"
)

// bucketSettings holds the probed state of a bucket. Read failures are
// kept per field so the settings display degrades instead of aborting.
type bucketSettings struct {
	Location      string
	LocationErr   error
	Versioning    platforms3.VersioningState
	VersioningErr error
	Rules         []types.LifecycleRule
	HasLifecycle  bool
	LifecycleErr  error
}

// Apply handles the interactive retention setup.
//
// It probes the bucket, shows the current settings, and walks the operator
// through enabling versioning (if needed) and installing the retention
// lifecycle rule. Every mutation happens only after an explicit
// confirmation. An unreachable bucket is fatal; individual read failures
// degrade to "could not retrieve" lines in the settings display.
func Apply(ctx context.Context, configPath string) error {
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

	settings := probeSettings(ctx, client, cfg.Bucket)
	printSettings(cfg.Bucket, settings)

	ok, err := prompt.Confirm(ctx,
		"Configure deleted-object retention?",
		fmt.Sprintf("Installs lifecycle rule %s: expire noncurrent versions after 60 days, abort incomplete multipart uploads after 7 days. Other lifecycle rules are left untouched.", retention.RuleID),
	)
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if !ok {
		log.Println("No changes made.")
		return nil
	}

	// Noncurrent versions only exist under versioning, so the rule is
	// pointless (and the precondition unverifiable) without a known
	// versioning state.
	if settings.VersioningErr != nil {
		return fmt.Errorf("cannot configure retention without the versioning state: %w", settings.VersioningErr)
	}
	if settings.Versioning != platforms3.VersioningEnabled {
		ok, err := prompt.Confirm(ctx,
			fmt.Sprintf("Enable versioning on bucket %s?", cfg.Bucket),
			"Deleted objects are only retained as noncurrent versions while versioning is on. Once enabled, versioning cannot be disabled again, only suspended.",
		)
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if !ok {
			log.Println("Versioning left as is; retention rule not applied.")
			return nil
		}
		if err := client.EnableVersioning(ctx, cfg.Bucket); err != nil {
			return err
		}
		log.Printf("Versioning enabled on bucket %s", cfg.Bucket)
	}

	if err := applyRetentionRule(ctx, client, cfg.Bucket); err != nil {
		return err
	}

	printSettings(cfg.Bucket, probeSettings(ctx, client, cfg.Bucket))
	return nil
}

// ensureSecretKey prompts for the credential secret when the environment
// and config file did not provide one.
func ensureSecretKey(ctx context.Context, cfg *config.Config, prompt prompter) error {
	if cfg.SecretKey != "" {
		return nil
	}
	secret, err := prompt.Secret(ctx, fmt.Sprintf("Secret key for access key %s", cfg.AccessKey))
	if err != nil {
		return fmt.Errorf("secret key prompt failed: %w", err)
	}
	if secret == "" {
		return errors.New("secret key is required")
	}
	cfg.SecretKey = secret
	return nil
}

// probeSettings queries location, versioning, and lifecycle configuration,
// recording failures per field.
func probeSettings(ctx context.Context, client bucketClient, bucket string) bucketSettings {
	var s bucketSettings
	s.Location, s.LocationErr = client.BucketLocation(ctx, bucket)
	s.Versioning, s.VersioningErr = client.Versioning(ctx, bucket)
	s.Rules, s.HasLifecycle, s.LifecycleErr = client.LifecycleRules(ctx, bucket)
	return s
}

// applyRetentionRule merges the retention rule into the bucket's lifecycle
// configuration and applies it. If the service rejects the full rule, one
// retry is made with the reduced rule; a second rejection is final.
func applyRetentionRule(ctx context.Context, client bucketClient, bucket string) error {
	existing, hasLifecycle, err := client.LifecycleRules(ctx, bucket)
	if err != nil {
		return fmt.Errorf("cannot merge lifecycle rules without the current configuration: %w", err)
	}
	if !hasLifecycle {
		log.Printf("Bucket %s has no lifecycle configuration yet", bucket)
	}

	merged := retention.Merge(existing, retention.Rule())
	logLifecyclePayload(merged)

	err = client.PutLifecycleRules(ctx, bucket, merged)
	if err == nil {
		log.Printf("Lifecycle rule %s applied", retention.RuleID)
		return nil
	}
	log.Printf("Full rule rejected by the service: %v", err)
	log.Println("Retrying once with reduced rule (no multipart-abort action)")

	reduced := retention.Merge(existing, retention.FallbackRule())
	logLifecyclePayload(reduced)
	if err := client.PutLifecycleRules(ctx, bucket, reduced); err != nil {
		return fmt.Errorf("lifecycle apply failed after fallback: %w", err)
	}
	log.Printf("Reduced lifecycle rule %s applied", retention.RuleID)
	return nil
}

// logLifecyclePayload prints the configuration about to be applied so the
// operator sees exactly what the bucket will receive.
func logLifecyclePayload(rules []types.LifecycleRule) {
	payload, err := json.MarshalIndent(struct {
		Rules []types.LifecycleRule `json:"Rules"`
	}{rules}, "", "  ")
	if err != nil {
		log.Printf("could not render lifecycle payload: %v", err)
		return
	}
	log.Printf("Lifecycle configuration to apply:\n%s", payload)
}
