package retention

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// RuleID identifies the retention rule this tool manages. Merging is keyed
// on this ID: the rule is replaced wholesale on every apply, never edited.
const RuleID = "DeletedObjectsRetention60Days"

const (
	// noncurrentDays is how long noncurrent (deleted) object versions are
	// kept before the storage service expires them.
	noncurrentDays = 60

	// abortMultipartDays is how long incomplete multipart uploads may
	// linger before they are aborted.
	abortMultipartDays = 7
)

// Rule returns the full retention rule: expire noncurrent versions after
// 60 days and abort incomplete multipart uploads after 7 days, applied to
// all objects in the bucket.
func Rule() types.LifecycleRule {
	return types.LifecycleRule{
		ID:     aws.String(RuleID),
		Status: types.ExpirationStatusEnabled,
		Filter: &types.LifecycleRuleFilter{
			Prefix: aws.String(""),
		},
		NoncurrentVersionExpiration: &types.NoncurrentVersionExpiration{
			NoncurrentDays: aws.Int32(noncurrentDays),
		},
		AbortIncompleteMultipartUpload: &types.AbortIncompleteMultipartUpload{
			DaysAfterInitiation: aws.Int32(abortMultipartDays),
		},
	}
}

// FallbackRule returns a reduced variant of Rule for S3-compatible services
// that reject the multipart-abort action. It keeps the same ID so a later
// apply with the full rule replaces it cleanly.
func FallbackRule() types.LifecycleRule {
	return types.LifecycleRule{
		ID:     aws.String(RuleID),
		Status: types.ExpirationStatusEnabled,
		Filter: &types.LifecycleRuleFilter{
			Prefix: aws.String(""),
		},
		NoncurrentVersionExpiration: &types.NoncurrentVersionExpiration{
			NoncurrentDays: aws.Int32(noncurrentDays),
		},
	}
}

// Merge produces a lifecycle rule set containing rule exactly once,
// replacing any existing rule with the same ID and carrying every other
// rule through unmodified. A nil existing slice represents a bucket with
// no lifecycle configuration at all; the result is then just the rule.
//
// Merge is idempotent: merging its own output with the same rule yields
// an equal rule set.
func Merge(existing []types.LifecycleRule, rule types.LifecycleRule) []types.LifecycleRule {
	merged := make([]types.LifecycleRule, 0, len(existing)+1)
	seen := make(map[string]bool)

	for _, r := range existing {
		id := aws.ToString(r.ID)
		if id == aws.ToString(rule.ID) || seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, r)
	}

	return append(merged, rule)
}
