package retention

import (
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DeleteMarker is a logical deletion placed on top of an object under
// versioning. Prior versions remain retrievable until expired.
type DeleteMarker struct {
	Key          string
	VersionID    string
	LastModified time.Time
}

// ObjectVersion is a noncurrent version of an object, retained after a
// newer version or a delete marker became current.
type ObjectVersion struct {
	Key          string
	VersionID    string
	LastModified time.Time
	Size         int64
	StorageClass string
}

// Report summarizes the deleted state of a bucket: delete markers and the
// noncurrent versions still recoverable behind them.
type Report struct {
	Markers    []DeleteMarker
	Noncurrent []ObjectVersion
}

// BuildReport converts a raw version listing into a Report. Only versions
// with IsLatest=false are counted as noncurrent; the current version of a
// live object is not a deleted object. Records are sorted by key, then by
// modification time (newest first) for stable display.
func BuildReport(markers []types.DeleteMarkerEntry, versions []types.ObjectVersion) Report {
	var report Report

	for _, m := range markers {
		report.Markers = append(report.Markers, DeleteMarker{
			Key:          aws.ToString(m.Key),
			VersionID:    aws.ToString(m.VersionId),
			LastModified: aws.ToTime(m.LastModified),
		})
	}

	for _, v := range versions {
		if aws.ToBool(v.IsLatest) {
			continue
		}
		report.Noncurrent = append(report.Noncurrent, ObjectVersion{
			Key:          aws.ToString(v.Key),
			VersionID:    aws.ToString(v.VersionId),
			LastModified: aws.ToTime(v.LastModified),
			Size:         aws.ToInt64(v.Size),
			StorageClass: string(v.StorageClass),
		})
	}

	sort.Slice(report.Markers, func(i, j int) bool {
		if report.Markers[i].Key != report.Markers[j].Key {
			return report.Markers[i].Key < report.Markers[j].Key
		}
		return report.Markers[i].LastModified.After(report.Markers[j].LastModified)
	})
	sort.Slice(report.Noncurrent, func(i, j int) bool {
		if report.Noncurrent[i].Key != report.Noncurrent[j].Key {
			return report.Noncurrent[i].Key < report.Noncurrent[j].Key
		}
		return report.Noncurrent[i].LastModified.After(report.Noncurrent[j].LastModified)
	})

	return report
}

// MarkerCount returns the number of delete markers in the report.
func (r Report) MarkerCount() int { return len(r.Markers) }

// NoncurrentCount returns the number of noncurrent versions in the report.
func (r Report) NoncurrentCount() int { return len(r.Noncurrent) }

// Total returns the combined count of delete markers and noncurrent versions.
func (r Report) Total() int { return len(r.Markers) + len(r.Noncurrent) }

// Empty reports whether the bucket has no deleted objects at all.
func (r Report) Empty() bool { return r.Total() == 0 }

// Keys returns the distinct object keys appearing in the report, sorted.
func (r Report) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range r.Markers {
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	for _, v := range r.Noncurrent {
		if !seen[v.Key] {
			seen[v.Key] = true
			keys = append(keys, v.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
