// Package s3 provides a client for Hetzner Object Storage (S3-compatible).
//
// It covers the bucket control plane only: existence and location probes,
// versioning state, lifecycle configuration, and object-version listings.
// Data-plane transfers are out of scope for this tool.
package s3
