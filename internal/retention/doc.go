// Package retention holds the lifecycle retention policy for deleted
// objects and the merge logic that installs it into a bucket's existing
// lifecycle configuration without disturbing unrelated rules.
//
// It also models the deleted-object report built from a version listing
// (delete markers plus noncurrent versions).
package retention
