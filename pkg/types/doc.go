// Package types defines the quota, status, and board entity types shared by
// the warden core, along with the standard error values callers match on.
package types
