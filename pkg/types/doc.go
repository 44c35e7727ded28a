// Package types holds the shared interfaces used across homesync packages.
package types
