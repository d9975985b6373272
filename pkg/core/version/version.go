// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     version
// Description: Build version information
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version is the release version, overridden at link time via
// -ldflags "-X github.com/msto63/lauscher/pkg/core/version.Version=..."
var Version = "0.1.0"

// Commit is the source revision, set at link time
var Commit = "dev"

// String returns a one-line version description
func String() string {
	return fmt.Sprintf("lauscher %s (%s, %s/%s, %s)", Version, Commit, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
