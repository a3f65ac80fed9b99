// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Set via ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// Current returns the version information of the running binary.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
}

// String formats the info for `newsdesk -version`.
func (i Info) String() string {
	return fmt.Sprintf("newsdesk %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}

// UserAgent returns the User-Agent header sent by the API client.
func (i Info) UserAgent() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return "newsdesk/" + v
}
