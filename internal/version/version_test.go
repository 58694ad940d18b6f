package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFillsGoVersion(t *testing.T) {
	t.Parallel()
	info := Get()
	require.NotEmpty(t, info.Version)
	require.NotEmpty(t, info.GoVersion)
	require.Contains(t, info.String(), "alloy-heat "+info.Version)
}

func TestBuildInfoFallback(t *testing.T) {
	t.Parallel()
	read := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	got := fromBuildInfo(Info{Version: "dev", GoVersion: "go1.24.0"}, read)
	require.Equal(t, "alloy-heat v0.3.1 (0123456789ab-dirty, go1.24.0, 2026-10-01T12:00:00Z)", got.String())

	injected := fromBuildInfo(Info{Version: "v1.0.0", Commit: "abc", GoVersion: "go1.24.0"}, read)
	require.Equal(t, "v1.0.0", injected.Version)
	require.Equal(t, "abc", injected.Commit)
}

func TestNoBuildInfo(t *testing.T) {
	t.Parallel()
	got := fromBuildInfo(Info{Version: "dev", GoVersion: "go1.24.0"}, func() (*debug.BuildInfo, bool) { return nil, false })
	require.Equal(t, "alloy-heat dev (unknown commit, go1.24.0)", got.String())
}
