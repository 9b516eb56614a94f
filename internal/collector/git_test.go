package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe/probetest"
)

func TestGitToolAbsent(t *testing.T) {
	v, err := NewGitCollector(probetest.New(), "/proj", nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGitNotARepository(t *testing.T) {
	r := probetest.New().
		On("git --version", "git version 2.43.0").
		OnExit("git rev-parse --is-inside-work-tree", "", 128)

	v, err := NewGitCollector(r, "/tmp/plain", nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Contains(t, r.Calls(), "git rev-parse --is-inside-work-tree")
}

func TestGitRepository(t *testing.T) {
	r := probetest.New().
		On("git --version", "git version 2.43.0\n").
		OnIn("/proj", "git rev-parse --is-inside-work-tree", "true\n").
		OnIn("/proj", "git branch --show-current", "main\n").
		OnIn("/proj", "git status --short", " M README.md\n?? notes.txt\n").
		OnExitIn("/proj", "git log -1 --pretty=format:%h - %s (%ci)", "", 128)

	v, err := NewGitCollector(r, "/proj", nil).Collect(context.Background())
	require.NoError(t, err)
	info := v.(models.GitInfo)

	assert.Equal(t, "2.43.0", info.Version)
	assert.Equal(t, "main", info.Branch)
	assert.Equal(t, "M README.md\n?? notes.txt", info.Status)
	assert.Equal(t, models.NotAvailable, info.LastCommit)
}

func TestGitDetachedHead(t *testing.T) {
	r := probetest.New().
		On("git --version", "git version 2.43.0").
		On("git rev-parse --is-inside-work-tree", "true").
		On("git branch --show-current", "").
		On("git status --short", "").
		On("git log -1 --pretty=format:%h - %s (%ci)", "abc1234 - Initial commit (2024-01-02 10:00:00 +0100)")

	v, err := NewGitCollector(r, "/proj", nil).Collect(context.Background())
	require.NoError(t, err)
	info := v.(models.GitInfo)
	assert.Equal(t, models.NotAvailable, info.Branch)
	assert.Equal(t, "", info.Status)
	assert.Equal(t, "abc1234 - Initial commit (2024-01-02 10:00:00 +0100)", info.LastCommit)
}
