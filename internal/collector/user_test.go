package collector

import (
	"context"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe/probetest"
)

func TestParseGroups(t *testing.T) {
	assert.Equal(t, []string{"alice", "sudo", "docker"}, parseGroups("alice : alice sudo docker"))
	assert.Equal(t, []string{"staff", "everyone", "admin"}, parseGroups("staff everyone admin"))
	assert.Empty(t, parseGroups(""))
}

func TestUserCollector(t *testing.T) {
	r := probetest.New().On("groups alice", "alice : alice wheel\n")
	c := NewUserCollector(r, nil)
	c.current = func() (*user.User, error) {
		return &user.User{Username: "alice", Uid: "1000", HomeDir: "/home/alice"}, nil
	}
	c.euid = func() int { return 0 }

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.UserInfo{
		Username: "alice",
		UID:      "1000",
		Home:     "/home/alice",
		IsAdmin:  true,
		Groups:   []string{"alice", "wheel"},
	}, v)
}
