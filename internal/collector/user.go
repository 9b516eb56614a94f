// User collector: the invoking account, its privilege and group
// membership. Groups come from the groups command, falling back to the
// account's group ids resolved through os/user.
package collector

import (
	"context"
	"os"
	"os/user"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// UserCollector collects the current user.
type UserCollector struct {
	runner  probe.Runner
	logger  *zap.Logger
	current func() (*user.User, error)
	euid    func() int
}

// NewUserCollector creates a new user collector.
func NewUserCollector(r probe.Runner, logger *zap.Logger) *UserCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserCollector{runner: r, logger: logger, current: user.Current, euid: os.Geteuid}
}

// Name returns the collector identifier.
func (c *UserCollector) Name() string { return "user" }

// IsAvailable returns true.
func (c *UserCollector) IsAvailable() bool { return true }

// Collect describes the invoking user. Admin means an effective uid of 0.
func (c *UserCollector) Collect(ctx context.Context) (interface{}, error) {
	u, err := c.current()
	if err != nil {
		return nil, err
	}
	info := models.UserInfo{
		Username: u.Username,
		UID:      u.Uid,
		Home:     u.HomeDir,
		IsAdmin:  c.euid() == 0,
	}

	if out, err := probe.Text(ctx, c.runner, "groups", u.Username); err == nil {
		info.Groups = parseGroups(out)
	} else {
		probe.LogFailure(c.logger, "groups", err)
		info.Groups = lookupGroups(u)
	}
	if info.Groups == nil {
		info.Groups = []string{}
	}
	return info, nil
}

// parseGroups accepts both "alice : alice sudo docker" and
// "alice sudo docker".
func parseGroups(out string) []string {
	if _, after, ok := strings.Cut(out, ":"); ok {
		out = after
	}
	return strings.Fields(out)
}

func lookupGroups(u *user.User) []string {
	ids, err := u.GroupIds()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if g, err := user.LookupGroupId(id); err == nil {
			names = append(names, g.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}
