package collector

import (
	"context"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/models"
)

func TestExpandAddr(t *testing.T) {
	tests := []struct {
		name         string
		cidr         string
		canBroadcast bool
		want         models.NetAddr
		ok           bool
	}{
		{
			name:         "ipv4 with broadcast",
			cidr:         "192.168.1.10/24",
			canBroadcast: true,
			want:         models.NetAddr{Family: "ipv4", Address: "192.168.1.10", Netmask: "255.255.255.0", Broadcast: "192.168.1.255"},
			ok:           true,
		},
		{
			name: "loopback has no broadcast",
			cidr: "127.0.0.1/8",
			want: models.NetAddr{Family: "ipv4", Address: "127.0.0.1", Netmask: "255.0.0.0"},
			ok:   true,
		},
		{
			name:         "point to point /31",
			cidr:         "10.0.0.0/31",
			canBroadcast: true,
			want:         models.NetAddr{Family: "ipv4", Address: "10.0.0.0", Netmask: "255.255.255.254"},
			ok:           true,
		},
		{
			name: "ipv6",
			cidr: "fe80::1/64",
			want: models.NetAddr{Family: "ipv6", Address: "fe80::1", Netmask: "ffff:ffff:ffff:ffff::"},
			ok:   true,
		},
		{
			name: "bare address",
			cidr: "10.1.2.3",
			want: models.NetAddr{Family: "ipv4", Address: "10.1.2.3"},
			ok:   true,
		},
		{name: "garbage", cidr: "not-an-ip", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := expandAddr(tt.cidr, tt.canBroadcast)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNetworkKeepsEnumerationOrder(t *testing.T) {
	c := NewNetworkCollector(nil)
	c.interfaces = func(context.Context) (psnet.InterfaceStatList, error) {
		return psnet.InterfaceStatList{
			{Name: "lo", MTU: 65536, Flags: []string{"up", "loopback"},
				Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}, {Addr: "::1/128"}}},
			{Name: "eth0", MTU: 1500, HardwareAddr: "52:54:00:12:34:56", Flags: []string{"up", "broadcast"},
				Addrs: psnet.InterfaceAddrList{{Addr: "10.0.2.15/24"}, {Addr: "10.0.2.15/24"}}},
			{Name: "wg0", MTU: 1420},
		}, nil
	}

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	got := v.([]models.NetInterface)

	require.Len(t, got, 3)
	assert.Equal(t, "lo", got[0].Name)
	assert.Len(t, got[0].Addresses, 2)

	// duplicates are kept and the MAC comes first
	require.Len(t, got[1].Addresses, 3)
	assert.Equal(t, models.NetAddr{Family: "link", Address: "52:54:00:12:34:56"}, got[1].Addresses[0])
	assert.Equal(t, got[1].Addresses[1], got[1].Addresses[2])
	assert.Equal(t, "10.0.2.255", got[1].Addresses[1].Broadcast)

	assert.NotNil(t, got[2].Flags)
	assert.Empty(t, got[2].Addresses)
}
