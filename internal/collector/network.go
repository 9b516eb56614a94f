// Network collector: interfaces and their addresses from gopsutil. Each
// CIDR address is expanded into family, netmask and broadcast; the
// hardware address is reported as a "link" family record.
package collector

import (
	"context"
	"net"

	psnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
)

// NetworkCollector collects interface addresses.
type NetworkCollector struct {
	logger     *zap.Logger
	interfaces func(ctx context.Context) (psnet.InterfaceStatList, error)
}

// NewNetworkCollector creates a new network collector.
func NewNetworkCollector(logger *zap.Logger) *NetworkCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkCollector{logger: logger, interfaces: psnet.InterfacesWithContext}
}

// Name returns the collector identifier.
func (c *NetworkCollector) Name() string { return "network" }

// IsAvailable returns true; network interfaces are listable on all platforms.
func (c *NetworkCollector) IsAvailable() bool { return true }

// Collect lists interfaces in enumeration order.
func (c *NetworkCollector) Collect(ctx context.Context) (interface{}, error) {
	ifaces, err := c.interfaces(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.NetInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		ni := models.NetInterface{
			Name:      iface.Name,
			MTU:       iface.MTU,
			Flags:     iface.Flags,
			Addresses: make([]models.NetAddr, 0, len(iface.Addrs)+1),
		}
		if ni.Flags == nil {
			ni.Flags = []string{}
		}
		if iface.HardwareAddr != "" {
			ni.Addresses = append(ni.Addresses, models.NetAddr{Family: "link", Address: iface.HardwareAddr})
		}
		canBroadcast := hasFlag(iface.Flags, "broadcast")
		for _, a := range iface.Addrs {
			addr, ok := expandAddr(a.Addr, canBroadcast)
			if !ok {
				c.logger.Debug("Skipping unparsable address",
					zap.String("interface", iface.Name),
					zap.String("addr", a.Addr))
				continue
			}
			ni.Addresses = append(ni.Addresses, addr)
		}
		out = append(out, ni)
	}
	return out, nil
}

// expandAddr turns "192.168.1.10/24" into its address record.
func expandAddr(cidr string, canBroadcast bool) (models.NetAddr, bool) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		ip = net.ParseIP(cidr)
		if ip == nil {
			return models.NetAddr{}, false
		}
		return models.NetAddr{Family: ipFamily(ip), Address: ip.String()}, true
	}

	rec := models.NetAddr{Family: ipFamily(ip), Address: ip.String()}
	if v4 := ip.To4(); v4 != nil {
		mask := net.IP(ipnet.Mask).To4()
		rec.Netmask = mask.String()
		ones, bits := ipnet.Mask.Size()
		if canBroadcast && bits-ones > 1 {
			bc := make(net.IP, net.IPv4len)
			for i := range bc {
				bc[i] = v4[i] | ^mask[i]
			}
			rec.Broadcast = bc.String()
		}
		return rec, true
	}
	rec.Netmask = net.IP(ipnet.Mask).String()
	return rec, true
}

func ipFamily(ip net.IP) string {
	if ip.To4() != nil {
		return "ipv4"
	}
	return "ipv6"
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
