// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package builder

import (
	"csv2ddi/pkg/csvfile"
	"csv2ddi/pkg/options"
	"csv2ddi/pkg/resolver"

	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go4.org/netipx"
)

// Fixed address match options as exported by the legacy system
const (
	MatchReserved   = "RESERVED"
	MatchMACAddress = "MAC_ADDRESS"
)

func ipamBuilders() []*Builder {
	return []*Builder{
		{
			Kind:    "networkcontainer",
			Flag:    "networkblock",
			Short:   "b",
			Usage:   "CSV file with network container (address block) data",
			Columns: []string{"address*", "netmask*", "comment"},
			build:   buildNetworkContainer,
		},
		{
			Kind:    "network",
			Flag:    "networks",
			Short:   "n",
			Usage:   "CSV file with network (subnet) data",
			Columns: []string{"address*", "netmask*", "comment", "dhcp_members"},
			Needs:   []resolver.Kind{resolver.DHCPServer, resolver.OptionCode},
			build:   buildNetwork,
		},
		{
			Kind:    "range",
			Flag:    "ranges",
			Short:   "r",
			Usage:   "CSV file with DHCP range data",
			Columns: []string{"start_address*", "end_address*", "comment"},
			build:   buildRange,
		},
		{
			Kind:    "fixedaddress",
			Flag:    "fixed",
			Short:   "f",
			Usage:   "CSV file with fixed address and reservation data",
			Columns: []string{"ip_address*", "comment", "match_option", "mac_address"},
			build:   buildFixedAddress,
		},
	}
}

// PrefixLength converts a dotted-decimal netmask, or a bare prefix length, to a prefix length
func PrefixLength(netmask string) (int, error) {
	netmask = strings.TrimSpace(netmask)
	if !strings.ContainsAny(netmask, ".:") {
		bits, err := strconv.Atoi(netmask)
		if err != nil || bits < 0 || bits > 128 {
			return 0, errors.Newf("netmask %q is neither a mask nor a prefix length", netmask)
		}
		return bits, nil
	}

	ip := net.ParseIP(netmask)
	if ip == nil {
		return 0, errors.Newf("netmask %q is not an address", netmask)
	}
	base := net.IPv6zero
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		base = net.IPv4zero.To4()
	}
	prefix, ok := netipx.FromStdIPNet(&net.IPNet{IP: base, Mask: net.IPMask(ip)})
	if !ok {
		return 0, errors.Newf("netmask %q is not contiguous", netmask)
	}
	return prefix.Bits(), nil
}

func buildNetworkContainer(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
	cidr, err := PrefixLength(row.Get("netmask*"))
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{
		"space":   env.Space,
		"address": row.Get("address*"),
		"cidr":    cidr,
		"comment": row.Get("comment"),
	}
	return []Request{{Path: "/ipam/address_block", Body: withTags(body, env)}}, nil
}

func buildNetwork(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
	cidr, err := PrefixLength(row.Get("netmask*"))
	if err != nil {
		return nil, err
	}
	dhcpHost, err := b.ref(env, resolver.DHCPServer, row.Get("dhcp_members"))
	if err != nil {
		return nil, err
	}

	mapped := options.Map(row, env.Columns, env.Resolver)
	if len(mapped.Skipped) > 0 {
		if env.Strict {
			return nil, errors.Newf("DHCP option codes %v have no platform definition", mapped.Skipped)
		}
		b.logger.Warn("Skipping DHCP option codes %v for %s: no platform definition", mapped.Skipped, row.Get("address*"))
	}
	dhcpOptions := mapped.Options
	if dhcpOptions == nil {
		dhcpOptions = []options.Option{}
	}

	body := map[string]interface{}{
		"space":        env.Space,
		"address":      row.Get("address*"),
		"cidr":         cidr,
		"dhcp_host":    dhcpHost,
		"comment":      row.Get("comment"),
		"dhcp_options": dhcpOptions,
	}
	return []Request{{Path: "/ipam/subnet", Body: withTags(body, env)}}, nil
}

func buildRange(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
	start, end := row.Get("start_address*"), row.Get("end_address*")
	if from, err := netip.ParseAddr(start); err == nil {
		if to, err := netip.ParseAddr(end); err == nil && !netipx.IPRangeFrom(from, to).IsValid() {
			b.logger.Warn("Range %s-%s is not ascending, the platform will likely reject it", start, end)
		}
	}

	body := map[string]interface{}{
		"space":   env.Space,
		"start":   start,
		"end":     end,
		"comment": row.Get("comment"),
	}
	return []Request{{Path: "/ipam/range", Body: withTags(body, env)}}, nil
}

func buildFixedAddress(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
	address := row.Get("ip_address*")
	switch matchType := row.Get("match_option"); matchType {
	case MatchReserved:
		body := map[string]interface{}{
			"space":   env.Space,
			"address": address,
			"comment": row.Get("comment"),
		}
		return []Request{{Path: "/ipam/address", Body: withTags(body, env)}}, nil

	case MatchMACAddress:
		body := map[string]interface{}{
			"ip_space":    env.Space,
			"address":     address,
			"match_type":  "mac",
			"match_value": row.Get("mac_address"),
			"comment":     row.Get("comment"),
		}
		return []Request{{Path: "/dhcp/fixed_address", Body: withTags(body, env)}}, nil

	default:
		b.logger.Debug("Ignoring %s with match option %s", address, describe(matchType))
		return nil, nil
	}
}

func describe(value string) string {
	if value == "" {
		return "(empty)"
	}
	return fmt.Sprintf("%q", value)
}
