// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package builder

import (
	"csv2ddi/pkg/csvfile"
	"csv2ddi/pkg/options"
	"csv2ddi/pkg/resolver"

	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(strict bool) *Env {
	res := resolver.New(map[resolver.Kind]map[string]string{
		resolver.DNSView:         {"default": "dns/view/1"},
		resolver.NameserverGroup: {"cloud-nsg": "dns/auth_nsg/7"},
		resolver.DHCPServer:      {"dhcp1.example.com": "dhcp/host/3"},
	}, map[int]string{6: "dhcp/option_code/6", 3: "dhcp/option_code/3"})
	return &Env{
		Space:    "ipam/ip_space/42",
		Tags:     Tags{"source": "nios"},
		Resolver: res,
		Strict:   strict,
	}
}

func mustBuild(t *testing.T, kind string, row csvfile.Row, env *Env) []Request {
	t.Helper()
	b, ok := Get(kind)
	require.True(t, ok, "builder %s", kind)
	reqs, err := b.Build(row, env)
	require.NoError(t, err)
	return reqs
}

func TestRegistryOrder(t *testing.T) {
	var kinds []string
	for _, b := range All() {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []string{
		"networkcontainer", "network", "range", "fixedaddress", "authzone",
		"a", "txt", "mx", "ptr", "srv", "aaaa", "cname",
	}, kinds)

	flags := map[string]bool{}
	for _, b := range All() {
		assert.False(t, flags[b.Flag], "duplicate flag %s", b.Flag)
		flags[b.Flag] = true
	}
}

func TestPrefixLength(t *testing.T) {
	tests := []struct {
		netmask string
		want    int
		wantErr bool
	}{
		{"255.255.255.0", 24, false},
		{"255.255.0.0", 16, false},
		{"255.255.255.255", 32, false},
		{"0.0.0.0", 0, false},
		{" 255.255.255.128 ", 25, false},
		{"24", 24, false},
		{"ffff:ffff:ffff:ffff::", 64, false},
		{"255.0.255.0", 0, true},
		{"129", 0, true},
		{"not-a-mask", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := PrefixLength(tt.netmask)
		if tt.wantErr {
			assert.Error(t, err, tt.netmask)
			continue
		}
		assert.NoError(t, err, tt.netmask)
		assert.Equal(t, tt.want, got, tt.netmask)
	}
}

func TestBuildNetworkContainer(t *testing.T) {
	row := csvfile.Row{"address*": "10.0.0.0", "netmask*": "255.255.0.0", "comment": "core"}
	reqs := mustBuild(t, "networkcontainer", row, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "/ipam/address_block", reqs[0].Path)
	assert.Equal(t, map[string]interface{}{
		"space":   "ipam/ip_space/42",
		"address": "10.0.0.0",
		"cidr":    16,
		"comment": "core",
		"tags":    Tags{"source": "nios"},
	}, reqs[0].Body)
}

func TestBuildNetworkContainerBadMask(t *testing.T) {
	b, _ := Get("networkcontainer")
	_, err := b.Build(csvfile.Row{"address*": "10.0.0.0", "netmask*": "255.0.255.0"}, testEnv(false))
	assert.Error(t, err)
}

func TestBuildNetwork(t *testing.T) {
	env := testEnv(false)
	env.Columns = []string{"address*", "netmask*", "comment", "dhcp_members", "OPTION-DHCP-6", "routers"}
	row := csvfile.Row{
		"address*":      "10.1.0.0",
		"netmask*":      "255.255.255.0",
		"dhcp_members":  "dhcp1.example.com",
		"OPTION-DHCP-6": "8.8.8.8",
		"routers":       "10.1.0.1",
	}
	reqs := mustBuild(t, "network", row, env)
	require.Len(t, reqs, 1)
	body := reqs[0].Body
	assert.Equal(t, "/ipam/subnet", reqs[0].Path)
	assert.Equal(t, 24, body["cidr"])
	assert.Equal(t, "dhcp/host/3", body["dhcp_host"])
	assert.Equal(t, []options.Option{
		{Type: "option", OptionCode: "dhcp/option_code/6", OptionValue: "8.8.8.8"},
		{Type: "option", OptionCode: "dhcp/option_code/3", OptionValue: "10.1.0.1"},
	}, body["dhcp_options"])
}

func TestBuildNetworkUnknownMember(t *testing.T) {
	env := testEnv(false)
	env.Columns = []string{"address*", "netmask*", "dhcp_members"}
	row := csvfile.Row{"address*": "10.2.0.0", "netmask*": "255.255.255.0", "dhcp_members": "unknown-host"}

	reqs := mustBuild(t, "network", row, env)
	require.Len(t, reqs, 1)
	assert.Equal(t, "", reqs[0].Body["dhcp_host"])
	assert.Equal(t, []options.Option{}, reqs[0].Body["dhcp_options"])

	b, _ := Get("network")
	_, err := b.Build(row, testEnv(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrNotFound))
}

func TestBuildNetworkSkippedOption(t *testing.T) {
	row := csvfile.Row{"address*": "10.3.0.0", "netmask*": "24", "OPTION-DHCP-250": "x"}
	columns := []string{"address*", "netmask*", "OPTION-DHCP-250"}

	env := testEnv(false)
	env.Columns = columns
	reqs := mustBuild(t, "network", row, env)
	assert.Equal(t, []options.Option{}, reqs[0].Body["dhcp_options"])

	strict := testEnv(true)
	strict.Columns = columns
	b, _ := Get("network")
	_, err := b.Build(row, strict)
	assert.Error(t, err)
}

func TestBuildRange(t *testing.T) {
	row := csvfile.Row{"start_address*": "10.1.0.10", "end_address*": "10.1.0.50", "comment": "pool"}
	reqs := mustBuild(t, "range", row, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "/ipam/range", reqs[0].Path)
	assert.Equal(t, "10.1.0.10", reqs[0].Body["start"])
	assert.Equal(t, "10.1.0.50", reqs[0].Body["end"])
	assert.Equal(t, "ipam/ip_space/42", reqs[0].Body["space"])
}

func TestBuildFixedAddress(t *testing.T) {
	env := testEnv(false)

	reqs := mustBuild(t, "fixedaddress", csvfile.Row{"ip_address*": "10.1.0.5", "match_option": "RESERVED"}, env)
	require.Len(t, reqs, 1)
	assert.Equal(t, "/ipam/address", reqs[0].Path)
	assert.Equal(t, "ipam/ip_space/42", reqs[0].Body["space"])
	assert.NotContains(t, reqs[0].Body, "match_type")

	reqs = mustBuild(t, "fixedaddress", csvfile.Row{
		"ip_address*":  "10.1.0.6",
		"match_option": "MAC_ADDRESS",
		"mac_address":  "aa:bb:cc:dd:ee:ff",
	}, env)
	require.Len(t, reqs, 1)
	assert.Equal(t, "/dhcp/fixed_address", reqs[0].Path)
	assert.Equal(t, "ipam/ip_space/42", reqs[0].Body["ip_space"])
	assert.Equal(t, "mac", reqs[0].Body["match_type"])
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", reqs[0].Body["match_value"])

	for _, match := range []string{"CLIENT_ID", ""} {
		reqs = mustBuild(t, "fixedaddress", csvfile.Row{"ip_address*": "10.1.0.7", "match_option": match}, env)
		assert.Empty(t, reqs, match)
	}
}

func TestBuildAuthZone(t *testing.T) {
	row := csvfile.Row{"fqdn*": "example.com", "view": "default", "ns_group": "cloud-nsg", "comment": "main"}
	reqs := mustBuild(t, "authzone", row, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "/dns/auth_zone", reqs[0].Path)
	assert.Equal(t, map[string]interface{}{
		"view":         "dns/view/1",
		"fqdn":         "example.com",
		"nsgs":         []string{"dns/auth_nsg/7"},
		"comment":      "main",
		"primary_type": "cloud",
		"tags":         Tags{"source": "nios"},
	}, reqs[0].Body)
}

func TestBuildARecord(t *testing.T) {
	row := csvfile.Row{"view": "default", "fqdn*": "www.example.com", "address*": "10.0.0.5"}
	reqs := mustBuild(t, "a", row, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "/dns/record", reqs[0].Path)
	body := reqs[0].Body
	assert.Equal(t, "dns/view/1", body["view"])
	assert.Equal(t, "www.example.com", body["absolute_name_spec"])
	assert.Equal(t, "A", body["type"])
	assert.Equal(t, map[string]interface{}{"address": "10.0.0.5"}, body["rdata"])
}

func TestBuildRecordRdata(t *testing.T) {
	tests := []struct {
		kind     string
		row      csvfile.Row
		wantType string
		want     map[string]interface{}
	}{
		{
			kind:     "txt",
			row:      csvfile.Row{"fqdn*": "txt.example.com", "text*": "v=spf1 -all"},
			wantType: "TXT",
			want:     map[string]interface{}{"text": "v=spf1 -all"},
		},
		{
			kind:     "mx",
			row:      csvfile.Row{"fqdn*": "example.com", "mx*": "mail.example.com", "priority*": "10"},
			wantType: "MX",
			want:     map[string]interface{}{"exchange": "mail.example.com", "preference": 10},
		},
		{
			kind:     "srv",
			row:      csvfile.Row{"fqdn*": "_sip._tcp.example.com", "port*": "5060", "priority*": "1", "target*": "sip.example.com", "weight*": "5"},
			wantType: "SRV",
			want:     map[string]interface{}{"port": 5060, "priority": 1, "target": "sip.example.com", "weight": 5},
		},
		{
			kind:     "aaaa",
			row:      csvfile.Row{"fqdn*": "v6.example.com", "address*": "2001:db8::1"},
			wantType: "AAAA",
			want:     map[string]interface{}{"address": "2001:db8::1"},
		},
		{
			kind:     "cname",
			row:      csvfile.Row{"fqdn*": "alias.example.com", "canonical_name": "www.example.com"},
			wantType: "CNAME",
			want:     map[string]interface{}{"cname": "www.example.com"},
		},
		{
			kind:     "ptr",
			row:      csvfile.Row{"fqdn": "5.0.0.10.in-addr.arpa", "dname*": "www.example.com"},
			wantType: "PTR",
			want:     map[string]interface{}{"dname": "www.example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			reqs := mustBuild(t, tt.kind, tt.row, testEnv(false))
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.wantType, reqs[0].Body["type"])
			assert.Equal(t, tt.want, reqs[0].Body["rdata"])
			assert.Equal(t, "", reqs[0].Body["view"])
		})
	}
}

func TestBuildPTRFromAddress(t *testing.T) {
	row := csvfile.Row{"view": "default", "address": "10.0.0.5", "dname*": "www.example.com"}
	reqs := mustBuild(t, "ptr", row, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "5.0.0.10.in-addr.arpa.", reqs[0].Body["absolute_name_spec"])
}

func TestBuildPTRWithoutAddressColumn(t *testing.T) {
	reqs := mustBuild(t, "ptr", csvfile.Row{"view": "default", "dname*": "www.example.com"}, testEnv(false))
	require.Len(t, reqs, 1)
	assert.Equal(t, "", reqs[0].Body["absolute_name_spec"])

	b, _ := Get("ptr")
	_, err := b.Build(csvfile.Row{"address": "not-an-ip", "dname*": "www.example.com"}, testEnv(false))
	assert.Error(t, err)
}

func TestBuildRecordBadInteger(t *testing.T) {
	b, _ := Get("mx")
	_, err := b.Build(csvfile.Row{"fqdn*": "example.com", "mx*": "mail.example.com", "priority*": "high"}, testEnv(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priority*")
}

func TestBuildRecordUnknownView(t *testing.T) {
	row := csvfile.Row{"view": "internal", "fqdn*": "www.example.com", "address*": "10.0.0.5"}

	reqs := mustBuild(t, "a", row, testEnv(false))
	assert.Equal(t, "", reqs[0].Body["view"])

	b, _ := Get("a")
	_, err := b.Build(row, testEnv(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrNotFound))
}

func TestWithTagsDefaultsToEmpty(t *testing.T) {
	env := testEnv(false)
	env.Tags = nil
	reqs := mustBuild(t, "range", csvfile.Row{"start_address*": "10.0.0.1", "end_address*": "10.0.0.9"}, env)
	assert.Equal(t, Tags{}, reqs[0].Body["tags"])
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags(`{"source": "nios", "site": "hq"}`)
	require.NoError(t, err)
	assert.Equal(t, Tags{"source": "nios", "site": "hq"}, tags)

	tags, err = ParseTags("source: nios\n")
	require.NoError(t, err)
	assert.Equal(t, Tags{"source": "nios"}, tags)

	tags, err = ParseTags("  ")
	require.NoError(t, err)
	assert.Equal(t, Tags{}, tags)

	_, err = ParseTags(`{"source": `)
	assert.Error(t, err)

	_, err = ParseTags(`[1, 2]`)
	assert.Error(t, err)
}
