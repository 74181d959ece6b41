// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package builder

import (
	"csv2ddi/pkg/csvfile"
	"csv2ddi/pkg/resolver"

	"strings"

	"github.com/cockroachdb/errors"
	"github.com/miekg/dns"
)

// rdataFunc builds the type-specific rdata of a record
type rdataFunc func(row csvfile.Row) (map[string]interface{}, error)

var recordNeeds = []resolver.Kind{resolver.DNSView}

func dnsBuilders() []*Builder {
	return []*Builder{
		{
			Kind:    "authzone",
			Flag:    "authzone",
			Short:   "z",
			Usage:   "CSV file with authoritative zone data",
			Columns: []string{"fqdn*", "comment", "view", "ns_group"},
			Needs:   []resolver.Kind{resolver.DNSView, resolver.NameserverGroup},
			build:   buildAuthZone,
		},
		recordBuilder(dns.TypeA, "arecord", "a", []string{"view", "fqdn*", "address*", "comment"}, addressRdata),
		recordBuilder(dns.TypeTXT, "txtrecord", "t", []string{"view", "fqdn*", "text*", "comment"}, txtRdata),
		recordBuilder(dns.TypeMX, "mxrecord", "m", []string{"view", "fqdn*", "mx*", "priority*", "comment"}, mxRdata),
		recordBuilder(dns.TypePTR, "ptrrecord", "p", []string{"view", "dname*", "comment"}, ptrRdata),
		recordBuilder(dns.TypeSRV, "srvrecord", "s", []string{"view", "fqdn*", "port*", "priority*", "target*", "weight*", "comment"}, srvRdata),
		recordBuilder(dns.TypeAAAA, "aaaa", "", []string{"view", "fqdn*", "address*", "comment"}, addressRdata),
		recordBuilder(dns.TypeCNAME, "cname", "", []string{"view", "fqdn*", "canonical_name", "comment"}, cnameRdata),
	}
}

func recordBuilder(rrtype uint16, flag, short string, columns []string, rdata rdataFunc) *Builder {
	typeName := dns.TypeToString[rrtype]
	return &Builder{
		Kind:    strings.ToLower(typeName),
		Flag:    flag,
		Short:   short,
		Usage:   "CSV file with " + typeName + " record data",
		Columns: columns,
		Needs:   recordNeeds,
		build: func(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
			return buildRecord(b, rrtype, rdata, row, env)
		},
	}
}

func buildAuthZone(b *Builder, row csvfile.Row, env *Env) ([]Request, error) {
	view, err := b.ref(env, resolver.DNSView, row.Get("view"))
	if err != nil {
		return nil, err
	}
	nsg, err := b.ref(env, resolver.NameserverGroup, row.Get("ns_group"))
	if err != nil {
		return nil, err
	}
	fqdn := row.Get("fqdn*")
	checkName(b, fqdn)

	body := map[string]interface{}{
		"view":         view,
		"fqdn":         fqdn,
		"nsgs":         []string{nsg},
		"comment":      row.Get("comment"),
		"primary_type": "cloud",
	}
	return []Request{{Path: "/dns/auth_zone", Body: withTags(body, env)}}, nil
}

func buildRecord(b *Builder, rrtype uint16, rdata rdataFunc, row csvfile.Row, env *Env) ([]Request, error) {
	view, err := b.ref(env, resolver.DNSView, row.Get("view"))
	if err != nil {
		return nil, err
	}

	name, err := recordName(rrtype, row)
	if err != nil {
		return nil, err
	}
	checkName(b, name)

	rd, err := rdata(row)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"view":               view,
		"absolute_name_spec": name,
		"rdata":              rd,
		"comment":            row.Get("comment"),
		"type":               dns.TypeToString[rrtype],
	}
	return []Request{{Path: "/dns/record", Body: withTags(body, env)}}, nil
}

// recordName picks the owner name. PTR rows may leave fqdn empty and carry the address instead.
func recordName(rrtype uint16, row csvfile.Row) (string, error) {
	if rrtype != dns.TypePTR {
		return row.Get("fqdn*"), nil
	}
	if name := row.Get("fqdn"); name != "" {
		return name, nil
	}
	if !row.Has("address") {
		return "", nil
	}
	address := row.Get("address")
	if address == "" {
		return "", nil
	}
	name, err := dns.ReverseAddr(address)
	if err != nil {
		return "", errors.Wrapf(err, "deriving PTR name for %q", address)
	}
	return name, nil
}

func checkName(b *Builder, name string) {
	if name == "" {
		return
	}
	if _, ok := dns.IsDomainName(name); !ok {
		b.logger.Warn("%q does not look like a domain name", name)
	}
}

func addressRdata(row csvfile.Row) (map[string]interface{}, error) {
	return map[string]interface{}{"address": row.Get("address*")}, nil
}

func txtRdata(row csvfile.Row) (map[string]interface{}, error) {
	return map[string]interface{}{"text": row.Get("text*")}, nil
}

func cnameRdata(row csvfile.Row) (map[string]interface{}, error) {
	return map[string]interface{}{"cname": row.Get("canonical_name")}, nil
}

func ptrRdata(row csvfile.Row) (map[string]interface{}, error) {
	return map[string]interface{}{"dname": row.Get("dname*")}, nil
}

func mxRdata(row csvfile.Row) (map[string]interface{}, error) {
	preference, err := parseInt(row, "priority*")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"exchange":   row.Get("mx*"),
		"preference": preference,
	}, nil
}

func srvRdata(row csvfile.Row) (map[string]interface{}, error) {
	rd := map[string]interface{}{"target": row.Get("target*")}
	for column, field := range map[string]string{"port*": "port", "priority*": "priority", "weight*": "weight"} {
		n, err := parseInt(row, column)
		if err != nil {
			return nil, err
		}
		rd[field] = n
	}
	return rd, nil
}
