// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package resolver builds the name to identifier tables that record builders look
// references up in. Tables are fetched once and never change afterwards.
package resolver

import (
	"csv2ddi/pkg/ddi"
	"csv2ddi/pkg/log"

	"context"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
)

// Kind identifies a lookup table
type Kind string

const (
	IPSpace         Kind = "ip_space"
	DNSView         Kind = "dns_view"
	NameserverGroup Kind = "nameserver_group"
	DHCPServer      Kind = "dhcp_server"
	OptionCode      Kind = "option_code"
)

// ErrNotFound is returned by checked lookups for names absent from their table
var ErrNotFound = errors.New("reference not found")

// source describes where a table's rows come from. A kind may merge several endpoints.
type source struct {
	paths  []string
	fields string
}

var sources = map[Kind]source{
	IPSpace:         {paths: []string{"/ipam/ip_space"}, fields: "name,id"},
	DNSView:         {paths: []string{"/dns/view"}, fields: "name,id"},
	NameserverGroup: {paths: []string{"/dns/auth_nsg"}, fields: "name,id"},
	DHCPServer:      {paths: []string{"/dhcp/host", "/dhcp/ha_group"}, fields: "name,id"},
	OptionCode:      {paths: []string{"/dhcp/option_code"}, fields: "code,id"},
}

// Resolver holds read-only lookup tables
type Resolver struct {
	names map[Kind]map[string]string
	codes map[int]string
}

var logger = log.NewScopedLogger("[resolver]", "")

// Build fetches each requested kind once and returns the populated resolver
func Build(ctx context.Context, lister ddi.Lister, kinds ...Kind) (*Resolver, error) {
	r := &Resolver{
		names: make(map[Kind]map[string]string),
		codes: make(map[int]string),
	}

	seen := make(map[Kind]bool)
	for _, kind := range kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true

		src, ok := sources[kind]
		if !ok {
			return nil, errors.Newf("unknown lookup table %q", kind)
		}

		table := make(map[string]string)
		for _, path := range src.paths {
			objects, err := lister.List(ctx, path, url.Values{"_fields": {src.fields}})
			if err != nil {
				return nil, errors.Wrapf(err, "building %s table", kind)
			}
			for _, obj := range objects {
				if kind == OptionCode {
					r.codes[obj.Code] = obj.ID
					continue
				}
				if prev, dup := table[obj.Name]; dup && prev != obj.ID {
					logger.Debug("%s %q appears more than once, keeping %s", kind, obj.Name, obj.ID)
				}
				table[obj.Name] = obj.ID
			}
		}
		if kind != OptionCode {
			r.names[kind] = table
			logger.Verbose("Loaded %d %s entries", len(table), kind)
		} else {
			logger.Verbose("Loaded %d %s entries", len(r.codes), kind)
		}
	}
	return r, nil
}

// New builds a resolver from in-memory tables, mostly for tests
func New(tables map[Kind]map[string]string, codes map[int]string) *Resolver {
	r := &Resolver{
		names: make(map[Kind]map[string]string, len(tables)),
		codes: make(map[int]string, len(codes)),
	}
	for kind, table := range tables {
		copied := make(map[string]string, len(table))
		for k, v := range table {
			copied[k] = v
		}
		r.names[kind] = copied
	}
	for code, id := range codes {
		r.codes[code] = id
	}
	return r
}

// Lookup returns the identifier for name and whether it was found
func (r *Resolver) Lookup(kind Kind, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	id, ok := r.names[kind][name]
	return id, ok
}

// Resolve returns the identifier for name, or "" when absent. It never fails.
func (r *Resolver) Resolve(kind Kind, name string) string {
	id, _ := r.Lookup(kind, name)
	return id
}

// OptionCode maps a numeric DHCP option code to its platform identifier
func (r *Resolver) OptionCode(code int) (string, bool) {
	if r == nil {
		return "", false
	}
	id, ok := r.codes[code]
	return id, ok
}

// Len returns the number of entries in a table
func (r *Resolver) Len(kind Kind) int {
	if kind == OptionCode {
		return len(r.codes)
	}
	return len(r.names[kind])
}

// LookupIPSpace resolves the single IP space the migration imports into.
// A missing space is an error since every IPAM object needs one.
func LookupIPSpace(ctx context.Context, lister ddi.Lister, name string) (string, error) {
	filter := fmt.Sprintf("name==%q", name)
	objects, err := lister.List(ctx, sources[IPSpace].paths[0], url.Values{
		"_filter": {filter},
		"_fields": {sources[IPSpace].fields},
	})
	if err != nil {
		return "", errors.Wrapf(err, "looking up IP space %q", name)
	}
	for _, obj := range objects {
		if obj.Name == name {
			return obj.ID, nil
		}
	}
	return "", errors.WithHint(
		errors.Mark(errors.Newf("IP space %q: %s", name, ErrNotFound), ErrNotFound),
		"check the --ipspace name against the platform")
}
