// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package builder turns CSV rows into creation payloads, one builder per object type
package builder

import (
	"csv2ddi/pkg/csvfile"
	"csv2ddi/pkg/log"
	"csv2ddi/pkg/resolver"

	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Request is one create call: the endpoint path and the payload to post to it
type Request struct {
	Path string
	Body map[string]interface{}
}

// Env carries what every row of a file is built against
type Env struct {
	Space    string
	Tags     Tags
	Resolver *resolver.Resolver
	Columns  []string
	Strict   bool
}

// Builder maps rows of one CSV input onto one object type
type Builder struct {
	Kind    string
	Flag    string
	Short   string
	Usage   string
	Columns []string
	Needs   []resolver.Kind
	build   func(b *Builder, row csvfile.Row, env *Env) ([]Request, error)
	logger  *log.ScopedLogger
}

// Build produces the requests for one row. Zero requests with a nil error means
// the row was deliberately skipped.
func (b *Builder) Build(row csvfile.Row, env *Env) ([]Request, error) {
	return b.build(b, row, env)
}

var (
	registry = make(map[string]*Builder)
	order    []string
)

func init() {
	for _, b := range append(ipamBuilders(), dnsBuilders()...) {
		register(b)
	}
}

// register adds a builder; registration order is processing order
func register(b *Builder) {
	if _, exists := registry[b.Kind]; exists {
		panic(fmt.Sprintf("builder %s registered twice", b.Kind))
	}
	b.logger = log.NewScopedLogger(fmt.Sprintf("[builder/%s]", b.Kind), "")
	registry[b.Kind] = b
	order = append(order, b.Kind)
}

// Get returns the builder for kind
func Get(kind string) (*Builder, bool) {
	b, ok := registry[kind]
	return b, ok
}

// All returns every builder in processing order
func All() []*Builder {
	all := make([]*Builder, 0, len(order))
	for _, kind := range order {
		all = append(all, registry[kind])
	}
	return all
}

// ref resolves a referenced name. A miss yields "" and a warning, or an error in strict mode.
func (b *Builder) ref(env *Env, kind resolver.Kind, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if !env.Strict {
		id := env.Resolver.Resolve(kind, name)
		if id == "" {
			b.logger.Warn("%s %q not found, sending an empty reference", kind, name)
		}
		return id, nil
	}
	id, ok := env.Resolver.Lookup(kind, name)
	if !ok {
		return "", errors.WithHint(
			errors.Mark(errors.Newf("%s %q: %s", kind, name, resolver.ErrNotFound), resolver.ErrNotFound),
			"fix the name in the CSV or create the object first")
	}
	return id, nil
}

// withTags attaches the shared tag set to a payload
func withTags(body map[string]interface{}, env *Env) map[string]interface{} {
	tags := env.Tags
	if tags == nil {
		tags = Tags{}
	}
	body["tags"] = tags
	return body
}

// parseInt reads an integer column
func parseInt(row csvfile.Row, column string) (int, error) {
	value := strings.TrimSpace(row.Get(column))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Newf("%s %q is not an integer", column, value)
	}
	return n, nil
}
