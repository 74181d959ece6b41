// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package migrate drives a migration run: lookups first, then every supplied CSV
// file in a fixed order, one create call per built request.
package migrate

import (
	"csv2ddi/pkg/builder"
	"csv2ddi/pkg/csvfile"
	"csv2ddi/pkg/ddi"
	"csv2ddi/pkg/log"
	"csv2ddi/pkg/resolver"

	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
)

// FinishedMessage is printed once every input has been processed
const FinishedMessage = "Finished processing all CSV files"

// API is what a run needs from the platform
type API interface {
	ddi.Lister
	ddi.Creator
}

// Options describes one run
type Options struct {
	// Inputs maps a builder kind to the CSV file supplied for it
	Inputs map[string]string
	Space  string
	Tags   builder.Tags
	DryRun bool
	Strict bool
}

// Summary counts outcomes for one input file
type Summary struct {
	Kind    string
	Path    string
	Created int
	Failed  int
	Skipped int
}

// Migrator runs migrations against one API, writing progress to out
type Migrator struct {
	api    API
	out    io.Writer
	logger *log.ScopedLogger
}

type job struct {
	builder *builder.Builder
	file    *csvfile.File
}

// New creates a migrator
func New(api API, out io.Writer) *Migrator {
	return &Migrator{
		api:    api,
		out:    out,
		logger: log.NewScopedLogger("[migrate]", ""),
	}
}

// Run processes every input. Only startup problems are returned as errors: unknown
// inputs, a missing IP space, failed lookups, unreadable files or missing columns.
// Row failures are reported on the progress writer and counted in the summaries.
func (m *Migrator) Run(ctx context.Context, opts Options) ([]Summary, error) {
	jobs, err := m.prepare(opts)
	if err != nil {
		return nil, err
	}

	var summaries []Summary
	if len(jobs) > 0 {
		env, err := m.environment(ctx, opts, jobs)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			summary, err := m.process(ctx, j, env, opts.DryRun)
			summaries = append(summaries, summary)
			if err != nil {
				return summaries, err
			}
		}
	}

	fmt.Fprintln(m.out, FinishedMessage)
	for _, s := range summaries {
		m.logger.Info("%s (%s): %d created, %d failed, %d skipped", s.Kind, s.Path, s.Created, s.Failed, s.Skipped)
	}
	return summaries, nil
}

// prepare loads every supplied file and checks its columns before anything is sent
func (m *Migrator) prepare(opts Options) ([]job, error) {
	known := make(map[string]bool)
	var jobs []job
	for _, b := range builder.All() {
		known[b.Kind] = true
		path := opts.Inputs[b.Kind]
		if path == "" {
			continue
		}
		file, err := csvfile.Load(path)
		if err != nil {
			return nil, err
		}
		if err := file.Require(b.Columns...); err != nil {
			return nil, err
		}
		m.logger.Debug("Loaded %d %s rows from %s", len(file.Rows), b.Kind, path)
		jobs = append(jobs, job{builder: b, file: file})
	}

	var unknown []string
	for kind := range opts.Inputs {
		if !known[kind] {
			unknown = append(unknown, kind)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Newf("unknown input kinds %v", unknown)
	}
	return jobs, nil
}

// environment resolves the IP space and fetches the lookup tables the jobs need
func (m *Migrator) environment(ctx context.Context, opts Options, jobs []job) (*builder.Env, error) {
	space, err := resolver.LookupIPSpace(ctx, m.api, opts.Space)
	if err != nil {
		return nil, err
	}
	m.logger.Verbose("Using IP space %s (%s)", opts.Space, space)

	var needs []resolver.Kind
	for _, j := range jobs {
		needs = append(needs, j.builder.Needs...)
	}
	res, err := resolver.Build(ctx, m.api, needs...)
	if err != nil {
		return nil, err
	}
	warned := make(map[resolver.Kind]bool)
	for _, kind := range needs {
		if res.Len(kind) == 0 && !warned[kind] {
			warned[kind] = true
			m.logger.Warn("No %s entries found, references to them will be empty", kind)
		}
	}

	tags := opts.Tags
	if tags == nil {
		tags = builder.Tags{}
	}
	return &builder.Env{
		Space:    space,
		Tags:     tags,
		Resolver: res,
		Strict:   opts.Strict,
	}, nil
}

func (m *Migrator) process(ctx context.Context, j job, shared *builder.Env, dryRun bool) (Summary, error) {
	b := j.builder
	summary := Summary{Kind: b.Kind, Path: j.file.Path}
	env := *shared
	env.Columns = j.file.Columns()

	m.logger.Info("Processing %d %s rows from %s", len(j.file.Rows), b.Kind, j.file.Path)
	for i, row := range j.file.Rows {
		n := i + 1
		requests, err := b.Build(row, &env)
		if err != nil {
			fmt.Fprintf(m.out, "row %d: %v\n", n, err)
			summary.Failed++
			continue
		}
		if len(requests) == 0 {
			summary.Skipped++
			continue
		}
		for _, req := range requests {
			if err := ctx.Err(); err != nil {
				return summary, errors.Wrap(err, "migration interrupted")
			}
			if m.submit(ctx, n, req, dryRun) {
				summary.Created++
			} else {
				summary.Failed++
			}
		}
	}
	return summary, nil
}

// submit issues or, in dry run mode, prints one request and reports whether it succeeded
func (m *Migrator) submit(ctx context.Context, n int, req builder.Request, dryRun bool) bool {
	if dryRun {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			fmt.Fprintf(m.out, "row %d: %v\n", n, err)
			return false
		}
		fmt.Fprintf(m.out, "[dry-run] POST %s %s\n", req.Path, payload)
		return true
	}

	resp, err := m.api.Create(ctx, req.Path, req.Body)
	if err != nil {
		fmt.Fprintf(m.out, "row %d: %v\n", n, err)
		return false
	}
	if resp.OK() {
		fmt.Fprintln(m.out, string(resp.Body))
		return true
	}
	fmt.Fprintln(m.out, resp.StatusCode)
	fmt.Fprintln(m.out, string(resp.Body))
	return false
}
