// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package validate implements declarative per-field validation chains and
// the aggregator that runs them for an endpoint. Chains for independent
// fields run concurrently; within one field rules run in declaration
// order. A failing rule records its message against the field; aggregation
// is complete, so a client sees every field's violation in one response
// rather than one at a time.
//
// Lookup failures from existence checks are never treated as "does not
// exist": they abort the run with a VALIDATE_LOOKUP_FAILED error so the
// caller can surface a generic store failure instead of a misleading
// field error.
package validate

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// Input holds the raw request fields under validation.
type Input map[string]string

// Rule is one check applied to a field's value. Check returns false when
// the value violates the rule; a non-nil error means the check itself
// could not run (store lookup failure) and aborts the whole validation.
type Rule struct {
	Check   func(ctx context.Context, in Input, value string) (bool, error)
	Message string
	Stop    bool
}

// Chain is the ordered list of rules for one field. When Trim is set the
// field's value is whitespace-trimmed in the input itself before any rule
// runs, so callers that persist the field after validation persist the
// trimmed form.
type Chain struct {
	Field string
	Trim  bool
	Rules []Rule
}

// Result maps each failed field to its first failure message.
type Result struct {
	errs map[string]string
}

// Valid reports whether no field failed.
func (r *Result) Valid() bool { return len(r.errs) == 0 }

// Errors returns the field-to-message map. Never nil.
func (r *Result) Errors() map[string]string {
	if r.errs == nil {
		return map[string]string{}
	}
	return r.errs
}

// Field returns the failure message recorded for a field, or "".
func (r *Result) Field(name string) string { return r.errs[name] }

// Set is the full collection of chains for one endpoint.
type Set struct {
	chains []Chain
}

// NewSet composes chains into an endpoint's validation set.
func NewSet(chains ...Chain) Set {
	return Set{chains: chains}
}

// Run sanitizes the input, then executes every chain against it. Chains
// run concurrently; each chain evaluates its rules in order and records
// the field's first failure. A rule error aborts the run and is returned
// wrapped as a lookup failure, with no partial Result. Sanitization
// mutates in, so values read back from it after a valid run match what
// the rules checked.
func (s Set) Run(ctx context.Context, in Input) (*Result, error) {
	for _, chain := range s.chains {
		if chain.Trim {
			in[chain.Field] = strings.TrimSpace(in[chain.Field])
		}
	}

	result := &Result{errs: make(map[string]string)}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, chain := range s.chains {
		wg.Add(1)
		go func(chain Chain) {
			defer wg.Done()

			field, message, err := chain.run(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if message != "" {
				if _, taken := result.errs[field]; !taken {
					result.errs[field] = message
				}
			}
		}(chain)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, oops.Code("VALIDATE_LOOKUP_FAILED").
			With("operation", "validate.Set.Run").
			Wrap(firstErr)
	}
	return result, nil
}

// run evaluates one chain and returns the field's first failure message,
// or "" when every rule passed.
func (chain Chain) run(ctx context.Context, in Input) (string, string, error) {
	value := in[chain.Field]

	var message string
	for _, rule := range chain.Rules {
		ok, err := rule.Check(ctx, in, value)
		if err != nil {
			return chain.Field, "", err
		}
		if ok {
			continue
		}
		if message == "" {
			message = rule.Message
		}
		if rule.Stop {
			break
		}
	}
	return chain.Field, message, nil
}
