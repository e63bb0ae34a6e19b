// Package normalize runs the normalization stage: every raw record is
// validated section by section on a worker pool, with failures isolated
// per item and carried as data. One item's bad metadata can never abort
// the batch; the worst outcome for an item is the empty placeholder
// record plus a diagnostic in the error map.
package normalize

import (
	"context"
	"fmt"
	"sync"

	"github.com/docsmith/docsmith/internal/docs"
	"github.com/docsmith/docsmith/internal/schema"
)

// outcome is the per-item result value. Errors never cross the stage
// boundary; they are folded into diagnostics here.
type outcome struct {
	record      docs.Record
	diagnostics []string
}

// Run normalizes every raw record and returns exactly one Record per
// input identity. Diagnostics are appended to errs keyed by identity.
// The only error Run can return is a cancelled or expired context.
func Run(ctx context.Context, pool *Pool, registry *schema.Registry, raw docs.RawRecords, errs *docs.ErrorMap) (map[docs.Identity]docs.Record, error) {
	// Single deterministic enumeration: identities and outcomes are
	// parallel slices, so pairing by index stays correct no matter in
	// which order the pool completes the units.
	ids := raw.Identities()
	outcomes := make([]outcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		record := raw[id.Kind][id.Name]
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			// Units still queued when the stage deadline expires must
			// not run; an expired stage drains in bounded time.
			if ctx.Err() != nil {
				return
			}
			outcomes[i] = normalizeOne(registry, id, record)
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("normalize: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("normalize: %w", ctx.Err())
	}

	normalized := make(map[docs.Identity]docs.Record, len(ids))
	for i, id := range ids {
		for _, message := range outcomes[i].diagnostics {
			errs.Append(id, message)
		}
		normalized[id] = outcomes[i].record
	}
	return normalized, nil
}

// normalizeOne validates the three sections in fixed order: doc, then
// examples, then return. A doc failure (or a panic anywhere in the
// unit) makes the item unrecoverable; examples and return failures fall
// back to their section defaults.
func normalizeOne(registry *schema.Registry, id docs.Identity, raw docs.RawRecord) (result outcome) {
	defer func() {
		if r := recover(); r != nil {
			result = outcome{
				diagnostics: []string{fmt.Sprintf("internal error while normalizing %s: %v", id, r)},
			}
		}
	}()

	validators, err := registry.Resolve(id.Kind)
	if err != nil {
		return outcome{diagnostics: []string{err.Error()}}
	}

	doc, err := validators.Doc(id, raw)
	if err != nil {
		return outcome{diagnostics: []string{err.Error()}}
	}

	record := docs.Record{Doc: doc}
	var diagnostics []string

	examples, err := validators.Examples(id, raw.Examples)
	if err != nil {
		diagnostics = append(diagnostics, err.Error())
		examples = ""
	}
	record.Examples = examples

	returnDocs, err := validators.Return(id, raw.Return)
	if err != nil {
		diagnostics = append(diagnostics, err.Error())
		returnDocs = nil
	}
	record.Return = returnDocs

	return outcome{record: record, diagnostics: diagnostics}
}
