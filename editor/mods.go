package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"

	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/types"
	"github.com/reforgerctl/reforgerctl/workshop"
)

// Registry is the remote mod registry consumed by the resolver.
type Registry interface {
	Search(ctx context.Context, query string) ([]workshop.SearchResult, error)
	Dependencies(ctx context.Context, modID, modName string) ([]workshop.Dependency, error)
	BatchInfo(ctx context.Context, modIDs []string) ([]workshop.BatchItem, error)
}

// maxBatchErrorsShown caps how many per-item errors the batch import
// summary lists before truncating to a count.
const maxBatchErrorsShown = 5

// ErrNoRegistry is returned by operations that need the remote registry
// when the editor was built without one.
var ErrNoRegistry = errors.New("no mod registry configured")

// SearchMods queries the registry and stores the result set. A blank
// query clears the results without issuing a call. Failures are recorded
// as the search error surface and yield an empty result set.
func (e *Editor) SearchMods(ctx context.Context, query string) ([]workshop.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		e.mu.Lock()
		e.searchResults = nil
		e.searchError = ""
		e.mu.Unlock()
		return nil, nil
	}
	if e.registry == nil {
		return nil, ErrNoRegistry
	}

	e.mu.Lock()
	e.isSearching = true
	e.searchError = ""
	e.mu.Unlock()

	results, err := e.registry.Search(ctx, query)

	e.mu.Lock()
	e.isSearching = false
	if err != nil {
		e.searchResults = nil
		e.searchError = err.Error()
	} else {
		e.searchResults = results
		e.searchError = ""
	}
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchResults returns the last stored search result set.
func (e *Editor) SearchResults() []workshop.SearchResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]workshop.SearchResult(nil), e.searchResults...)
}

// SearchError returns the stored search error surface, empty when the
// last search succeeded.
func (e *Editor) SearchError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchError
}

// IsSearching reports whether a search call is in flight. Advisory only.
func (e *Editor) IsSearching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isSearching
}

// AddModFromSearch adds a mod immediately, then fetches its direct
// dependencies and appends any not already enabled. A failed dependency
// fetch leaves the mod itself added; only the augmentation is skipped.
func (e *Editor) AddModFromSearch(ctx context.Context, result workshop.SearchResult, includeDependencies bool) error {
	mod := types.NewMod(result.ModID, result.ModName)

	e.mu.Lock()
	if !hasMod(e.mods, mod.ModID) {
		if err := e.commitMods(e.doc, append(append([]types.Mod(nil), e.mods...), mod)); err != nil {
			e.mu.Unlock()
			return err
		}
		e.mu.Unlock()
		e.changed()
	} else {
		e.mu.Unlock()
	}

	if !includeDependencies {
		return nil
	}
	if e.registry == nil {
		return ErrNoRegistry
	}

	deps, err := e.registry.Dependencies(ctx, result.ModID, result.ModName)
	if err != nil {
		print.Warn("failed to fetch dependencies for", result.ModID+":", err)
		return nil
	}

	e.mu.Lock()
	mods := append([]types.Mod(nil), e.mods...)
	added := false
	for _, dep := range deps {
		if !hasMod(mods, dep.ModID) {
			mods = append(mods, types.NewMod(dep.ModID, dep.ModName))
			added = true
		}
	}
	if added {
		if err := e.commitMods(e.doc, mods); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.mu.Unlock()

	if added {
		e.changed()
	}
	return nil
}

// ImportModsBatch imports a set of mod IDs in one operation, resolving
// transitive dependencies. Per-item failures are collected into the batch
// error surface without aborting the rest; only an empty input or a
// failed batch info call fails the whole operation. A second batch while
// one is in flight is rejected.
func (e *Editor) ImportModsBatch(ctx context.Context, modIDs []string) error {
	valid := dedupeIDs(modIDs)
	if len(valid) == 0 {
		err := errors.New("no valid mod IDs for import")
		e.mu.Lock()
		e.batchImportError = err.Error()
		e.mu.Unlock()
		return err
	}
	if e.registry == nil {
		return ErrNoRegistry
	}

	e.mu.Lock()
	if e.isImportingBatch {
		e.mu.Unlock()
		return errors.New("a batch import is already in progress")
	}
	e.isImportingBatch = true
	e.batchImportError = ""
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.isImportingBatch = false
		e.mu.Unlock()
	}()

	items, err := e.registry.BatchInfo(ctx, valid)
	if err != nil {
		e.mu.Lock()
		e.batchImportError = err.Error()
		e.mu.Unlock()
		return err
	}

	existing := make(map[string]bool)
	for _, m := range e.Mods() {
		existing[m.ModID] = true
	}

	newMods, itemErrors := e.resolveWithDependencies(ctx, items, existing)

	if len(newMods) > 0 {
		e.mu.Lock()
		merged := mergeModLists(e.mods, newMods)
		if err := e.commitMods(e.doc, merged); err != nil {
			e.mu.Unlock()
			return err
		}
		e.mu.Unlock()
		e.changed()
	}

	if len(itemErrors) > 0 {
		e.mu.Lock()
		e.batchImportError = summarizeErrors(itemErrors)
		e.mu.Unlock()
	}
	return nil
}

// resolveWithDependencies walks the batch items, expanding dependency
// graphs. Newly discovered dependencies are prepended to the queue so
// they resolve ahead of already-queued siblings and land in the mod list
// before the mods that need them.
func (e *Editor) resolveWithDependencies(ctx context.Context, items []workshop.BatchItem, existing map[string]bool) ([]types.Mod, []string) {
	var (
		resolved []types.Mod
		errs     []string
	)

	processed := make(map[string]bool, len(existing))
	for id := range existing {
		processed[id] = true
	}

	queue := append([]workshop.BatchItem(nil), items...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if processed[current.ModID] {
			continue
		}
		if current.Error != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", current.ModID, current.Error))
			continue
		}
		if current.ModID == "" || current.ModName == "" {
			errs = append(errs, fmt.Sprintf("invalid mod data for %s", current.ModID))
			continue
		}

		mod := types.NewMod(current.ModID, current.ModName)
		mod.Version = current.Version
		resolved = append(resolved, mod)
		processed[current.ModID] = true

		for _, dep := range current.Dependencies {
			if processed[dep.ModID] {
				continue
			}
			depItems, err := e.registry.BatchInfo(ctx, []string{dep.ModID})
			if err != nil {
				errs = append(errs, fmt.Sprintf("error processing dependency %s for %s: %v", dep.ModID, current.ModID, err))
				continue
			}
			if len(depItems) == 0 {
				errs = append(errs, fmt.Sprintf("dependency %s for %s: not found", dep.ModID, current.ModID))
				continue
			}
			if depItems[0].Error != "" {
				errs = append(errs, fmt.Sprintf("dependency %s for %s: %s", dep.ModID, current.ModID, depItems[0].Error))
				continue
			}
			queue = append([]workshop.BatchItem{depItems[0]}, queue...)
		}
	}

	return resolved, errs
}

// IsImportingBatch reports whether a batch import is in flight.
func (e *Editor) IsImportingBatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isImportingBatch
}

// BatchImportError returns the aggregated error surface of the last batch
// import, empty when it fully succeeded.
func (e *Editor) BatchImportError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batchImportError
}

// OutdatedMod is an enabled mod whose registry version is newer than the
// version recorded in the config.
type OutdatedMod struct {
	ModID   string
	Name    string
	Current string
	Latest  string
}

// CheckUpdates compares enabled mod versions against the registry.
// Versions that parse as semantic versions are compared semantically,
// anything else falls back to plain inequality.
func (e *Editor) CheckUpdates(ctx context.Context) ([]OutdatedMod, error) {
	if e.registry == nil {
		return nil, ErrNoRegistry
	}

	mods := e.Mods()
	if len(mods) == 0 {
		return nil, nil
	}

	ids := make([]string, len(mods))
	byID := make(map[string]types.Mod, len(mods))
	for i, m := range mods {
		ids[i] = m.ModID
		byID[m.ModID] = m
	}

	items, err := e.registry.BatchInfo(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch mod info")
	}

	var outdated []OutdatedMod
	for _, item := range items {
		if item.Error != "" || item.Version == "" {
			continue
		}
		mod, ok := byID[item.ModID]
		if !ok {
			continue
		}
		if newerVersion(mod.Version, item.Version) {
			outdated = append(outdated, OutdatedMod{
				ModID:   mod.ModID,
				Name:    mod.Name,
				Current: mod.Version,
				Latest:  item.Version,
			})
		}
	}
	return outdated, nil
}

func newerVersion(current, latest string) bool {
	if current == "" {
		return true
	}
	cv, errC := semver.NewVersion(current)
	lv, errL := semver.NewVersion(latest)
	if errC != nil || errL != nil {
		return current != latest
	}
	return lv.GreaterThan(cv)
}

// dedupeIDs trims, drops empties and removes duplicates preserving first
// occurrence order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// mergeModLists merges additions into current keyed by mod ID; the first
// occurrence of an ID wins on conflicting metadata.
func mergeModLists(current, additions []types.Mod) []types.Mod {
	seen := make(map[string]bool, len(current)+len(additions))
	out := make([]types.Mod, 0, len(current)+len(additions))
	for _, m := range current {
		if seen[m.ModID] {
			continue
		}
		seen[m.ModID] = true
		out = append(out, m)
	}
	for _, m := range additions {
		if seen[m.ModID] {
			continue
		}
		seen[m.ModID] = true
		out = append(out, m)
	}
	return out
}

func hasMod(mods []types.Mod, modID string) bool {
	for _, m := range mods {
		if m.ModID == modID {
			return true
		}
	}
	return false
}

func summarizeErrors(errs []string) string {
	shown := errs
	if len(shown) > maxBatchErrorsShown {
		shown = shown[:maxBatchErrorsShown]
	}
	summary := "import issues occurred:\n" + strings.Join(shown, "\n")
	if rest := len(errs) - maxBatchErrorsShown; rest > 0 {
		summary += fmt.Sprintf("\n...and %d more errors", rest)
	}
	return summary
}
