// Package editor owns the application state: the config document, the
// enabled mod list and the key-order bookkeeping. Every mutation replaces
// state wholesale, notifies subscribers and writes through to the
// snapshot store, so readers between two mutations always observe a fully
// consistent value.
package editor

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/reforgerctl/reforgerctl/catalog"
	"github.com/reforgerctl/reforgerctl/doc"
	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/types"
	"github.com/reforgerctl/reforgerctl/workshop"
)

// Store persists editor snapshots. Load returns nil without error when no
// snapshot exists yet.
type Store interface {
	Load() (*types.Snapshot, error)
	Save(types.Snapshot) error
}

// Editor is the single mutable state of the application.
type Editor struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	registry Registry
	store    Store

	doc       doc.Document
	mods      []types.Mod
	keyOrder  []string
	positions map[string]int

	searchResults    []workshop.SearchResult
	searchError      string
	isSearching      bool
	isImportingBatch bool
	batchImportError string

	subs []chan struct{}
}

// Option configures an Editor.
type Option func(*Editor)

// WithRegistry sets the mod registry client.
func WithRegistry(r Registry) Option {
	return func(e *Editor) { e.registry = r }
}

// WithStore sets the snapshot store.
func WithStore(s Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithCatalog overrides the built-in mod config catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Editor) { e.catalog = c }
}

// New creates an editor seeded with the built-in default configuration,
// then restores the persisted snapshot if a valid one exists. An invalid
// or missing snapshot fails open to the defaults.
func New(opts ...Option) *Editor {
	e := &Editor{
		catalog:   catalog.Load(),
		doc:       doc.Default(),
		keyOrder:  doc.DefaultKeyOrder(),
		positions: doc.DefaultKeyPositions(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store != nil {
		e.restore()
	}
	return e
}

func (e *Editor) restore() {
	snap, err := e.store.Load()
	if err != nil {
		print.Warn("failed to load saved state, starting from defaults:", err)
		return
	}
	if snap == nil {
		return
	}

	d, err := doc.FromJSON(snap.Config)
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		print.Warn("saved state is invalid, starting from defaults:", err)
		return
	}

	e.doc = d
	e.mods = snap.EnabledMods
	if len(snap.KeyOrder) > 0 {
		e.keyOrder = snap.KeyOrder
	}
	if len(snap.OriginalKeyPositions) > 0 {
		e.positions = snap.OriginalKeyPositions
	}
}

// Subscribe returns a channel that receives a signal after every state
// change. The channel is buffered; a slow consumer coalesces signals
// rather than blocking mutations.
func (e *Editor) Subscribe() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan struct{}, 1)
	e.subs = append(e.subs, ch)
	return ch
}

func (e *Editor) notify() {
	e.mu.Lock()
	subs := e.subs
	e.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// persist writes the current snapshot through to the store. Failures are
// logged and never surfaced; persistence must not block state updates.
func (e *Editor) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.Save(e.Snapshot()); err != nil {
		print.Warn("failed to persist state:", err)
	}
}

func (e *Editor) changed() {
	e.notify()
	e.persist()
}

// Snapshot captures the persistable state.
func (e *Editor) Snapshot() types.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.Snapshot{
		Config:               e.doc.Raw(),
		EnabledMods:          append([]types.Mod(nil), e.mods...),
		KeyOrder:             append([]string(nil), e.keyOrder...),
		OriginalKeyPositions: clonePositions(e.positions),
	}
}

// Document returns the current config document.
func (e *Editor) Document() doc.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Mods returns a copy of the enabled mod list, in load order.
func (e *Editor) Mods() []types.Mod {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Mod(nil), e.mods...)
}

// KeyOrder returns a copy of the tracked top-level key order.
func (e *Editor) KeyOrder() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.keyOrder...)
}

// Update applies a field-level edit at a dot-separated path.
func (e *Editor) Update(path string, value interface{}) error {
	e.mu.Lock()
	next, err := e.doc.Update(path, value)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.doc = next
	e.mu.Unlock()

	e.changed()
	return nil
}

// ToggleRcon enables or disables the rcon section. Enabling rebuilds the
// document so the key returns to its original position when known, which
// keeps exported key order faithful to the imported file.
func (e *Editor) ToggleRcon(enabled bool) error {
	e.mu.Lock()
	next, err := e.doc.ToggleSection("rcon", enabled, nil)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if enabled {
		pos, ok := e.positions["rcon"]
		if !ok {
			pos = -1
		}
		var order []string
		next, order, err = next.RebuildWithKeyOrder(e.keyOrder, "rcon", pos)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.keyOrder = order
	} else {
		e.keyOrder = withoutKey(e.keyOrder, "rcon")
	}
	e.doc = next
	e.mu.Unlock()

	e.changed()
	return nil
}

// ToggleAdmins enables or disables the game.admins list.
func (e *Editor) ToggleAdmins(enabled bool) error {
	return e.toggle(func(d doc.Document) (doc.Document, error) {
		return d.ToggleGameProperty("admins", enabled, nil)
	})
}

// ToggleNavmeshStreaming enables or disables
// operating.disableNavmeshStreaming.
func (e *Editor) ToggleNavmeshStreaming(enabled bool) error {
	return e.toggle(func(d doc.Document) (doc.Document, error) {
		return d.ToggleOperatingProperty("disableNavmeshStreaming", enabled, nil)
	})
}

// ToggleMissionHeader enables or disables the mission header section.
func (e *Editor) ToggleMissionHeader(enabled bool) error {
	return e.toggle(func(d doc.Document) (doc.Document, error) {
		return d.ToggleMissionHeader(enabled)
	})
}

func (e *Editor) toggle(fn func(doc.Document) (doc.Document, error)) error {
	e.mu.Lock()
	next, err := fn(e.doc)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.doc = next
	e.mu.Unlock()

	e.changed()
	return nil
}

// ImportJSON replaces the state with a validated import of raw. Nothing
// changes when parsing or validation fails.
func (e *Editor) ImportJSON(raw []byte) error {
	result, err := doc.Import(raw, e.catalog)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.doc = result.Config
	e.mods = result.EnabledMods
	e.keyOrder = result.KeyOrder
	e.positions = result.OriginalKeyPositions
	e.mu.Unlock()

	e.changed()
	return nil
}

// ExportJSON renders the current config as pretty-printed JSON, refusing
// on validation failure. State is never modified.
func (e *Editor) ExportJSON() ([]byte, error) {
	return e.Document().Export()
}

// Reset restores the built-in defaults and clears the mod list.
func (e *Editor) Reset() {
	e.mu.Lock()
	e.doc = doc.Default()
	e.mods = nil
	e.keyOrder = doc.DefaultKeyOrder()
	e.positions = doc.DefaultKeyPositions()
	e.searchResults = nil
	e.searchError = ""
	e.batchImportError = ""
	e.mu.Unlock()

	e.changed()
}

// commitMods writes mods into the document's game.mods, re-merges the
// mission header defaults of every enabled mod, and replaces state in one
// step. Callers hold e.mu.
func (e *Editor) commitMods(d doc.Document, mods []types.Mod) error {
	if mods == nil {
		mods = []types.Mod{}
	}
	next, err := d.SetValue("game.mods", mods)
	if err != nil {
		return err
	}

	ids := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ModID
	}
	next, err = e.catalog.MergeMissionHeader(next, ids)
	if err != nil {
		return err
	}

	e.doc = next
	e.mods = mods
	return nil
}

// RemoveMod disables a mod. Its untouched mission header defaults are
// pruned; values the user changed, and fields owned by other mods, stay.
func (e *Editor) RemoveMod(modID string) error {
	e.mu.Lock()
	updated := make([]types.Mod, 0, len(e.mods))
	for _, m := range e.mods {
		if m.ModID != modID {
			updated = append(updated, m)
		}
	}

	d := e.doc
	if cfg := e.catalog.Find(modID); cfg != nil {
		var err error
		if d, err = cfg.Clean(d, doc.MissionHeaderPath); err != nil {
			e.mu.Unlock()
			return err
		}
	}

	if err := e.commitMods(d, updated); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	e.changed()
	return nil
}

// ReorderMods moves the mod at from to position to; the list order is the
// server's mod load order.
func (e *Editor) ReorderMods(from, to int) error {
	e.mu.Lock()
	if from < 0 || from >= len(e.mods) || to < 0 || to >= len(e.mods) {
		e.mu.Unlock()
		return errors.Errorf("mod index out of range (%d -> %d of %d)", from, to, len(e.mods))
	}
	if from == to {
		e.mu.Unlock()
		return nil
	}

	mods := append([]types.Mod(nil), e.mods...)
	moved := mods[from]
	mods = append(mods[:from], mods[from+1:]...)
	rest := append([]types.Mod(nil), mods[to:]...)
	mods = append(append(mods[:to], moved), rest...)

	if err := e.commitMods(e.doc, mods); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	e.changed()
	return nil
}

// ImportModsList replaces the enabled mod list wholesale.
func (e *Editor) ImportModsList(mods []types.Mod) error {
	e.mu.Lock()
	if err := e.commitMods(e.doc, mods); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	e.changed()
	return nil
}

func withoutKey(keys []string, key string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func clonePositions(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
