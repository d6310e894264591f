package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// ControlDir is the name of the control directory created under a tracked
// root.
const ControlDir = ".atlcli"

const (
	configFileName = "config.json"
	stateFileName  = "state.json"
	cacheDirName   = "cache"
	lockFileName   = ".sync.lock"
)

// Store is the durable state store for a single tracked root.
type Store struct {
	root string
}

// Locate walks upward from start until a .atlcli directory is found,
// returning the tracked root. Returns "" if none is found before reaching
// the filesystem root.
func Locate(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ControlDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Open binds a Store to an already-initialized tracked root. It does not
// itself validate initialization; callers that need that guarantee should
// call ReadState, which returns NotInitialized when appropriate.
func Open(root string) *Store {
	return &Store{root: root}
}

// Root returns the tracked root this Store is bound to.
func (s *Store) Root() string { return s.root }

// ControlPath returns the path to the .atlcli control directory.
func (s *Store) ControlPath() string {
	return filepath.Join(s.root, ControlDir)
}

// Init creates the .atlcli layout and writes the initial DirectoryState. It
// refuses if the root is already initialized.
func Init(root string, spaceKey, baseURL, profile string, settings Settings) (*Store, error) {
	control := filepath.Join(root, ControlDir)
	if _, err := os.Stat(control); err == nil {
		return nil, syncerr.Usage("%s is already initialized", root)
	}

	if err := os.MkdirAll(filepath.Join(control, cacheDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create control dir: %w", err)
	}

	s := &Store{root: root}
	ds := newDirectoryState()
	ds.SpaceKey = spaceKey
	ds.BaseURL = baseURL
	ds.Profile = profile
	ds.Settings = settings

	if err := s.WriteState(ds); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadState loads config.json and state.json, merging them into a
// DirectoryState.
func (s *Store) ReadState() (*DirectoryState, error) {
	control := s.ControlPath()
	if info, err := os.Stat(control); err != nil || !info.IsDir() {
		return nil, syncerr.Usage("%s is not an atlcli-tracked directory", s.root)
	}

	var cfg config
	if err := readJSON(filepath.Join(control, configFileName), &cfg); err != nil {
		return nil, err
	}
	if cfg.SchemaVersion != CurrentSchemaVersion {
		return nil, syncerr.Integrity(fmt.Sprintf("unknown schema version %d", cfg.SchemaVersion), nil)
	}

	var sf stateFile
	if err := readJSON(filepath.Join(control, stateFileName), &sf); err != nil {
		return nil, err
	}
	if sf.Pages == nil {
		sf.Pages = make(map[string]PageState)
	}
	if sf.PathIndex == nil {
		sf.PathIndex = make(map[string]string)
	}

	if err := checkBijection(sf.Pages, sf.PathIndex); err != nil {
		return nil, err
	}

	return &DirectoryState{
		SchemaVersion: cfg.SchemaVersion,
		SpaceKey:      cfg.SpaceKey,
		BaseURL:       cfg.BaseURL,
		Profile:       cfg.Profile,
		Settings:      cfg.Settings,
		Pages:         sf.Pages,
		PathIndex:     sf.PathIndex,
		LastSync:      sf.LastSync,
	}, nil
}

// WriteState atomically replaces config.json and state.json.
func (s *Store) WriteState(ds *DirectoryState) error {
	if err := checkBijection(ds.Pages, ds.PathIndex); err != nil {
		return err
	}

	control := s.ControlPath()
	if err := os.MkdirAll(filepath.Join(control, cacheDirName), 0o755); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}

	cfg := config{
		SchemaVersion: ds.SchemaVersion,
		SpaceKey:      ds.SpaceKey,
		BaseURL:       ds.BaseURL,
		Profile:       ds.Profile,
		Settings:      ds.Settings,
	}
	if err := writeJSONAtomic(filepath.Join(control, configFileName), &cfg); err != nil {
		return err
	}

	sf := stateFile{
		SchemaVersion: ds.SchemaVersion,
		LastSync:      ds.LastSync,
		Pages:         ds.Pages,
		PathIndex:     ds.PathIndex,
	}
	return writeJSONAtomic(filepath.Join(control, stateFileName), &sf)
}

// ReadAncestor returns the ancestor text for id, or ok == false if no blob
// exists.
func (s *Store) ReadAncestor(id string) (text string, ok bool, err error) {
	path := filepath.Join(s.ControlPath(), cacheDirName, id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read ancestor %s: %w", id, err)
	}
	return string(data), true, nil
}

// WriteAncestor atomically replaces the ancestor blob for id.
func (s *Store) WriteAncestor(id string, text string) error {
	dir := filepath.Join(s.ControlPath(), cacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, id), []byte(text))
}

// DeleteAncestor removes the ancestor blob for id, used by untrack.
func (s *Store) DeleteAncestor(id string) error {
	err := os.Remove(filepath.Join(s.ControlPath(), cacheDirName, id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove ancestor %s: %w", id, err)
	}
	return nil
}

// UpdatePage applies an in-memory patch to ds for page id, refusing a patch
// that would violate the pages<->pathIndex bijection. fn receives the
// current PageState (zero value if the page is new) and returns the new
// value.
func UpdatePage(ds *DirectoryState, id string, fn func(PageState) PageState) error {
	current := ds.Pages[id]
	updated := fn(current)
	updated.ID = id

	if existing, ok := ds.PathIndex[updated.Path]; ok && existing != id {
		return syncerr.Integrity(fmt.Sprintf("path %q already maps to page %s", updated.Path, existing), nil)
	}

	if current.Path != "" && current.Path != updated.Path {
		delete(ds.PathIndex, current.Path)
	}
	ds.Pages[id] = updated
	if updated.Path != "" {
		ds.PathIndex[updated.Path] = id
	}
	return nil
}

// RemovePage deletes a page from both pages and pathIndex, preserving the
// bijection.
func RemovePage(ds *DirectoryState, id string) {
	if p, ok := ds.Pages[id]; ok {
		delete(ds.PathIndex, p.Path)
	}
	delete(ds.Pages, id)
}

func checkBijection(pages map[string]PageState, pathIndex map[string]string) error {
	for id, p := range pages {
		if p.Path == "" {
			continue
		}
		if pathIndex[p.Path] != id {
			return syncerr.Integrity(fmt.Sprintf("pages[%s].path=%q but pathIndex[%q]=%q", id, p.Path, p.Path, pathIndex[p.Path]), nil)
		}
	}
	for path, id := range pathIndex {
		if p, ok := pages[id]; !ok || p.Path != path {
			return syncerr.Integrity(fmt.Sprintf("pathIndex[%q]=%s has no matching pages entry", path, id), nil)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return syncerr.Usage("%s not found", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return syncerr.Integrity(fmt.Sprintf("decode %s", filepath.Base(path)), err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Now returns the current time; a package-level var so tests can override
// it without threading a clock through every call site.
var Now = time.Now
