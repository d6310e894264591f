// Package store implements the durable, crash-safe persistence of
// DirectoryState and the ancestor cache under a tracked root's .atlcli/
// control directory.
package store

import "time"

// SyncState is the lifecycle state of a tracked page.
type SyncState string

const (
	StateSynced         SyncState = "synced"
	StateLocalModified  SyncState = "local-modified"
	StateRemoteModified SyncState = "remote-modified"
	StateConflict       SyncState = "conflict"
)

// PageState is the persisted record for one tracked page.
type PageState struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	Title        string    `json:"title"`
	SpaceKey     string    `json:"spaceKey"`
	Version      int       `json:"version"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
	LocalHash    string    `json:"localHash"`
	RemoteHash   string    `json:"remoteHash"`
	BaseHash     string    `json:"baseHash"`
	SyncState    SyncState `json:"syncState"`
	ParentID     string    `json:"parentId,omitempty"`
	Tombstone    bool      `json:"tombstone,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
}

// Settings are the recognized DirectoryState options.
type Settings struct {
	AutoCreatePages   bool   `json:"autoCreatePages"`
	PreserveHierarchy bool   `json:"preserveHierarchy"`
	DefaultParentID   string `json:"defaultParentId,omitempty"`
}

// config is the on-disk shape of config.json: DirectoryState minus the
// per-page maps.
type config struct {
	SchemaVersion int      `json:"schemaVersion"`
	SpaceKey      string   `json:"spaceKey"`
	BaseURL       string   `json:"baseUrl"`
	Profile       string   `json:"profile"`
	Settings      Settings `json:"settings"`
}

// stateFile is the on-disk shape of state.json.
type stateFile struct {
	SchemaVersion int                  `json:"schemaVersion"`
	LastSync      time.Time            `json:"lastSync"`
	Pages         map[string]PageState `json:"pages"`
	PathIndex     map[string]string    `json:"pathIndex"`
}

// DirectoryState is the full in-memory state for one tracked directory,
// config.json and state.json merged together.
type DirectoryState struct {
	SchemaVersion int
	SpaceKey      string
	BaseURL       string
	Profile       string
	Settings      Settings
	Pages         map[string]PageState
	PathIndex     map[string]string
	LastSync      time.Time
}

// CurrentSchemaVersion is the schema version this build writes and accepts.
const CurrentSchemaVersion = 1

func newDirectoryState() *DirectoryState {
	return &DirectoryState{
		SchemaVersion: CurrentSchemaVersion,
		Pages:         make(map[string]PageState),
		PathIndex:     make(map[string]string),
	}
}
