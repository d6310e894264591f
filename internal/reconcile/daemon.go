package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/BjoernSchotte/atlcli/internal/merge"
	"github.com/BjoernSchotte/atlcli/internal/poller"
	"github.com/BjoernSchotte/atlcli/internal/store"
	"github.com/BjoernSchotte/atlcli/internal/syncerr"
	"github.com/BjoernSchotte/atlcli/internal/watcher"
	"github.com/BjoernSchotte/atlcli/internal/webhook"
)

// logAction prints a terse, colored line for one daemon action: green for a
// clean push, yellow for a merge, red for a conflict. Mirrors the
// interactive-terminal status texture of the foreground commands.
func logAction(action, path string) {
	switch action {
	case "conflict":
		color.New(color.FgRed).Printf("conflict  %s\n", path)
	case "merged":
		color.New(color.FgYellow).Printf("merged    %s\n", path)
	case "pushed":
		color.New(color.FgGreen).Printf("pushed    %s\n", path)
	}
}

// ConflictPolicy governs how the daemon loop handles a push that lands on
// a conflict: "merge" leaves conflict markers for the operator, "local"
// and "remote" auto-resolve by accepting one side, "prompt" is equivalent
// to "merge" in the daemon (there is no interactive operator to prompt).
type ConflictPolicy string

const (
	ConflictMerge  ConflictPolicy = "merge"
	ConflictLocal  ConflictPolicy = "local"
	ConflictRemote ConflictPolicy = "remote"
	ConflictPrompt ConflictPolicy = "prompt"
)

// SyncOptions configures the daemon loop started by Sync.
type SyncOptions struct {
	Scope          string
	Ignore         []string
	PollInterval   time.Duration
	Webhook        *webhook.Receiver // optional; nil disables the webhook source
	ConflictPolicy ConflictPolicy
	DebounceDelay  time.Duration
	Log            *slog.Logger
}

// event is one unit of work enqueued onto the daemon's single dispatch
// queue, tagged with the event source so pump can decide between pull and
// push semantics.
type event struct {
	source string // "watch", "poll", "webhook", "deleted"
	key    string // relative path (watch) or page id (poll, webhook, deleted)
}

// Sync runs the reconciliation daemon until ctx is cancelled: a filesystem
// watcher, a remote poller and (optionally) a webhook receiver all enqueue
// onto one channel consumed by a single dispatch loop, so processing of
// any one event is never concurrent with another. Per-key debouncing
// coalesces bursts (a save storm, a batch of remote edits) into one
// dispatch. Sync blocks until ctx is done, then drains any events already
// queued before returning.
func (e *Engine) Sync(ctx context.Context, opts SyncOptions) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	debounce := opts.DebounceDelay
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	w, err := watcher.New(e.Root, opts.Ignore)
	if err != nil {
		return syncerr.Transient("start filesystem watcher", err)
	}
	defer w.Close()

	p := poller.New(e.Remote, opts.Scope, pollInterval, e.recordedVersions)
	p.Start(ctx)
	defer p.Stop()

	events := make(chan event, 256)
	go forward(events, "watch", w.Events)
	go forward(events, "poll", p.Events)
	go forward(events, "deleted", p.Deleted)
	if opts.Webhook != nil {
		go forward(events, "webhook", opts.Webhook.Events)
	}

	pending := map[string]event{}
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	timerRunning := false

	flush := func() {
		for _, ev := range pending {
			e.dispatch(ctx, ev, opts, log)
		}
		pending = map[string]event{}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return nil

		case ev := <-events:
			pending[ev.source+":"+ev.key] = ev
			if !timerRunning {
				timer.Reset(debounce)
				timerRunning = true
			}

		case <-timer.C:
			timerRunning = false
			flush()
		}
	}
}

func forward(out chan<- event, source string, in <-chan string) {
	for key := range in {
		out <- event{source: source, key: key}
	}
}

// recordedVersions reports the last-synced remote version of every tracked
// page, used by the poller to decide what has moved.
func (e *Engine) recordedVersions() map[string]int {
	ds, err := e.Store.ReadState()
	if err != nil {
		return nil
	}
	out := make(map[string]int, len(ds.Pages))
	for id, p := range ds.Pages {
		out[id] = p.Version
	}
	return out
}

func (e *Engine) dispatch(ctx context.Context, ev event, opts SyncOptions, log *slog.Logger) {
	switch ev.source {
	case "watch":
		e.dispatchLocalChange(ctx, ev.key, opts, log)
	case "poll", "webhook":
		e.dispatchRemoteChange(ctx, ev.key, opts, log)
	case "deleted":
		e.dispatchRemoteDeleted(ctx, ev.key, log)
	}
}

func (e *Engine) dispatchLocalChange(ctx context.Context, relPath string, opts SyncOptions, log *slog.Logger) {
	if _, err := e.ReconcileRenames(ctx); err != nil {
		log.Warn("reconcile renames", "error", err)
	}

	ds, err := e.Store.ReadState()
	if err != nil {
		log.Error("read state", "error", err)
		return
	}
	id, ok := ds.PathIndex[relPath]
	if !ok {
		if !ds.Settings.AutoCreatePages {
			return
		}
		res, err := e.Add(ctx, relPath, "", ds.Settings.DefaultParentID)
		if err != nil {
			log.Warn("auto-add failed", "path", relPath, "error", err)
			return
		}
		id = res.ID
	}

	res, err := e.Push(ctx, id)
	if err != nil {
		log.Warn("push failed", "path", relPath, "error", err)
		return
	}
	logAction(res.Action, relPath)
	if res.Action == "conflict" {
		e.autoResolveConflict(ctx, id, opts, log)
	}
}

func (e *Engine) dispatchRemoteChange(ctx context.Context, id string, opts SyncOptions, log *slog.Logger) {
	res, err := e.Pull(ctx, id, false)
	if err != nil {
		log.Warn("pull failed", "page", id, "error", err)
		return
	}
	_ = res
}

// dispatchRemoteDeleted tombstones a page the poller found missing from
// EnumerateScope's results. The local file is never removed; the operator
// decides what to do with an orphaned tracked file.
func (e *Engine) dispatchRemoteDeleted(ctx context.Context, id string, log *slog.Logger) {
	ds, err := e.Store.ReadState()
	if err != nil {
		log.Error("read state", "error", err)
		return
	}
	p, ok := ds.Pages[id]
	if !ok || p.Tombstone {
		return
	}

	if err := store.UpdatePage(ds, id, func(cur store.PageState) store.PageState {
		cur.Tombstone = true
		cur.SyncState = store.StateConflict
		cur.LastError = syncerr.RemoteDeleted(id).Error()
		return cur
	}); err != nil {
		log.Warn("tombstone update failed", "page", id, "error", err)
		return
	}
	if !e.DryRun {
		if err := e.Store.WriteState(ds); err != nil {
			log.Warn("write state failed", "page", id, "error", err)
			return
		}
	}
	e.recordHistory(p.Path, "remote-deleted", syncerr.RemoteDeleted(id).Error())
	log.Warn(syncerr.RemoteDeleted(id).Error(), "page", id, "path", p.Path)
}

func (e *Engine) autoResolveConflict(ctx context.Context, id string, opts SyncOptions, log *slog.Logger) {
	var accept merge.Accept
	switch opts.ConflictPolicy {
	case ConflictLocal:
		accept = merge.AcceptLocal
	case ConflictRemote:
		accept = merge.AcceptRemote
	default:
		// "merge" and "prompt" both leave the conflict for the operator.
		return
	}
	if err := e.Resolve(ctx, id, accept, false); err != nil {
		log.Warn("auto-resolve failed", "page", id, "error", err)
		return
	}
	if _, err := e.Push(ctx, id); err != nil {
		log.Warn("push after auto-resolve failed", "page", id, "error", err)
	}
}
