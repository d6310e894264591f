package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/BjoernSchotte/atlcli/internal/config"
	"github.com/BjoernSchotte/atlcli/internal/reconcile"
	"github.com/BjoernSchotte/atlcli/internal/webhook"
)

var (
	syncDaemon      bool
	syncScope       string
	syncConflict    string
	syncWebhook     string
	syncPollEvery   time.Duration
	syncMetricsAddr string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the reconciliation daemon",
	Long: `Run the reconciliation daemon: a filesystem watcher, a remote poller,
and (with --webhook) a webhook receiver all feed one serialized dispatch
loop that pushes local changes and pulls remote ones.

By default sync runs in the foreground until interrupted. With --daemon it
detaches into the background, recording a PID file so 'atlcli sync stop'
and 'atlcli sync status' can manage it.`,
	RunE: runSync,
}

var syncStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a background sync daemon",
	RunE:  runSyncStop,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a background sync daemon is running",
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDaemon, "daemon", false, "detach into the background")
	syncCmd.Flags().StringVar(&syncScope, "scope", "", "remote scope the poller enumerates")
	syncCmd.Flags().StringVar(&syncConflict, "conflict", "merge", "conflict policy: merge, local, remote, or prompt")
	syncCmd.Flags().StringVar(&syncWebhook, "webhook", "", "address to bind the webhook receiver to, e.g. :8090 (disabled if empty)")
	syncCmd.Flags().DurationVar(&syncPollEvery, "poll-interval", 0, "override the configured poll interval")
	syncCmd.Flags().StringVar(&syncMetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")

	syncCmd.AddCommand(syncStopCmd)
	syncCmd.AddCommand(syncStatusCmd)
}

func pidFilePath(root string) string {
	return filepath.Join(root, ".atlcli", "sync.pid")
}

func runSync(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	c, err := getConfig()
	if err != nil {
		return err
	}

	if syncDaemon {
		return startDaemon(cwd)
	}

	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	lock, err := e.Store.AcquireLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	opts := syncOptions(c)

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nshutting down, draining in-flight events...")
		cancel()
	}()

	if syncMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(e.Metrics.Registry, promhttp.HandlerOpts{}))
		metricsSrv := &http.Server{Addr: syncMetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("metrics listening on %s\n", syncMetricsAddr)
	}

	var handler http.Handler
	var receiver *webhook.Receiver
	if syncWebhook != "" {
		receiver = webhook.New(0)
		receiver.AllowSpaceKey = syncScope
		if receiver.AllowSpaceKey == "" {
			if ds, err := e.Store.ReadState(); err == nil {
				receiver.AllowSpaceKey = ds.SpaceKey
			}
		}
		opts.Webhook = receiver
		handler = receiver
		srv := &http.Server{Addr: syncWebhook, Handler: handler}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "webhook receiver: %v\n", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("webhook receiver listening on %s\n", syncWebhook)
	}

	color.New(color.FgGreen).Printf("syncing %s", e.Root)
	fmt.Printf(" (scope=%q, conflict=%s)\n", syncScope, syncConflict)
	return e.Sync(ctx, opts)
}

func syncOptions(c *config.Config) reconcile.SyncOptions {
	poll := syncPollEvery
	if poll <= 0 {
		poll = c.Daemon.PollInterval
	}
	ignore := c.Daemon.Ignore

	return reconcile.SyncOptions{
		Scope:          syncScope,
		Ignore:         ignore,
		PollInterval:   poll,
		ConflictPolicy: reconcile.ConflictPolicy(syncConflict),
		DebounceDelay:  c.Daemon.DebounceDelay,
		Log:            slog.Default(),
	}
}

func startDaemon(cwd string) error {
	root := cwd
	logFile := filepath.Join(root, ".atlcli", "sync.log")
	pidFile := pidFilePath(root)

	if pid, running := checkPIDFile(pidFile); running {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}

	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	args := append([]string{"sync"}, os.Args[2:]...)
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		if args[i] == "--daemon" {
			continue
		}
		filtered = append(filtered, args[i])
	}

	logOutput, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logOutput.Close()

	proc := exec.Command(execPath, filtered...)
	proc.Stdout = logOutput
	proc.Stderr = logOutput
	proc.Dir = root
	if err := proc.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(proc.Process.Pid)), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	fmt.Printf("Daemon started (PID: %d)\n", proc.Process.Pid)
	fmt.Printf("PID file: %s\n", pidFile)
	fmt.Printf("Log file: %s\n", logFile)
	return nil
}

// checkPIDFile reports whether the recorded daemon process is still alive,
// signalling it with signal 0 rather than actually delivering a signal.
func checkPIDFile(pidFile string) (pid int, running bool) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, false
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return pid, false
	}
	return pid, true
}

func runSyncStop(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	closeFn()

	pidFile := pidFilePath(e.Root)
	pid, running := checkPIDFile(pidFile)
	if !running {
		fmt.Println("No daemon running")
		return nil
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}
	fmt.Printf("Sent stop signal to daemon (PID: %d)\n", pid)
	_ = os.Remove(pidFile)
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	closeFn()

	pid, running := checkPIDFile(pidFilePath(e.Root))
	if running {
		fmt.Printf("Daemon running (PID: %d)\n", pid)
	} else {
		fmt.Println("Daemon not running")
	}
	return nil
}
