package domain

import (
	"context"
	"iter"
)

// BasePolicy is the capability set every platform variant consults.
// Implementations are read-only during evaluation.
type BasePolicy interface {
	// AppBlockAction is applied to applications the policy blocks.
	AppBlockAction() AppBlockAction

	// EscapeBlockAction is applied to system-protection surfaces
	// (task manager, terminal, settings, installers).
	EscapeBlockAction() AppBlockAction

	ShouldBlockTaskManager() bool
	ShouldBlockTerminal() bool
	ShouldBlockSystemSettings() bool
}

// DesktopPolicy is the capability set of the windowed desktop variant.
type DesktopPolicy interface {
	BasePolicy

	// ShouldBlockWindow decides on the foreground window. path is "" when unknown.
	ShouldBlockWindow(processName, title, path string) bool

	ShouldBlockSignOutButtons() bool
	ShouldBlockInstallers() bool
}

// FrontmostPolicy is the capability set of the single-frontmost-app variant.
type FrontmostPolicy interface {
	BasePolicy

	// ShouldBlockBundleID decides on the frontmost application's bundle identifier.
	ShouldBlockBundleID(bundleID string) bool
}

// WindowInspector observes the foreground window.
// A nil snapshot with a nil error means nothing is focused.
type WindowInspector interface {
	CurrentSnapshot(ctx context.Context) (*WindowSnapshot, error)
}

// HostedProcessLister lists the process names hosted under a window's owner.
// Used to see through frame-host processes that draw other apps' windows.
// The sequence is lazy and may be ranged over again for a fresh walk.
type HostedProcessLister interface {
	ChildProcessNames(ctx context.Context, h WindowHandle) iter.Seq[string]
}

// WindowController applies block actions to a window or its process.
// All operations are best-effort.
type WindowController interface {
	// Terminate kills the process owning the handle.
	Terminate(h WindowHandle) error

	// Minimize minimizes (or hides) the window.
	Minimize(h WindowHandle) error

	// CloseWindow closes the window without killing its process.
	CloseWindow(h WindowHandle) error
}

// ProcessController looks up and closes processes by name.
type ProcessController interface {
	IsProcessRunning(name string) bool

	// CloseByName terminates running processes with the name.
	// Returns false if none was running.
	CloseByName(name string) bool
}

// BundleResolver extracts a bundle identifier from an application bundle.
// Failures wrap ErrBundleIDNotFound.
type BundleResolver interface {
	ResolveBundleID(appPath string) (string, error)
}

// Blocker performs one inspect-decide-act pass.
type Blocker interface {
	PerformBlock(ctx context.Context) (*BlockResult, error)
}

// ProcessManager handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)

	// Kill terminates a process by PID (SIGKILL).
	Kill(pid int) error

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// AuditLog persists applied block actions.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)

	Close() error
}

// KeyProvider abstracts the source of encryption keys.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}
