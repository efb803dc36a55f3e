// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
)

const infoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>%s</string>
	<key>CFBundleIdentifier</key>
	<string>%s</string>
</dict>
</plist>
`

// FakeAppBundle creates a directory mimicking a macOS application bundle.
type FakeAppBundle struct {
	Dir      string
	Name     string
	BundleID string
}

// NewFakeAppBundle describes <dir>/<name>.app with the given identifier.
func NewFakeAppBundle(dir, name, bundleID string) *FakeAppBundle {
	return &FakeAppBundle{Dir: dir, Name: name, BundleID: bundleID}
}

// Path returns the .app directory.
func (f *FakeAppBundle) Path() string {
	return filepath.Join(f.Dir, f.Name+".app")
}

// Create writes Contents/Info.plist and Contents/MacOS.
func (f *FakeAppBundle) Create() error {
	contents := filepath.Join(f.Path(), "Contents")
	if err := os.MkdirAll(filepath.Join(contents, "MacOS"), 0755); err != nil {
		return err
	}
	plist := fmt.Sprintf(infoPlistTemplate, f.Name, f.BundleID)
	return os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(plist), 0644)
}

// RemovePlist deletes Info.plist so the identifier can no longer be read.
func (f *FakeAppBundle) RemovePlist() error {
	return os.Remove(filepath.Join(f.Path(), "Contents", "Info.plist"))
}
