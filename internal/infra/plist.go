package infra

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

var bundleIDPattern = regexp.MustCompile(`<key>CFBundleIdentifier</key>\s*<string>(.*?)</string>`)

// binaryPlistMagic prefixes plists stored in Apple's binary format.
var binaryPlistMagic = []byte("bplist")

// PlistBundleResolver reads CFBundleIdentifier from <app>/Contents/Info.plist.
// Binary plists are converted with plutil when a runner is available.
type PlistBundleResolver struct {
	runner CommandRunner
}

// NewPlistBundleResolver creates a resolver that can convert binary plists.
func NewPlistBundleResolver() *PlistBundleResolver {
	return &PlistBundleResolver{runner: &RealCommandRunner{}}
}

// NewPlistBundleResolverWithRunner creates a resolver with an injected runner.
// A nil runner disables binary plist support.
func NewPlistBundleResolverWithRunner(runner CommandRunner) *PlistBundleResolver {
	return &PlistBundleResolver{runner: runner}
}

// ResolveBundleID returns the bundle identifier of the app at appPath.
func (r *PlistBundleResolver) ResolveBundleID(appPath string) (string, error) {
	plistPath := filepath.Join(appPath, "Contents", "Info.plist")
	content, err := os.ReadFile(plistPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBundleIDNotFound, err)
	}

	if bytes.HasPrefix(content, binaryPlistMagic) {
		if r.runner == nil {
			return "", fmt.Errorf("%w: %s is a binary plist", domain.ErrBundleIDNotFound, plistPath)
		}
		ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
		defer cancel()
		content, err = r.runner.Output(ctx, "plutil", "-convert", "xml1", "-o", "-", plistPath)
		if err != nil {
			return "", fmt.Errorf("%w: plutil: %v", domain.ErrBundleIDNotFound, err)
		}
	}

	id, err := BundleIDFromXML(string(content))
	if err != nil {
		return "", fmt.Errorf("%s: %w", plistPath, err)
	}
	return id, nil
}

// BundleIDFromXML extracts CFBundleIdentifier from an XML property list.
func BundleIDFromXML(content string) (string, error) {
	m := bundleIDPattern.FindStringSubmatch(content)
	if m == nil || m[1] == "" {
		return "", domain.ErrBundleIDNotFound
	}
	return m[1], nil
}

// Ensure PlistBundleResolver implements domain.BundleResolver.
var _ domain.BundleResolver = (*PlistBundleResolver)(nil)
