package engine

import (
	"iter"
	"strings"
)

// ResolveHostedProcess sees through the store-app frame host. Store apps are
// drawn inside a window owned by the frame host process, so the real app is
// the first child window whose process is something else. Iteration stops at
// that child. Any other name is returned unchanged, as is the host name when
// no child qualifies.
func ResolveHostedProcess(name string, children iter.Seq[string]) string {
	if !strings.EqualFold(name, storeAppFrame) || children == nil {
		return name
	}
	for child := range children {
		if child != "" && !strings.EqualFold(child, storeAppFrame) {
			return child
		}
	}
	return name
}
