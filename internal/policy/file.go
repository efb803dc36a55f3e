package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/predicate"
)

// File is the YAML policy document a parent or user edits.
//
//	app_block_action: close
//	escape_block_action: minimize_window
//	block_task_manager: true
//	presets: [steam]
//	windows:
//	  - process: {ends_with: game.exe}
//	bundle_ids:
//	  - com.example.game
type File struct {
	AppBlockAction    *domain.AppBlockAction `yaml:"app_block_action,omitempty"`
	EscapeBlockAction *domain.AppBlockAction `yaml:"escape_block_action,omitempty"`

	BlockTaskManager    bool `yaml:"block_task_manager"`
	BlockTerminal       bool `yaml:"block_terminal"`
	BlockSystemSettings bool `yaml:"block_system_settings"`
	BlockInstallers     bool `yaml:"block_installers"`
	BlockSignOutButtons bool `yaml:"block_sign_out_buttons"`

	Presets   []string                   `yaml:"presets,omitempty"`
	Windows   []WindowRule               `yaml:"windows,omitempty"`
	BundleIDs []*predicate.TextPredicate `yaml:"bundle_ids,omitempty"`
}

// Default actions when the document leaves them out.
const (
	DefaultAppBlockAction    = domain.ActionClose
	DefaultEscapeBlockAction = domain.ActionMinimizeWindow
)

// LoadFromFile reads and compiles a policy document.
func LoadFromFile(path string, reg *Registry) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file %s: %w", path, err)
	}

	rules, err := Parse(data, reg)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return rules, nil
}

// Parse decodes and compiles a policy document.
func Parse(data []byte, reg *Registry) (*Rules, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return f.Compile(reg)
}

// Validate checks the document for rules that can never match.
func (f *File) Validate() error {
	for i, w := range f.Windows {
		if w.IsEmpty() {
			return fmt.Errorf("windows[%d]: rule needs at least one of process, title, path", i)
		}
	}
	for i, b := range f.BundleIDs {
		if b == nil {
			return fmt.Errorf("bundle_ids[%d]: empty predicate", i)
		}
	}
	return nil
}

// Compile validates the document and merges preset rules into an immutable Rules.
func (f *File) Compile(reg *Registry) (*Rules, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	rules := &Rules{
		AppAction:           DefaultAppBlockAction,
		EscapeAction:        DefaultEscapeBlockAction,
		BlockTaskManager:    f.BlockTaskManager,
		BlockTerminal:       f.BlockTerminal,
		BlockSystemSettings: f.BlockSystemSettings,
		BlockInstallers:     f.BlockInstallers,
		BlockSignOutButtons: f.BlockSignOutButtons,
	}
	if f.AppBlockAction != nil {
		rules.AppAction = *f.AppBlockAction
	}
	if f.EscapeBlockAction != nil {
		rules.EscapeAction = *f.EscapeBlockAction
	}

	for _, id := range f.Presets {
		if reg == nil {
			return nil, fmt.Errorf("preset %s requested but no preset registry given", id)
		}
		p, err := reg.MustGet(id)
		if err != nil {
			return nil, err
		}
		rules.Windows = append(rules.Windows, p.WindowRules()...)
		rules.BundleIDs = append(rules.BundleIDs, p.BundleIDs()...)
	}
	rules.Windows = append(rules.Windows, f.Windows...)
	rules.BundleIDs = append(rules.BundleIDs, f.BundleIDs...)

	return rules, nil
}
