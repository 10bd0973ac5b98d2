// File: internal/i18n/preference.go (complete file)

package i18n

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Preference persists the chosen language as a single string in a file.
type Preference struct {
	Path string
}

// DefaultPreference stores the language under the user's config directory
// ($XDG_CONFIG_HOME/ipinsight/language on Linux).
func DefaultPreference() (*Preference, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "locate config dir")
	}
	return &Preference{Path: filepath.Join(dir, "ipinsight", "language")}, nil
}

// Load returns the saved language, or Default if nothing usable is stored.
// A missing file is not an error; a file with an unknown value is reported
// along with Default.
func (p *Preference) Load() (Language, error) {
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Default, nil
	}
	if err != nil {
		return Default, errors.Wrap(err, "read language preference")
	}
	l, err := Parse(strings.TrimSpace(string(b)))
	if err != nil {
		return Default, err
	}
	return l, nil
}

func (p *Preference) Save(l Language) error {
	if _, err := Parse(string(l)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	return errors.Wrap(os.WriteFile(p.Path, []byte(string(l)+"\n"), 0o644), "write language preference")
}
