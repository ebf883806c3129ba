// Package marker persists the per-mod install record.
//
// One marker file lives inside each mod's destination subfolder, so the
// destination tree is self-describing: the full installed-mod inventory can
// be reconstructed by re-scanning markers alone, without a central database.
// The file is plain TOML so any external collaborator can read it without
// invoking this engine.
package marker

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Filename is the marker file name inside a mod's destination subfolder.
const Filename = ".modinstall.toml"

// Addon is one nested install event appended to an existing mod.
type Addon struct {
	Name        string    `toml:"name,omitempty"`
	Files       []string  `toml:"files"`
	Version     string    `toml:"version,omitempty"`
	URL         string    `toml:"url,omitempty"`
	InstalledAt time.Time `toml:"installed_at"`
}

// Marker is the persistent per-installed-mod record. It is created on first
// install, mutated on update or add-on, and never silently deleted.
type Marker struct {
	Name        string    `toml:"name"`
	Files       []string  `toml:"files"`
	Version     string    `toml:"version,omitempty"`
	URL         string    `toml:"url,omitempty"`
	Protected   bool      `toml:"protected"`
	Addons      []Addon   `toml:"addons,omitempty"`
	InstalledAt time.Time `toml:"installed_at"`
	UpdatedAt   time.Time `toml:"updated_at"`
}

// AllFiles returns the union of root-install and add-on relative paths,
// preserving first-seen order.
func (m *Marker) AllFiles() []string {
	seen := make(map[string]bool, len(m.Files))
	out := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, a := range m.Addons {
		for _, f := range a.Files {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Installed pairs a marker with the destination subfolder it was found in.
type Installed struct {
	Dir    string
	Marker *Marker
}

// Store reads and writes markers through a types.FS.
type Store struct {
	fs types.FS
}

// NewStore creates a marker store over the given filesystem.
func NewStore(fs types.FS) *Store {
	return &Store{fs: fs}
}

// Load reads the marker inside modDir. It returns (nil, nil) when the
// directory carries no marker; that is the normal first-install case.
func (s *Store) Load(modDir string) (*Marker, error) {
	data, err := s.fs.ReadFile(filepath.Join(modDir, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot read marker").
			WithDetail("dir", modDir)
	}

	var m Marker
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot parse marker").
			WithDetail("dir", modDir)
	}
	return &m, nil
}

// Write persists the marker atomically: the document is written to a
// temporary file inside modDir and renamed into place.
func (s *Store) Write(modDir string, m *Marker) error {
	logger := logging.GetLogger("marker")

	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrMarkerWriteFailed, "cannot encode marker").
			WithDetail("dir", modDir)
	}

	tmpPath := filepath.Join(modDir, Filename+".tmp")
	finalPath := filepath.Join(modDir, Filename)

	if err := s.fs.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrMarkerWriteFailed, "cannot write marker").
			WithDetail("dir", modDir)
	}
	if err := s.fs.Rename(tmpPath, finalPath); err != nil {
		_ = s.fs.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrMarkerWriteFailed, "cannot move marker into place").
			WithDetail("dir", modDir)
	}

	logger.Debug().Str("dir", modDir).Str("mod", m.Name).Int("files", len(m.Files)).Msg("Marker written")
	return nil
}

// Scan walks the destination root's immediate subfolders and reconstructs
// the installed-mod list from markers alone. This is the authoritative
// recovery path after loss of any higher-level cache; unreadable markers
// are reported and skipped rather than aborting the scan.
func (s *Store) Scan(destRoot string) ([]Installed, error) {
	logger := logging.GetLogger("marker")

	infos, err := s.fs.ReadDir(destRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot read destination root").
			WithDetail("root", destRoot)
	}

	var out []Installed
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		dir := filepath.Join(destRoot, info.Name())
		m, err := s.Load(dir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("Skipping unreadable marker")
			continue
		}
		if m == nil {
			continue
		}
		out = append(out, Installed{Dir: dir, Marker: m})
	}

	logger.Debug().Str("root", destRoot).Int("mods", len(out)).Msg("Marker scan complete")
	return out, nil
}
