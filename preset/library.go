package preset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robmorgan/tempo/rhythm"
)

const (
	// SchemaFlat is a single map of preset name to metronomes.
	SchemaFlat = 1

	// SchemaFolders groups presets into named folders.
	SchemaFolders = 2

	CurrentSchema = SchemaFolders

	DefaultFolder = "Default"
)

var (
	ErrUnsupportedSchema = errors.New("unsupported preset schema version")
	ErrPresetNotFound    = errors.New("preset not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrInvalidName       = errors.New("name must not be empty")
)

// Preset is a named set of metronome configurations.
type Preset struct {
	Name       string         `json:"name"`
	Metronomes []rhythm.State `json:"metronomes"`
	SavedAt    time.Time      `json:"savedAt"`
}

// Folder groups presets.
type Folder struct {
	Name    string   `json:"name"`
	Presets []Preset `json:"presets"`
}

// Library is the whole preset collection as it is stored.
type Library struct {
	SchemaVersion int      `json:"schemaVersion"`
	Folders       []Folder `json:"folders"`
}

// NewLibrary returns an empty library with the default folder.
func NewLibrary() *Library {
	return &Library{
		SchemaVersion: CurrentSchema,
		Folders:       []Folder{{Name: DefaultFolder, Presets: []Preset{}}},
	}
}

// FolderNames lists the folders in display order.
func (l *Library) FolderNames() []string {
	out := make([]string, 0, len(l.Folders))
	for _, f := range l.Folders {
		out = append(out, f.Name)
	}
	return out
}

// PresetNames lists the presets of a folder, sorted by name.
func (l *Library) PresetNames(folder string) ([]string, error) {
	f, err := l.folder(folder)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(f.Presets))
	for _, p := range f.Presets {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out, nil
}

// AddFolder creates a folder if it does not exist yet.
func (l *Library) AddFolder(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if _, err := l.folder(name); err == nil {
		return nil
	}
	l.Folders = append(l.Folders, Folder{Name: name, Presets: []Preset{}})
	return nil
}

// DeleteFolder removes a folder and every preset in it.
func (l *Library) DeleteFolder(name string) error {
	for i, f := range l.Folders {
		if f.Name == name {
			l.Folders = append(l.Folders[:i], l.Folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFolderNotFound, name)
}

// Save stores states under folder/name, creating the folder when needed and
// overwriting a preset of the same name.
func (l *Library) Save(folder, name string, states []rhythm.State, at time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if err := l.AddFolder(folder); err != nil {
		return err
	}
	f, _ := l.folder(strings.TrimSpace(folder))

	p := Preset{
		Name:       name,
		Metronomes: append([]rhythm.State(nil), states...),
		SavedAt:    at.UTC(),
	}
	for i := range f.Presets {
		if f.Presets[i].Name == name {
			f.Presets[i] = p
			return nil
		}
	}
	f.Presets = append(f.Presets, p)
	return nil
}

// Load returns the states stored under folder/name.
func (l *Library) Load(folder, name string) ([]rhythm.State, error) {
	f, err := l.folder(folder)
	if err != nil {
		return nil, err
	}
	for _, p := range f.Presets {
		if p.Name == name {
			return append([]rhythm.State(nil), p.Metronomes...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrPresetNotFound, folder, name)
}

// Delete removes folder/name.
func (l *Library) Delete(folder, name string) error {
	f, err := l.folder(folder)
	if err != nil {
		return err
	}
	for i, p := range f.Presets {
		if p.Name == name {
			f.Presets = append(f.Presets[:i], f.Presets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrPresetNotFound, folder, name)
}

func (l *Library) folder(name string) (*Folder, error) {
	for i := range l.Folders {
		if l.Folders[i].Name == name {
			return &l.Folders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, name)
}
