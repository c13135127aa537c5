package preset

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/robmorgan/tempo/rhythm"
)

type versionProbe struct {
	SchemaVersion int `json:"schemaVersion"`
}

// flatLibrary is the first storage layout: every preset in one map.
type flatLibrary struct {
	SchemaVersion int                       `json:"schemaVersion"`
	Presets       map[string][]rhythm.State `json:"presets"`
}

// Decode parses a stored library, migrating older layouts to CurrentSchema. The
// layout is chosen by the schemaVersion field alone.
func Decode(data []byte) (*Library, error) {
	var probe versionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding preset library: %w", err)
	}

	switch probe.SchemaVersion {
	case SchemaFlat:
		var flat flatLibrary
		if err := json.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("decoding flat preset library: %w", err)
		}
		return migrateFlat(flat), nil
	case SchemaFolders:
		lib := &Library{}
		if err := json.Unmarshal(data, lib); err != nil {
			return nil, fmt.Errorf("decoding preset library: %w", err)
		}
		if len(lib.Folders) == 0 {
			lib.Folders = NewLibrary().Folders
		}
		return lib, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, probe.SchemaVersion)
	}
}

// Encode serialises the library at CurrentSchema.
func Encode(l *Library) ([]byte, error) {
	out := *l
	out.SchemaVersion = CurrentSchema
	return json.MarshalIndent(out, "", "  ")
}

// migrateFlat moves every flat preset into DefaultFolder, sorted by name.
func migrateFlat(flat flatLibrary) *Library {
	lib := NewLibrary()
	names := make([]string, 0, len(flat.Presets))
	for name := range flat.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lib.Folders[0].Presets = append(lib.Folders[0].Presets, Preset{
			Name:       name,
			Metronomes: flat.Presets[name],
		})
	}
	return lib
}
