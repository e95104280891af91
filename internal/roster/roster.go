// Package roster loads the participant list from a YAML or JSON file.
//
// A roster is either a mapping with a participants key:
//
//	participants:
//	  - name: Chloé
//	    family: Famille A
//	    gender: female
//
// or a bare list of the same entries.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/rampantspark/giftdraw/internal/santa"
)

// Format identifies the encoding of a roster document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// entry is one participant as written in the file.
type entry struct {
	Name   string `yaml:"name" json:"name"`
	Family string `yaml:"family" json:"family"`
	Gender string `yaml:"gender" json:"gender"`
}

type document struct {
	Participants []entry `yaml:"participants" json:"participants"`
}

// Load reads and parses the roster at path.
//
// Parameters:
//   - path: roster file, .yaml/.yml or .json
//
// Returns the participants in file order, or an error.
func Load(path string) ([]santa.Participant, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a roster document and validates every entry.
//
// Names and families are trimmed and NFC-normalized, so "Chloé" typed
// with a combining accent matches the precomposed form.
func Parse(data []byte, format Format) ([]santa.Participant, error) {
	var entries []entry
	var err error
	switch format {
	case FormatYAML:
		entries, err = decodeYAML(data)
	case FormatJSON:
		entries, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return toParticipants(entries)
}

func decodeYAML(data []byte) ([]entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var entries []entry
		if err := node.Decode(&entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Participants, nil
}

func decodeJSON(data []byte) ([]entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var entries []entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Participants, nil
}

func toParticipants(entries []entry) ([]santa.Participant, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRoster
	}

	participants := make([]santa.Participant, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		name := normalize(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyName, i+1)
		}
		family := normalize(e.Family)
		if family == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFamily, name)
		}
		gender, err := santa.ParseGender(e.Gender)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownGender, name, e.Gender)
		}
		if first, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s (entries %d and %d)", ErrDuplicateName, name, first, i+1)
		}
		seen[name] = i + 1

		participants = append(participants, santa.Participant{
			Name:   name,
			Family: family,
			Gender: gender,
		})
	}
	return participants, nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
