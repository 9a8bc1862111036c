// ABOUTME: Contract for the AI service that proposes contact field updates from meetings
// ABOUTME: Provides a canned generator and a generator backed by exported JSON files
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/crmbridge/models"
)

// Meeting identifies the meeting suggestions are generated for.
type Meeting struct {
	ID    string
	Title string
}

// Generator proposes contact field updates for a meeting.
type Generator interface {
	Generate(ctx context.Context, meeting Meeting) ([]models.RawSuggestion, error)
}

// StaticGenerator returns the same suggestions for every meeting.
type StaticGenerator struct {
	Suggestions []models.RawSuggestion
}

func (g StaticGenerator) Generate(_ context.Context, _ Meeting) ([]models.RawSuggestion, error) {
	out := make([]models.RawSuggestion, len(g.Suggestions))
	copy(out, g.Suggestions)
	return out, nil
}

// FileGenerator reads suggestions exported by the AI service. Path is either a
// single JSON file or a directory holding one <meeting id>.json per meeting.
type FileGenerator struct {
	Path string
}

func (g FileGenerator) Generate(_ context.Context, meeting Meeting) ([]models.RawSuggestion, error) {
	path := g.Path
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat suggestions path: %w", err)
	}
	if info.IsDir() {
		if meeting.ID == "" {
			return nil, fmt.Errorf("meeting id is required when reading suggestions from a directory")
		}
		path = filepath.Join(path, meeting.ID+".json")
	}
	return LoadRawSuggestions(path)
}

// LoadRawSuggestions decodes a JSON array of suggestions, or an object with a
// "suggestions" array.
func LoadRawSuggestions(path string) ([]models.RawSuggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions file: %w", err)
	}

	var list []models.RawSuggestion
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Suggestions []models.RawSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions file: %w", err)
	}
	return wrapped.Suggestions, nil
}
