package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rentcar/internal/domain"
)

var defaultLocations = []domain.Location{
	{LocationID: 1, LocationName: "Nairobi Airport", Address: "Jomo Kenyatta International Airport, Nairobi", ContactNumber: "+254700123456"},
	{LocationID: 2, LocationName: "Nairobi CBD", Address: "Kenyatta Avenue, Nairobi CBD", ContactNumber: "+254700123457"},
	{LocationID: 3, LocationName: "Westlands", Address: "Westlands Shopping Mall, Nairobi", ContactNumber: "+254700123458"},
	{LocationID: 4, LocationName: "Karen", Address: "Karen Shopping Centre, Nairobi", ContactNumber: "+254700123459"},
}

type locationsFile struct {
	Locations []domain.Location `yaml:"locations"`
}

// LoadLocations reads the pickup/return catalogue. An empty path yields the
// built-in list.
func LoadLocations(path string) ([]domain.Location, error) {
	if path == "" {
		out := make([]domain.Location, len(defaultLocations))
		copy(out, defaultLocations)
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	return ParseLocations(data)
}

func ParseLocations(data []byte) ([]domain.Location, error) {
	var f locationsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse locations file: %w", err)
	}
	if len(f.Locations) == 0 {
		return nil, fmt.Errorf("locations file has no locations")
	}

	seen := make(map[int64]bool, len(f.Locations))
	for _, l := range f.Locations {
		if l.LocationID <= 0 {
			return nil, fmt.Errorf("location %q: id must be positive", l.LocationName)
		}
		if seen[l.LocationID] {
			return nil, fmt.Errorf("duplicate location id %d", l.LocationID)
		}
		if l.LocationName == "" {
			return nil, fmt.Errorf("location %d: name is required", l.LocationID)
		}
		seen[l.LocationID] = true
	}
	return f.Locations, nil
}
