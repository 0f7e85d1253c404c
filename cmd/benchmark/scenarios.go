package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type scenario struct {
	Name           string  `toml:"name"`            // friendly name for the test, should be unique
	Width          int     `toml:"width"`           // width of dependency graph to construct
	TotalLayers    int     `toml:"layers"`          // depth of dependency graph to construct
	StaticFraction float64 `toml:"static_fraction"` // fraction of nodes that always read all their sources
	Sources        int     `toml:"sources"`         // sources read by each node
	ReadFraction   float64 `toml:"read_fraction"`   // fraction of the last layer read after every write
	Iterations     int     `toml:"iterations"`
	ExpectedSum    float64 `toml:"expected_sum"`   // sum of the read leaves at the end, 0 skips the check
	ExpectedCount  int64   `toml:"expected_count"` // memo executions over one run, 0 skips the check
}

type scenarioFile struct {
	Scenarios []scenario `toml:"scenario"`
}

var defaultScenarios = []scenario{
	{
		Name:           "simple component",
		Width:          10,
		StaticFraction: 1,
		Sources:        2,
		TotalLayers:    5,
		ReadFraction:   0.2,
		Iterations:     600000,
		ExpectedSum:    19199968,
		ExpectedCount:  3480000,
	},
	{
		Name:           "dynamic component",
		Width:          10,
		TotalLayers:    10,
		StaticFraction: 0.75,
		Sources:        6,
		ReadFraction:   0.2,
		Iterations:     15000,
		ExpectedSum:    302310782860,
		ExpectedCount:  1155000,
	},
	{
		Name:           "large web app",
		Width:          1000,
		TotalLayers:    12,
		StaticFraction: 0.95,
		Sources:        4,
		ReadFraction:   1,
		Iterations:     7000,
		ExpectedSum:    29355933696000,
		ExpectedCount:  1463000,
	},
	{
		Name:           "wide dense",
		Width:          1000,
		TotalLayers:    5,
		StaticFraction: 1,
		Sources:        25,
		ReadFraction:   1,
		Iterations:     3000,
		ExpectedSum:    1171484375000,
		ExpectedCount:  732000,
	},
	{
		Name:           "deep",
		Width:          5,
		TotalLayers:    500,
		StaticFraction: 1,
		Sources:        3,
		ReadFraction:   1,
		Iterations:     500,
		ExpectedSum:    3.0239642676898464e241,
		ExpectedCount:  1246500,
	},
	{
		Name:           "very dynamic",
		Width:          100,
		TotalLayers:    15,
		StaticFraction: 0.5,
		Sources:        6,
		ReadFraction:   1,
		Iterations:     2000,
		ExpectedSum:    15664996402790400,
		ExpectedCount:  1078000,
	},
}

// loadScenarios reads [[scenario]] tables from a TOML file. An empty path
// returns the built-in set.
func loadScenarios(path string) ([]scenario, error) {
	if path == "" {
		return defaultScenarios, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file scenarioFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("%s: no [[scenario]] tables", path)
	}

	for i, sc := range file.Scenarios {
		if err := sc.validate(); err != nil {
			return nil, fmt.Errorf("%s: scenario %d: %w", path, i, err)
		}
	}
	return file.Scenarios, nil
}

func (sc scenario) validate() error {
	switch {
	case sc.Name == "":
		return fmt.Errorf("missing name")
	case sc.Width < 1:
		return fmt.Errorf("%q: width must be positive", sc.Name)
	case sc.TotalLayers < 2:
		return fmt.Errorf("%q: needs at least 2 layers", sc.Name)
	case sc.Sources < 1:
		return fmt.Errorf("%q: sources must be positive", sc.Name)
	case sc.Sources < 2 && sc.StaticFraction < 1:
		return fmt.Errorf("%q: dynamic nodes need at least 2 sources", sc.Name)
	case sc.ReadFraction < 0 || sc.ReadFraction > 1:
		return fmt.Errorf("%q: read_fraction must be within [0, 1]", sc.Name)
	case sc.StaticFraction < 0 || sc.StaticFraction > 1:
		return fmt.Errorf("%q: static_fraction must be within [0, 1]", sc.Name)
	case sc.Iterations < 1:
		return fmt.Errorf("%q: iterations must be positive", sc.Name)
	}
	return nil
}
