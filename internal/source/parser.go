// Package source discovers and parses scenario files.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

// ParseResult holds the output of parsing a single scenario file.
type ParseResult struct {
	Scenario model.NamedScenario
	Err      error
}

// ParseFile reads a scenario file and derives its revenue and expenses.
// Dials missing from the file take the dashboard defaults.
func ParseFile(df DiscoveredFile) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	ns, err := Parse(data, df.Format)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%s: %w", df.Path, err)}
	}
	if ns.Name == "" {
		ns.Name = df.Name
	}
	ns.FilePath = df.Path
	return ParseResult{Scenario: ns}
}

// LoadFile parses a single scenario file, choosing the format by extension.
func LoadFile(path string) (model.NamedScenario, error) {
	df, ok := discover(path)
	if !ok {
		return model.NamedScenario{}, fmt.Errorf("%s: unsupported scenario file (want .yaml, .yml, .json or .toml)", path)
	}
	res := ParseFile(df)
	return res.Scenario, res.Err
}

// Parse decodes a scenario document in the given format.
func Parse(data []byte, format Format) (model.NamedScenario, error) {
	var raw RawScenario
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return model.NamedScenario{}, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return model.NamedScenario{}, fmt.Errorf("parsing json: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return model.NamedScenario{}, fmt.Errorf("parsing toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return model.NamedScenario{}, fmt.Errorf("parsing toml: unknown key %q", undecoded[0].String())
		}
	default:
		return model.NamedScenario{}, fmt.Errorf("unsupported scenario format %q", format)
	}

	s := forecast.DefaultScenario()
	if raw.SpendingPct != nil {
		s.SpendingPct = *raw.SpendingPct
	}
	if raw.HiringCount != nil {
		s.HiringCount = *raw.HiringCount
	}
	if raw.PricingPct != nil {
		s.PricingPct = *raw.PricingPct
	}
	s = forecast.Recompute(s)
	if err := forecast.Validate(s); err != nil {
		return model.NamedScenario{}, err
	}
	return model.NamedScenario{Name: raw.Name, Scenario: s}, nil
}
