package source

// Format is the encoding of a scenario file, picked from its extension.
type Format string

// Supported scenario file formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// RawScenario is the on-disk shape of a scenario file. Revenue and expenses
// are not read; they are always derived from the dials.
type RawScenario struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	SpendingPct *float64 `json:"spending_pct" yaml:"spending_pct" toml:"spending_pct"`
	HiringCount *int     `json:"hiring_count" yaml:"hiring_count" toml:"hiring_count"`
	PricingPct  *float64 `json:"pricing_pct" yaml:"pricing_pct" toml:"pricing_pct"`
}

// DiscoveredFile represents a scenario file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // file name without extension
	Format Format
}
