package common

import (
	"fmt"
	"strconv"
	"strings"
)

// BenchConfig holds all configuration parameters of a benchmark run.
type BenchConfig struct {
	// Codecs are the selected codec names, empty means all
	Codecs []string
	// Fixtures are the fixture files, each one is a scenario
	Fixtures []string

	// SyntheticSize is the size of the artificial scenario, 0 disables it
	SyntheticSize int
	// GCBetweenRuns triggers a garbage collection before each measurement
	GCBetweenRuns bool

	// Output settings
	CSVPath     string
	MetricsPath string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *BenchConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	// Codecs
	addSection("Codecs")
	if len(c.Codecs) == 0 {
		addField("Selection", "all")
	} else {
		addField("Selection", strings.Join(c.Codecs, ", "))
	}

	// Scenarios
	addSection("Scenarios")
	if c.SyntheticSize > 0 {
		addField("Synthetic Size", strconv.Itoa(c.SyntheticSize))
	} else {
		addField("Synthetic Size", "disabled")
	}
	for i, fixture := range c.Fixtures {
		addField(fmt.Sprintf("Fixture %d", i), fixture)
	}

	// Measurement
	addSection("Measurement")
	addField("GC Between Runs", strconv.FormatBool(c.GCBetweenRuns))

	// Output
	addSection("Output")
	addField("CSV File", orNone(c.CSVPath))
	addField("Metrics File", orNone(c.MetricsPath))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
