package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/aggbench/lib/bench"
	"github.com/ValentinKolb/aggbench/lib/common"
	"github.com/ValentinKolb/aggbench/lib/model"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and binds environment variables with the
// AGGBENCH_ prefix, e.g. AGGBENCH_LOG_LEVEL for --log-level
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("aggbench")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLogging configures all loggers with the configured log level
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// SplitList splits a comma separated flag value and drops empty items
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetBenchConfig reads the benchmark configuration from viper
func GetBenchConfig() *common.BenchConfig {
	return &common.BenchConfig{
		Codecs:        SplitList(viper.GetString("codecs")),
		Fixtures:      SplitList(viper.GetString("fixtures")),
		SyntheticSize: viper.GetInt("size"),
		GCBetweenRuns: viper.GetBool("gc"),
		CSVPath:       viper.GetString("csv"),
		MetricsPath:   viper.GetString("metrics-out"),
		LogLevel:      viper.GetString("log-level"),
	}
}

// GetEntries returns the selected codecs in reporting order
func GetEntries(conf *common.BenchConfig) ([]bench.Entry[model.AggregationResults], error) {
	entries, err := bench.Select(bench.DefaultEntries(), conf.Codecs)
	if err != nil {
		return nil, fmt.Errorf("invalid codec selection: %w", err)
	}
	return entries, nil
}
