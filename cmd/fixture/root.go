package fixture

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/aggbench/cmd/util"
	"github.com/ValentinKolb/aggbench/lib/fixture"
	"github.com/ValentinKolb/aggbench/lib/generator"
	"github.com/ValentinKolb/aggbench/lib/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FixtureCmd writes a synthetic tree as a fixture file
var FixtureCmd = &cobra.Command{
	Use:   "fixture <file>",
	Short: "Write a synthetic aggregation tree as a fixture file",
	Long: `Write a synthetic aggregation tree as a fixture file. The format is
derived from the file extension (.json, .yaml or .yml); "-" writes JSON to
stdout. Without --width the artificial tree is written, otherwise a
generated tree of the given shape.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	key := "size"
	FixtureCmd.Flags().Int(key, generator.DefaultSize, util.WrapString("Size of the artificial tree"))
	key = "depth"
	FixtureCmd.Flags().Int(key, 2, util.WrapString("Nesting depth of a generated tree"))
	key = "width"
	FixtureCmd.Flags().Int(key, 0, util.WrapString("Entries per bucket of a generated tree. 0 writes the artificial tree"))
	key = "percentiles"
	FixtureCmd.Flags().Int(key, 16, util.WrapString("Percentile counts per metric of a generated tree"))
}

func run(_ *cobra.Command, args []string) error {
	path := args[0]

	format := fixture.FormatJSON
	if path != "-" {
		var err error
		if format, err = fixture.DetectFormat(path); err != nil {
			return err
		}
	}

	data, err := fixture.Marshal(buildTree(), format)
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// buildTree creates the tree selected by the flags
func buildTree() model.AggregationResults {
	if width := viper.GetInt("width"); width > 0 {
		return generator.Generate(generator.Shape{
			Depth:       viper.GetInt("depth"),
			Width:       width,
			Percentiles: viper.GetInt("percentiles"),
		})
	}
	return generator.Artificial(viper.GetInt("size"))
}
