package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/aggbench/lib/generator"
	"github.com/ValentinKolb/aggbench/lib/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T, name string) model.AggregationResults {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	format, err := DetectFormat(path)
	require.NoError(t, err)
	tree, err := Parse(data, format)
	require.NoError(t, err)
	return tree
}

// TestParseJSONFixture tests parsing of the JSON testdata fixture.
func TestParseJSONFixture(t *testing.T) {
	tree := loadTestdata(t, "histogram_terms.json")

	assert.Equal(t, []string{"price_stats", "latency"}, tree.Metrics.Keys)
	assert.Equal(t, []string{"price_histogram", "category"}, tree.Buckets.Keys)

	stats, _ := tree.Metrics.Get("price_stats")
	require.Equal(t, model.MetricKindStats, stats.Kind())
	assert.Equal(t, model.Stats{Count: 3, Sum: 42.5, Min: 1.5, Max: 30}, *stats.Stats)

	hist, _ := tree.Buckets.Get("price_histogram")
	require.Equal(t, model.BucketKindHistogramVec, hist.Kind())
	require.NotNil(t, hist.HistogramVec.ColumnType)
	assert.Equal(t, model.ColumnTypeF64, *hist.HistogramVec.ColumnType)
	require.Len(t, hist.HistogramVec.Buckets, 2)

	// absent vs empty survives parsing
	first := hist.HistogramVec.Buckets[0].SubAggregation
	assert.Nil(t, first.Metrics)
	second := hist.HistogramVec.Buckets[1].SubAggregation
	require.NotNil(t, second.Metrics)
	assert.Equal(t, 0, second.Metrics.Len())

	byHour, _ := first.Buckets.Get("by_hour")
	require.Equal(t, model.BucketKindHistogramKeyed, byHour.Kind())
	assert.Equal(t, model.ColumnTypeI64, *byHour.HistogramKeyed.ColumnType)
	assert.Len(t, byHour.HistogramKeyed.Buckets, 2)
	assert.Contains(t, byHour.HistogramKeyed.Buckets, uint64(30))

	category, _ := tree.Buckets.Get("category")
	require.Equal(t, model.BucketKindTerms, category.Kind())
	assert.Len(t, category.Terms.Entries, 2)
	assert.Equal(t, uint64(5), category.Terms.SumOtherDocCount)
	assert.Equal(t, uint64(1), category.Terms.DocCountErrorUpperBound)
}

// TestJSONAndYAMLFixturesAgree tests that the JSON and YAML testdata fixtures
// hold the same tree.
func TestJSONAndYAMLFixturesAgree(t *testing.T) {
	fromJSON := loadTestdata(t, "histogram_terms.json")
	fromYAML := loadTestdata(t, "histogram_terms.yaml")
	require.NoError(t, model.Verify(fromJSON, fromYAML))
}

// TestMarshalParseRoundTrip tests that marshaled trees parse back in both
// formats.
func TestMarshalParseRoundTrip(t *testing.T) {
	trees := map[string]model.AggregationResults{
		"artificial": generator.Artificial(25),
		"generated":  generator.Generate(generator.Shape{Depth: 2, Width: 3, Percentiles: 4}),
		"fixture":    loadTestdata(t, "histogram_terms.json"),
	}
	for name, tree := range trees {
		for _, format := range []Format{FormatJSON, FormatYAML} {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				data, err := Marshal(tree, format)
				require.NoError(t, err)
				got, err := Parse(data, format)
				require.NoError(t, err)
				require.NoError(t, model.Verify(tree, got))
			})
		}
	}
}

// TestParseRejects tests that invalid or ambiguous fixture documents are
// rejected.
func TestParseRejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"unknown json field", FormatJSON, `{"metrics": null, "buckets": null, "extra": 1}`},
		{"unknown yaml field", FormatYAML, "metrics: null\nbuckets: null\nextra: 1\n"},
		{"unknown column type", FormatJSON, `{"buckets": {"values": [{"HistogramVec": {"column_type": "F32", "buckets": []}}], "keys": ["h"]}}`},
		{"duplicate name", FormatJSON, `{"metrics": {"values": [{"Stats": {}}, {"Stats": {}}], "keys": ["a", "a"]}}`},
		{"empty union", FormatJSON, `{"metrics": {"values": [{}], "keys": ["a"]}}`},
		{"two variants", FormatYAML, "metrics:\n  values:\n    - {Stats: {}, Percentiles: {buckets: []}}\n  keys: [a]\n"},
		{"names and values differ", FormatJSON, `{"metrics": {"values": [], "keys": ["a"]}}`},
		{"empty yaml", FormatYAML, ""},
		{"malformed json", FormatJSON, `{"metrics": `},
		{"trailing json", FormatJSON, `{} {}`},
		{"trailing json brace", FormatJSON, `{"metrics": null, "buckets": null}}`},
		{"trailing json bracket", FormatJSON, "{}\n]"},
		{"second yaml document", FormatYAML, "metrics: null\n---\nbuckets: null\n"},
		{"broken second yaml document", FormatYAML, "metrics: null\n---\n: [unclosed\n"},
		{"unknown format", Format("toml"), `a = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

// TestParseAcceptsSingleDocument tests that whitespace and a leading document
// marker are accepted.
func TestParseAcceptsSingleDocument(t *testing.T) {
	_, err := Parse([]byte("{}\n  \n"), FormatJSON)
	require.NoError(t, err)

	_, err = Parse([]byte("---\nmetrics: null\n"), FormatYAML)
	require.NoError(t, err)
}

// TestDetectFormat tests format detection from file extensions.
func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":           FormatJSON,
		"dir/b.yaml":       FormatYAML,
		"dir/c.YML":        FormatYAML,
		"/abs/d.test.json": FormatJSON,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := DetectFormat("noext")
	assert.Error(t, err)
	_, err = DetectFormat("a.toml")
	assert.Error(t, err)
}

// TestScenarioName tests the short scenario name of a fixture path.
func TestScenarioName(t *testing.T) {
	assert.Equal(t, "histogram_terms", ScenarioName("testdata/histogram_terms.json"))
	assert.Equal(t, "x.y", ScenarioName("x.y.yaml"))
}

// TestScenarioNames tests that colliding fixture names fall back to longer
// distinct names.
func TestScenarioNames(t *testing.T) {
	names, err := ScenarioNames([]string{"a/terms.json", "b/range.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"terms", "range"}, names)

	names, err = ScenarioNames([]string{"a/terms.json", "a/terms.yaml", "b/range.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"terms.json", "terms.yaml", "range"}, names)

	names, err = ScenarioNames([]string{"a/data.json", "b/data.json", "c/other.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/data.json", "b/data.json", "other"}, names)

	names, err = ScenarioNames([]string{"x/Artificial.json"}, "Artificial")
	require.NoError(t, err)
	assert.Equal(t, []string{"Artificial.json"}, names)

	_, err = ScenarioNames([]string{"a/data.json", "./a/data.json"})
	assert.EqualError(t, err, `fixtures a/data.json and ./a/data.json map to the same scenario "a/data.json"`)

	_, err = ScenarioNames([]string{"Artificial"}, "Artificial")
	assert.EqualError(t, err, `fixture Artificial maps to the reserved scenario "Artificial"`)
}
