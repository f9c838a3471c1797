package bench

import (
	"fmt"
	"io"
	"strings"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics collects per codec measurements as Prometheus metrics:
//
//	aggbench_serialize_seconds{scenario, codec}        histogram
//	aggbench_deserialize_seconds{scenario, codec}      histogram
//	aggbench_roundtrip_seconds{scenario, codec}        histogram
//	aggbench_serialized_bytes{scenario, codec}         histogram
//	aggbench_runs_total{scenario, codec, state}        counter
//
// Timings and sizes are only recorded for the steps that completed.
type Metrics struct {
	set *metrics.Set
}

// NewMetrics creates an empty metric set.
func NewMetrics() *Metrics {
	return &Metrics{set: metrics.NewSet()}
}

// Observe records row of scenario.
func (m *Metrics) Observe(scenario string, row Row) {
	labels := fmt.Sprintf(`scenario="%s",codec="%s"`, escapeLabel(scenario), escapeLabel(row.Codec))

	m.set.GetOrCreateCounter(fmt.Sprintf(`aggbench_runs_total{%s,state="%s"}`, labels, row.State)).Inc()

	if row.State == StateSerializeFailed {
		return
	}
	m.set.GetOrCreateHistogram(fmt.Sprintf(`aggbench_serialize_seconds{%s}`, labels)).Update(seconds(row.SerializeNs))
	m.set.GetOrCreateHistogram(fmt.Sprintf(`aggbench_serialized_bytes{%s}`, labels)).Update(float64(row.SerializedSize))

	if row.State == StateDeserializeFailed {
		return
	}
	m.set.GetOrCreateHistogram(fmt.Sprintf(`aggbench_deserialize_seconds{%s}`, labels)).Update(seconds(row.DeserializeNs))
	m.set.GetOrCreateHistogram(fmt.Sprintf(`aggbench_roundtrip_seconds{%s}`, labels)).Update(seconds(row.RoundtripNs))
}

// WritePrometheus writes all metrics in Prometheus text format to w.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

func seconds(ns int64) float64 {
	return float64(ns) / 1e9
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// escapeLabel escapes a Prometheus label value
func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}
