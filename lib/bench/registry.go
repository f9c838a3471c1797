package bench

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ValentinKolb/aggbench/lib/codec"
	"github.com/ValentinKolb/aggbench/lib/compress"
	"github.com/ValentinKolb/aggbench/lib/model"
)

// DefaultEntries returns all codecs for aggregation trees in reporting
// order: text codecs, the object codec, the binary codecs and the
// compressed variants of the hand-written binary codec.
func DefaultEntries() []Entry[model.AggregationResults] {
	type tree = model.AggregationResults

	entries := []Entry[tree]{
		Register(codec.NewJSONCodec[tree]()),
		Register(codec.NewSonicCodec[tree]()),
		Register(codec.NewYAMLCodec[tree]()),
		Register(codec.NewYAMLNodeCodec[tree]()),
		Register(codec.NewGOBCodec[tree]()),
		Register(codec.NewMsgPackCodec[tree]()),
		Register(codec.NewCBORCodec[tree]()),
		Register(codec.NewBinaryCodec[tree]()),
	}
	for _, alg := range compress.Algorithms {
		c, err := compress.New(alg)
		if err != nil {
			panic(fmt.Sprintf("failed to create %s compressor: %v", alg, err))
		}
		entries = append(entries, Register(codec.NewCompressedCodec(codec.NewBinaryCodec[tree](), c)))
	}
	return entries
}

// Select returns the entries named in names, case-insensitive, in the order
// of entries. An empty selection returns all entries. Unknown names are an
// error.
func Select[T Value[T]](entries []Entry[T], names []string) ([]Entry[T], error) {
	if len(names) == 0 {
		return entries, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			wanted[name] = false
		}
	}

	var out []Entry[T]
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if _, ok := wanted[key]; ok {
			wanted[key] = true
			out = append(out, e)
		}
	}

	var unknown []string
	for name, found := range wanted {
		if !found {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown codecs: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// Names returns the names of entries.
func Names[T Value[T]](entries []Entry[T]) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
