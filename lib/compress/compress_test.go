package compress

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestData returns deterministic data of the given compressibility.
func generateTestData(size int, compressible bool) []byte {
	data := make([]byte, size)
	if compressible {
		pattern := []byte(`{"key":10.0,"doc_count":100,"sub_aggregation":{}}`)
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
		return data
	}
	for i := range data {
		data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
	}
	return data
}

func allCompressors(t testing.TB) []ICompressor {
	out := make([]ICompressor, 0, len(Algorithms))
	for _, alg := range Algorithms {
		c, err := New(alg)
		require.NoError(t, err)
		require.Equal(t, string(alg), c.Name())
		out = append(out, c)
	}
	return out
}

// TestNew tests compressor lookup by algorithm name.
func TestNew(t *testing.T) {
	c, err := New("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, "zstd", c.Name())

	_, err = New("brotli")
	assert.Error(t, err)
}

// TestAllCompressors_RoundTrip tests round trips of several sizes and
// compressibilities.
func TestAllCompressors_RoundTrip(t *testing.T) {
	for _, c := range allCompressors(t) {
		for _, size := range []int{1, 100, 4096, 1 << 20} {
			for _, compressible := range []bool{true, false} {
				t.Run(fmt.Sprintf("%s/%d/%v", c.Name(), size, compressible), func(t *testing.T) {
					data := generateTestData(size, compressible)
					compressed, err := c.Compress(data)
					require.NoError(t, err)
					if compressible && size >= 4096 {
						assert.Less(t, len(compressed), len(data))
					}

					got, err := c.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, data, got)
				})
			}
		}
	}
}

// TestAllCompressors_EmptyData tests that empty input round trips to empty
// output.
func TestAllCompressors_EmptyData(t *testing.T) {
	for _, c := range allCompressors(t) {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(nil)
			require.NoError(t, err)
			got, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

// TestAllCompressors_InvalidData tests that truncated and garbage payloads
// fail to decompress.
func TestAllCompressors_InvalidData(t *testing.T) {
	for _, c := range allCompressors(t) {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(generateTestData(8192, true))
			require.NoError(t, err)

			_, err = c.Decompress(compressed[:len(compressed)/2])
			assert.Error(t, err, "truncated payload")

			_, err = c.Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
			assert.Error(t, err, "garbage payload")
		})
	}
}

// TestAllCompressors_ConcurrentUsage tests that compressors are safe for
// concurrent use.
func TestAllCompressors_ConcurrentUsage(t *testing.T) {
	for _, c := range allCompressors(t) {
		t.Run(c.Name(), func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, 16)
			for i := range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					data := generateTestData(1024*(i+1), i%2 == 0)
					compressed, err := c.Compress(data)
					if err != nil {
						errs <- err
						return
					}
					got, err := c.Decompress(compressed)
					if err != nil {
						errs <- err
						return
					}
					if string(got) != string(data) {
						errs <- fmt.Errorf("goroutine %d: round trip mismatch", i)
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}

// TestAllCompressors_ForgedSizeHeader tests that a tiny payload claiming a
// huge decoded size is rejected without allocating that size.
func TestAllCompressors_ForgedSizeHeader(t *testing.T) {
	claimed := uint64(1 << 30)

	lz4Header := binary.AppendUvarint(nil, claimed)
	// S2 stream identifier followed by a compressed chunk of 8 bytes whose
	// block header claims a 1 GiB block
	s2Stream := append([]byte{0xff, 0x06, 0x00, 0x00}, "S2sTwO"...)
	s2Chunk := append([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, binary.AppendUvarint(nil, claimed)...)
	s2Chunk[1] = byte(len(s2Chunk) - 4)
	// zstd frame header: single segment, 4 byte frame content size
	zstdFrame := binary.LittleEndian.AppendUint32([]byte{0x28, 0xb5, 0x2f, 0xfd, 0xa0}, uint32(claimed))

	forged := map[Algorithm][]byte{
		AlgorithmLZ4:  append(lz4Header, 0x10, 0x41, 0x41, 0x41),
		AlgorithmS2:   append(s2Stream, s2Chunk...),
		AlgorithmZstd: append(zstdFrame, 0x01, 0x00, 0x00),
	}

	for _, c := range allCompressors(t) {
		t.Run(c.Name(), func(t *testing.T) {
			payload, ok := forged[Algorithm(c.Name())]
			require.True(t, ok)
			// warm pooled encoders and decoders
			_, err := c.Decompress(payload)
			require.Error(t, err)

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			_, err = c.Decompress(payload)
			runtime.ReadMemStats(&after)

			require.Error(t, err)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20), "bytes allocated for a %d byte payload", len(payload))
		})
	}
}

// TestZstd_ContentSizeBeyondInputBound tests that a zstd frame claiming more
// content than its blocks can encode is rejected before preallocation.
func TestZstd_ContentSizeBeyondInputBound(t *testing.T) {
	c := NewZstdCompressor()
	frame := binary.LittleEndian.AppendUint32([]byte{0x28, 0xb5, 0x2f, 0xfd, 0xa0}, 32<<20)
	frame = append(frame, 0x01, 0x00, 0x00)

	_, err := c.Decompress(frame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input bound")
}

// TestLZ4_SizeBeyondBlockBound tests that an LZ4 size prefix below the cap
// but above what the block can expand to is rejected.
func TestLZ4_SizeBeyondBlockBound(t *testing.T) {
	c := NewLZ4Compressor()
	payload := append(binary.AppendUvarint(nil, 1<<20), 0x10, 0x41, 0x41, 0x41)

	_, err := c.Decompress(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block bound")
}

// BenchmarkAllCompressors measures compression and decompression of a
// compressible megabyte.
func BenchmarkAllCompressors(b *testing.B) {
	data := generateTestData(1<<20, true)
	for _, c := range allCompressors(b) {
		compressed, err := c.Compress(data)
		require.NoError(b, err)

		b.Run(c.Name()+"/Compress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(c.Name()+"/Decompress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
