package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildBinary compiles the command once so benchmarks measure the codec, not the compiler
func buildBinary(b *testing.B) string {
	b.Helper()
	bin := filepath.Join(b.TempDir(), "gotoon")
	out, err := exec.Command("go", "build", "-o", bin, "../..").CombinedOutput()
	require.NoError(b, err, "build failed: %s", string(out))
	return bin
}

// benchmarkCommand writes data to a file and runs one command on it b.N times
func benchmarkCommand(b *testing.B, bin, name string, data any, args ...string) {
	b.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(b, err)

	jsonFile := filepath.Join(b.TempDir(), name+".json")
	require.NoError(b, os.WriteFile(jsonFile, jsonData, 0o644))
	b.SetBytes(int64(len(jsonData)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := exec.Command(bin, append(args, "-i", jsonFile)...).CombinedOutput()
		require.NoError(b, err, "CLI command failed: %s", string(out))
	}
}

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(rng *rand.Rand, depth int, width int) map[string]any {
	if depth <= 0 {
		return map[string]any{
			"leaf_value": "data",
			"count":      rng.Intn(100),
			"enabled":    rng.Intn(2) == 1,
		}
	}

	result := make(map[string]any)
	for i := 0; i < width; i++ {
		result[fmt.Sprintf("nested_%d_%d", depth, i)] = generateNestedJSON(rng, depth-1, width)
	}
	return result
}

// generateWideJSON creates a JSON object with many fields at the same level
func generateWideJSON(fieldCount int) map[string]any {
	result := make(map[string]any)

	for i := 0; i < fieldCount; i++ {
		// Mix different types of fields
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("tags_field_%d", i)] = []string{"a", "b", fmt.Sprint(i)}
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]any{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}

	return result
}

// BenchmarkDeepNesting benchmarks encoding deeply nested documents
func BenchmarkDeepNesting(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}
	bin := buildBinary(b)

	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},   // Moderate nesting
		{"Depth5Width2", 5, 2},   // Deep nesting
		{"Depth2Width10", 2, 10}, // Wide but shallow
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			data := generateNestedJSON(rand.New(rand.NewSource(42)), depth.depth, depth.width)
			benchmarkCommand(b, bin, depth.name, data, "encode")
		})
	}
}

// BenchmarkFlattenAlways benchmarks encoding nested documents as path keys
func BenchmarkFlattenAlways(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}
	bin := buildBinary(b)

	data := generateNestedJSON(rand.New(rand.NewSource(42)), 4, 3)
	benchmarkCommand(b, bin, "flatten", data, "encode", "--flatten", "always")
}

// BenchmarkWideStructures benchmarks encoding objects with many fields
func BenchmarkWideStructures(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}
	bin := buildBinary(b)

	widths := []struct {
		name       string
		fieldCount int
	}{
		{"Fields10", 10},
		{"Fields100", 100},
		{"Fields1000", 1000},
	}

	for _, width := range widths {
		b.Run(width.name, func(b *testing.B) {
			benchmarkCommand(b, bin, width.name, generateWideJSON(width.fieldCount), "encode")
		})
	}
}

// BenchmarkTabularArrays benchmarks encoding, verifying and analysing uniform rows
func BenchmarkTabularArrays(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}
	bin := buildBinary(b)

	sizes := []struct {
		name      string
		arraySize int
	}{
		{"Array100", 100},
		{"Array1000", 1000},
		{"Array5000", 5000},
	}

	for _, size := range sizes {
		rng := rand.New(rand.NewSource(42))
		array := make([]map[string]any, size.arraySize)
		for i := 0; i < size.arraySize; i++ {
			array[i] = map[string]any{
				"id":       i,
				"name":     fmt.Sprintf("Item %d", i),
				"value":    float64(rng.Intn(10000)) / 100,
				"active":   i%2 == 0,
				"category": fmt.Sprintf("Category %d", i%5),
			}
		}

		for _, command := range []string{"encode", "verify", "stats"} {
			b.Run(size.name+"/"+command, func(b *testing.B) {
				benchmarkCommand(b, bin, size.name, array, command)
			})
		}
	}
}
