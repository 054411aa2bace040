package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/internal/parser"
	"github.com/mcncl/gotoon/toon"
)

func TestAnalyze_TabularDocument(t *testing.T) {
	jsonInput := `{"users": [{"id": 1, "name": "Ada"}, {"id": 2, "name": "Bob"}], "tags": ["a", "b"]}`
	doc, err := parser.ParseString(jsonInput, parser.Options{Source: "users.json"})
	require.NoError(t, err)

	stats, err := NewAnalyzer().Analyze(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Depth)
	assert.Equal(t, 3, stats.Objects)
	assert.Equal(t, 2, stats.Arrays)
	assert.Equal(t, 6, stats.Leaves)
	assert.Equal(t, map[toon.ArrayKind]int{toon.ArrayTabular: 1, toon.ArrayOfPrimitives: 1}, stats.ArrayKinds)
	assert.True(t, stats.Nested)

	encoded, err := toon.Encode(doc.Root)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), stats.TOONBytes)
	assert.Equal(t, len(`{"users":[{"id":1,"name":"Ada"},{"id":2,"name":"Bob"}],"tags":["a","b"]}`), stats.JSONBytes)
	assert.Less(t, stats.TOONTokens, stats.JSONTokens)
	assert.Greater(t, stats.TokenSavings(), 0.0)
	assert.Equal(t, Digest(encoded), stats.Digest)
}

func TestAnalyze_EncodeOptionsChangeDigest(t *testing.T) {
	doc, err := parser.ParseString(`{"tags": ["a", "b", "c"]}`, parser.Options{})
	require.NoError(t, err)

	comma, err := NewAnalyzer().Analyze(doc)
	require.NoError(t, err)
	pipe, err := NewAnalyzerWithOptions(toon.EncodeOptions{Delimiter: toon.Pipe}).Analyze(doc)
	require.NoError(t, err)

	assert.NotEqual(t, comma.Digest, pipe.Digest)
	assert.Equal(t, comma.JSONBytes, pipe.JSONBytes)
}

func TestAnalyze_PrimitiveRoot(t *testing.T) {
	stats, err := NewAnalyzer().Analyze(models.Document{Root: toon.String("hello")})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Depth)
	assert.Equal(t, 1, stats.Leaves)
	assert.Zero(t, stats.Objects)
	assert.Empty(t, stats.ArrayKinds)
	assert.False(t, stats.Nested)
}

func TestAnalyze_EmptyContainers(t *testing.T) {
	doc, err := parser.ParseString(`{"a": [], "b": {}}`, parser.Options{})
	require.NoError(t, err)

	stats, err := NewAnalyzer().Analyze(doc)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Depth)
	assert.Equal(t, 0, stats.Leaves)
	assert.Equal(t, map[toon.ArrayKind]int{toon.ArrayEmpty: 1}, stats.ArrayKinds)
}

func TestAnalyze_NoRoot(t *testing.T) {
	_, err := NewAnalyzer().Analyze(models.Document{})
	assert.Error(t, err)
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{`a: 1, "b"`, 7},
		{`{"k":[1,2]}`, 11},
		{"users [2]{id,name};", 10},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", Digest(""))
	assert.Len(t, Digest("a: 1"), 64)
}

func TestStats_Report(t *testing.T) {
	stats := &Stats{
		Source:     "data.yaml",
		Format:     models.FormatYAML,
		Depth:      2,
		Objects:    1,
		Arrays:     2,
		Leaves:     1500,
		ArrayKinds: map[toon.ArrayKind]int{toon.ArrayTabular: 1, toon.ArrayOfPrimitives: 1},
		JSONBytes:  2000,
		TOONBytes:  1000,
		JSONTokens: 400,
		TOONTokens: 300,
		Digest:     "abc",
	}

	report := stats.Report()
	assert.Contains(t, report, "source:        data.yaml (yaml)\n")
	assert.Contains(t, report, "1,500 leaves, 1 objects, 2 arrays")
	assert.Contains(t, report, "primitives=1 tabular=1")
	assert.Contains(t, report, "json:          2.0 kB, 400 tokens\n")
	assert.Contains(t, report, "toon:          1.0 kB, 300 tokens\n")
	assert.Contains(t, report, "token savings: 25.0%\n")
	assert.Contains(t, report, "blake3:        abc\n")
}
