package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelimiterRune(t *testing.T) {
	d, err := delimiterRune(";")
	require.NoError(t, err)
	require.Equal(t, ';', d)

	// multi-byte characters are one rune, not one byte
	d, err = delimiterRune("¦")
	require.NoError(t, err)
	require.Equal(t, '¦', d)

	_, err = delimiterRune(";;")
	require.Error(t, err)
	_, err = delimiterRune("\xff")
	require.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	require.Equal(t, "jsonl", formatOf("data.jsonl"))
	require.Equal(t, "jsonl", formatOf("data.ndjson.gz"))
	require.Equal(t, "parquet", formatOf("data.parquet"))
	require.Equal(t, "csv", formatOf("data.csv.gz"))
	require.Equal(t, "csv", formatOf("-"))
}
