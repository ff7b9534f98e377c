package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "staged_street.csv")

	writer := NewCSVWriter(false)
	err := writer.WriteCSV(path,
		[]string{"Crime type", "Count"},
		[][]string{{"Theft", "3"}, {"Burglary", "1"}})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Crime type", "Count"},
		{"Theft", "3"},
		{"Burglary", "1"},
	}, rows)
}

func TestWriteCSVBOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	writer := NewCSVWriter(true)
	require.NoError(t, writer.WriteCSV(path, []string{"Count"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
}

func TestWriteCSVTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	writer := NewCSVWriter(false)
	require.NoError(t, writer.WriteCSV(path, []string{"A"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteCSV(path, []string{"A"}, [][]string{{"9"}}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"9"}}, rows)
}

func TestWriteCSVQuotesEmbeddedCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	writer := NewCSVWriter(false)
	require.NoError(t, writer.WriteCSV(path,
		[]string{"Crime type"},
		[][]string{{"Investigation complete; no suspect identified, archived"}}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Investigation complete; no suspect identified, archived", rows[1][0])
}
