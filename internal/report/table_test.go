package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Juz"}
	rows := [][]string{
		{"名前", "1.50"},
		{"a", "12.00"},
	}

	lines := formatTable(headers, rows, map[int]bool{1: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Name   Juz", lines[0])
	assert.Equal(t, "名前  1.50", lines[1])
	assert.Equal(t, "a    12.00", lines[2])
}

func TestFormatTableRaggedRows(t *testing.T) {
	lines := formatTable(nil, [][]string{{"a"}, {"bb", "c"}}, nil)
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0])
	assert.Equal(t, "bb c", lines[1])
	assert.Nil(t, formatTable(nil, nil, nil))
}
