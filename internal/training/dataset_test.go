package training

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := `text,label
"Verify your account now","phishing"
"Meeting at 2pm tomorrow","legitimate"
`
	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.True(t, raw.HasColumn(ColumnText))
	assert.True(t, raw.HasColumn(ColumnLabel))
	require.Len(t, raw.Examples, 2)
	assert.Equal(t, "Verify your account now", raw.Examples[0].Text)
	assert.Equal(t, "phishing", raw.Examples[0].Label)
}

func TestReadCSVExtraColumnsIgnored(t *testing.T) {
	input := `id,text,label,source
1,"hello there friend","legitimate",import
`
	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, raw.Examples, 1)
	assert.Equal(t, "hello there friend", raw.Examples[0].Text)
	assert.Equal(t, "legitimate", raw.Examples[0].Label)
}

func TestReadCSVMissingColumnPreservedForValidation(t *testing.T) {
	input := `text,category
"some message","phishing"
`
	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	// Loading never judges the header; the pipeline's Validate step does.
	assert.True(t, raw.HasColumn(ColumnText))
	assert.False(t, raw.HasColumn(ColumnLabel))
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}
