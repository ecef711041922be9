package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderReadsTrimmedLines(t *testing.T) {
	r := NewLineReader(strings.NewReader("  first line  \nsecond\n"))
	ctx := context.Background()

	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first line", line)

	line, err = r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestLineReaderFinalLineWithoutNewline(t *testing.T) {
	r := NewLineReader(strings.NewReader("quit"))

	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "quit", line)
}

func TestLineReaderEOF(t *testing.T) {
	r := NewLineReader(strings.NewReader(""))

	_, err := r.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderContextCancellation(t *testing.T) {
	// A reader that never produces input.
	r := NewLineReader(blockingReader{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

// blockingReader blocks forever, standing in for an idle terminal.
type blockingReader struct{}

func (blockingReader) Read(_ []byte) (int, error) {
	select {}
}
