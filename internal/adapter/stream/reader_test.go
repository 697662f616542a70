package stream

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractAll(t *testing.T, input string) [][]string {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var out [][]string
	for {
		b, err := r.Extract(context.Background())
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, b.Lines)
	}
}

func TestReaderExtract(t *testing.T) {
	t.Run("single terminated message", func(t *testing.T) {
		msgs := extractAll(t, "XXAA 18231 99252 70537\n99985 25015 10010\nNNNN\n")
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{
			"XXAA 18231 99252 70537",
			"99985 25015 10010",
			"NNNN",
		}, msgs[0])
	})

	t.Run("blank padding between messages is dropped", func(t *testing.T) {
		msgs := extractAll(t, "XXAA 18231 99252 70537\nNNNN\n\n\n97779 1430 1 253 050 2 0857 240 12 24015\nNNNN\n")
		require.Len(t, msgs, 2)
		assert.Equal(t, "XXAA 18231 99252 70537", msgs[0][0])
		assert.Equal(t, "97779 1430 1 253 050 2 0857 240 12 24015", msgs[1][0])
	})

	t.Run("lost terminator closes on the next start", func(t *testing.T) {
		msgs := extractAll(t, "XXAA 18231 99252 70537\n99985 25015 10010\nSUPPL\nTIME 1012 1047\nNNNN\n")
		require.Len(t, msgs, 2)
		assert.Equal(t, []string{
			"XXAA 18231 99252 70537",
			"99985 25015 10010",
		}, msgs[0])
		assert.Equal(t, "SUPPL", msgs[1][0])
	})

	t.Run("part B stays in its message", func(t *testing.T) {
		msgs := extractAll(t, "XXAA 18231 99252 70537\n99985 25015 10010\nXXBB 18231 99252 70537\n00985 25015\nNNNN\n")
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "XXBB 18231 99252 70537")
	})

	t.Run("unterminated final message is returned", func(t *testing.T) {
		msgs := extractAll(t, "XXAA 18231 99252 70537\n99985 25015 10010\n")
		require.Len(t, msgs, 1)
		assert.Len(t, msgs[0], 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, extractAll(t, ""))
	})

	t.Run("ordinals increment", func(t *testing.T) {
		r := NewReader(strings.NewReader("XXAA 18231 99252 70537\nNNNN\nSUPPL\nNNNN\n"))
		b1, err := r.Extract(context.Background())
		require.NoError(t, err)
		b2, err := r.Extract(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, b1.Ordinal)
		assert.Equal(t, 2, b2.Ordinal)
	})
}
