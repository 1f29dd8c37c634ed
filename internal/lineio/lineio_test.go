package lineio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader("first\nsecond\r\n\nlast"))

	tests := []struct {
		want string
		line int
	}{
		{"first", 1},
		{"second", 2},
		{"", 3},
		{"last", 4},
	}

	for _, tt := range tests {
		got, err := r.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.line, r.Line())
	}

	_, err := r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, r.Line())
}

func TestReadEmptyInput(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(""))
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, r.Line())
}

func TestReadLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ACGT", 100)
	// A buffer smaller than the line forces ReadLine to return prefixes.
	r := NewSize(strings.NewReader(long+"\nnext\n"), 16)

	got, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, long, got)

	got, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", got)
}

func TestNextReusesBuffer(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader("AAAA\nCC\n"))
	first, err := r.Next()
	require.NoError(t, err)
	kept := string(first)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", kept)
	assert.Equal(t, []byte("CC"), second)
}

func BenchmarkNext(b *testing.B) {
	var buf bytes.Buffer
	line := "20\t14370\trs6054257\tG\tA\t29\tPASS\tNS=3;DP=14;AF=0.5;DB;H2\tGT:GQ:DP:HQ\t0|0:48:1:51,51\t1|0:48:8:51,51\n"
	for i := 0; i < 10000; i++ {
		buf.WriteString(line)
	}
	input := buf.Bytes()

	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		r := New(bytes.NewReader(input))
		for {
			if _, err := r.Next(); err != nil {
				break
			}
		}
	}
}
