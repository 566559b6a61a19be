package main

import (
	"strings"
	"testing"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlaysToAWin(t *testing.T) {
	var out strings.Builder
	in := strings.NewReader("1\n2\n1\n2\n1\n2\n1\nq\n")

	require.NoError(t, run(in, &out, 6, 7))

	text := out.String()
	assert.Contains(t, text, "Yellow, pick a column (1-7)")
	assert.Contains(t, text, "Red, pick a column (1-7)")
	assert.Contains(t, text, "Y R X X X X X\nYellow Wins\n")
	assert.Contains(t, text, "r to play again, q to quit: ")
}

func TestRunReportsBadInput(t *testing.T) {
	var out strings.Builder
	in := strings.NewReader("abc\n0\n8\n\n1\n")

	require.NoError(t, run(in, &out, 6, 7))

	text := out.String()
	assert.Contains(t, text, `"abc" is not a column`)
	assert.Contains(t, text, "error: column out of bounds")
	assert.Contains(t, text, "Red's Turn")
}

func TestRunReset(t *testing.T) {
	var out strings.Builder
	in := strings.NewReader("4\nr\nq\n")

	require.NoError(t, run(in, &out, 4, 4))

	// Once for the opening board, once after the reset.
	assert.Equal(t, 2, strings.Count(out.String(), "Yellow's Turn\n"))
	assert.Equal(t, 1, strings.Count(out.String(), "Red's Turn\n"))
}

func TestRunInvalidDimensions(t *testing.T) {
	err := run(strings.NewReader(""), &strings.Builder{}, 2, 7)
	require.ErrorIs(t, err, domain.ErrInvalidDimensions)
}
