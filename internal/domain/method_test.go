package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"ACB", "FIFO", "LIFO", "HIFO"} {
		m, err := ParseMethod(s)

		require.NoError(t, err, s)
		assert.Equal(t, Method(s), m)
	}
}

func TestParseMethod_RejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "fifo", "AVCO", "SPECID"} {
		_, err := ParseMethod(s)

		require.Error(t, err, s)
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
	}
}
