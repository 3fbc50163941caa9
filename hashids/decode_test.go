package hashids

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInvalid(t *testing.T) {
	h := Must(NewWithSalt(""))
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"foreign character", "j$R"},
		{"lottery is a separator", "cR"},
		{"lottery is foreign", "*R"},
		{"multi-byte foreign", "∅contains-a-character-not-in-any-set"},
		{"overflow", "j" + strings.Repeat("yz", 15)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := h.Decode(c.hash)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrInvalidHash), "got %v", err)

			if c.name != "overflow" {
				_, err = h.CountNumbers(c.hash)
				assert.True(t, errors.Is(err, ErrInvalidHash), "count: got %v", err)
			}
		})
	}
}

func TestDecodeErrorOffset(t *testing.T) {
	h := Must(NewWithSalt(""))
	_, err := h.Decode("jR$")

	var he *HashError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, 2, he.Offset)
	assert.Equal(t, byte('$'), he.Char)
	assert.Contains(t, err.Error(), "offset 2")
}

func TestDecodeStopsAtGuard(t *testing.T) {
	h := Must(NewWithMinLength(testSalt, 18))
	hash := h.EncodeOne(1)

	// 末尾 guard 之后的内容不参与解码
	got, err := h.Decode(hash)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, got)

	n, err := h.CountNumbers(hash)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountNumbers(t *testing.T) {
	h := Must(NewWithMinLength(testSalt, 30))
	for _, nums := range [][]uint64{{0}, {1, 2}, {5, 5, 5, 5}, {1, 2, 3, 4, 5, 6, 7, 8, 9, 10}} {
		n, err := h.CountNumbers(h.Encode(nums))
		require.NoError(t, err)
		assert.Equal(t, len(nums), n)
	}
}
