package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashids.local/hashids"
)

func TestHashidsCodecMatchesCore(t *testing.T) {
	c, err := Build(Profile{Kind: KindHashids, Salt: "this is my salt", Alphabet: hashids.DefaultAlphabet})
	require.NoError(t, err)

	hash, err := c.Encode([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "laHquq", hash)

	numbers, err := c.Decode(hash)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, numbers)

	_, err = c.Encode(nil)
	assert.ErrorIs(t, err, ErrEmptyNumbers)
}

func TestHashidsCodecRejectsNonCanonical(t *testing.T) {
	c, err := Build(Profile{Kind: KindHashids, Salt: "this is my salt", Alphabet: hashids.DefaultAlphabet, MinLength: 8})
	require.NoError(t, err)
	hash, err := c.Encode([]uint64{1})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(hash), 8)

	// 去掉一侧的填充后，核心解码可能仍然成功，但重新编码对不上
	_, err = c.Decode(hash[1:])
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = c.Decode("")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashidsCodecHex(t *testing.T) {
	c, err := Build(Profile{Kind: KindHashids, Salt: "this is my salt", Alphabet: hashids.DefaultAlphabet})
	require.NoError(t, err)
	hc, ok := c.(HexCodec)
	require.True(t, ok)

	hash, err := hc.EncodeHex("DEADBEEF")
	require.NoError(t, err)
	hex, err := hc.DecodeHex(hash)
	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", hex)

	_, err = hc.EncodeHex("xyz")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestSqidsCodecRoundTrip(t *testing.T) {
	c, err := Build(Profile{Kind: KindSqids, Salt: "orders salt", Alphabet: hashids.DefaultAlphabet, MinLength: 10})
	require.NoError(t, err)
	_, isHex := c.(HexCodec)
	assert.False(t, isHex)

	for _, numbers := range [][]uint64{{0}, {1, 2, 3}, {18446744073709551615}, {42, 0, 7}} {
		hash, err := c.Encode(numbers)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(hash), 10)
		got, err := c.Decode(hash)
		require.NoError(t, err)
		assert.Equal(t, numbers, got)
	}

	_, err = c.Decode("")
	assert.ErrorIs(t, err, ErrInvalidHash)
	_, err = c.Decode("!!!")
	assert.ErrorIs(t, err, ErrInvalidHash)
	_, err = c.Encode(nil)
	assert.ErrorIs(t, err, ErrEmptyNumbers)
}

func TestSqidsSaltChangesOutput(t *testing.T) {
	a, err := Build(Profile{Kind: KindSqids, Salt: "salt a", Alphabet: hashids.DefaultAlphabet})
	require.NoError(t, err)
	b, err := Build(Profile{Kind: KindSqids, Salt: "salt b", Alphabet: hashids.DefaultAlphabet})
	require.NoError(t, err)

	ha, err := a.Encode([]uint64{12345})
	require.NoError(t, err)
	hb, err := b.Encode([]uint64{12345})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestPermuteAlphabet(t *testing.T) {
	p, err := permuteAlphabet(hashids.DefaultAlphabet, "salt")
	require.NoError(t, err)
	assert.Len(t, p, len(hashids.DefaultAlphabet))
	assert.ElementsMatch(t, []byte(hashids.DefaultAlphabet), []byte(p))
	assert.NotEqual(t, hashids.DefaultAlphabet, p)

	again, err := permuteAlphabet(hashids.DefaultAlphabet, "salt")
	require.NoError(t, err)
	assert.Equal(t, p, again)

	same, err := permuteAlphabet("abc", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", same)

	_, err = permuteAlphabet("a", "salt")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(Profile{Kind: "rot13", Alphabet: hashids.DefaultAlphabet})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
