package hashids

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle(t *testing.T) {
	cases := []struct {
		subject, salt, want string
	}{
		{"abcdefghij", "salt", "iajecbhdgf"},
		// 0x80 以上的字节按有符号数参与运算
		{"abcdefghij", "\xff\x80z", "gehicdbjaf"},
		{"abcdefghij", "", "abcdefghij"},
		{"a", "salt", "a"},
		{"", "salt", ""},
	}
	for _, c := range cases {
		b := []byte(c.subject)
		shuffle(b, []byte(c.salt))
		assert.Equal(t, c.want, string(b), "shuffle(%q, %q)", c.subject, c.salt)
	}
}

func TestPartitionDefault(t *testing.T) {
	h := Must(New(Options{}))
	assert.Equal(t, "gjklmnopqrvwxyzABDEGJKLMNOPQRVWXYZ1234567890", h.Alphabet())
	assert.Equal(t, "cfhistuCFHISTU", h.Separators())
	assert.Equal(t, "abde", h.Guards())
	assert.Equal(t, 0, h.MinLength())

	h = Must(NewWithSalt(testSalt))
	assert.Equal(t, "5N6y2rljDQak4xgzn8ZR1oKYLmJpEbVq3OBv9WwXPMe7", h.Alphabet())
	assert.Equal(t, "UHuhtcITCsFifS", h.Separators())
	assert.Equal(t, "AdG0", h.Guards())
}

func TestPartitionDisjoint(t *testing.T) {
	alphabets := []string{
		DefaultAlphabet,
		"ABCDEFGhijklmn34567890-",
		"cfhistuCFHISTU+-",
		"0123456789abcdef",
		"abcdefghijklmnopqrstuvwxyz",
		DefaultAlphabet + DefaultAlphabet,
	}
	for _, a := range alphabets {
		for _, salt := range []string{"", testSalt, "\xff\xfe"} {
			h, err := New(Options{Salt: salt, Alphabet: a})
			require.NoError(t, err, "alphabet %q", a)

			seen := map[rune]int{}
			for _, part := range []string{h.Alphabet(), h.Separators(), h.Guards()} {
				require.NotEmpty(t, part)
				for _, c := range part {
					seen[c]++
				}
			}
			uniq := map[rune]bool{}
			for _, c := range a {
				uniq[c] = true
			}
			assert.Len(t, seen, len(uniq), "alphabet %q", a)
			for c, n := range seen {
				assert.Equal(t, 1, n, "char %q appears in more than one set", c)
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want error
	}{
		{"too short", Options{Alphabet: "abcdefghijklmno"}, ErrAlphabetTooShort},
		{"duplicates do not count", Options{Alphabet: "aabbccddeeffgghhiijjkkllmmnnoo"}, ErrAlphabetTooShort},
		{"length checked before space", Options{Alphabet: "abcdefghijklmn "}, ErrAlphabetTooShort},
		{"space", Options{Alphabet: "abcdefghijklmnop "}, ErrAlphabetHasSpace},
		{"tab", Options{Alphabet: "abcdefghijklmnop\t"}, ErrAlphabetHasSpace},
		{"separators swallow alphabet", Options{Alphabet: "abcdefghijklmnop", Separators: "abcdefghijklmnop"}, ErrInvalidSeparators},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, err := New(c.opts)
			assert.Nil(t, h)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
}

func TestCustomSeparators(t *testing.T) {
	h, err := New(Options{Salt: testSalt, Separators: "xyzXYZ"})
	require.NoError(t, err)
	for _, c := range h.Separators() {
		assert.False(t, strings.ContainsRune(h.Alphabet(), c))
	}

	nums := []uint64{7, 0, 1 << 40}
	got, err := h.Decode(h.Encode(nums))
	require.NoError(t, err)
	assert.Equal(t, nums, got)
}

func TestNegativeMinLength(t *testing.T) {
	h := Must(NewWithMinLength("", -5))
	assert.Equal(t, 0, h.MinLength())
	assert.Equal(t, "jR", h.EncodeOne(1))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() {
		Must(New(Options{Alphabet: "abc"}))
	})
}

func TestFingerprint(t *testing.T) {
	a := Must(NewWithSalt(testSalt))
	b := Must(NewWithSalt(testSalt))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	assert.NotEqual(t, a.Fingerprint(), Must(NewWithSalt("other")).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), Must(NewWithMinLength(testSalt, 8)).Fingerprint())
}
