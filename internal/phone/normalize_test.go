package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New("62", "0")

	t.Run("same number, different spellings", func(t *testing.T) {
		spellings := []string{
			"081234567890",
			"6281234567890",
			"+62 812-3456-7890",
			"0812 3456 7890",
			"6281234567890@c.us",
		}
		for _, s := range spellings {
			assert.Equal(t, "6281234567890", n.Normalize(s), "input %q", s)
		}
	})

	t.Run("international passthrough", func(t *testing.T) {
		assert.Equal(t, "14155550100", n.Normalize("+1 (415) 555-0100"))
	})

	t.Run("empty and junk", func(t *testing.T) {
		assert.Equal(t, "", n.Normalize(""))
		assert.Equal(t, "", n.Normalize("abc!!"))
	})

	t.Run("defaults", func(t *testing.T) {
		d := New("", "")
		assert.Equal(t, "62811", d.Normalize("0811"))
	})
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "62811", Digits("62-811"))
	assert.Equal(t, "", Digits("invalid!!"))
}
