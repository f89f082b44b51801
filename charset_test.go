package ftcharset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharsetNames(t *testing.T) {
	assert.Equal(t, "UTF-8-FT", UTF8FT.String())
	assert.Equal(t, "UTF-16LE-FT", UTF16LEFT.Name())
	assert.Equal(t, "??? (7)", Charset(7).String())
	assert.Equal(t, []Charset{UTF8FT, UTF16LEFT}, Charsets())
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name     string
		expected Charset
		ok       bool
	}{
		{"UTF-8-FT", UTF8FT, true},
		{"utf-8-ft", UTF8FT, true},
		{"UTF-16LE-FT", UTF16LEFT, true},
		{"Utf-16le-Ft", UTF16LEFT, true},
		{"UTF-8", 0, false},
		{"UTF-16LE", 0, false},
		{"", 0, false},
	}

	for i, case_ := range cases {
		t.Run(fmt.Sprintf("%d: %s", i, case_.name), func(t *testing.T) {
			cs, ok := Lookup(case_.name)
			assert.Equal(t, case_.ok, ok)
			if ok {
				assert.Equal(t, case_.expected, cs)
			}
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, UTF8FT.Contains(UTF8FT))
	assert.True(t, UTF16LEFT.Contains(UTF16LEFT))
	assert.False(t, UTF8FT.Contains(UTF16LEFT))
	assert.False(t, UTF16LEFT.Contains(UTF8FT))
}

func TestEngines(t *testing.T) {
	assert.IsType(t, &UTF8Decoder{}, UTF8FT.NewDecoder())
	assert.IsType(t, &UTF8Encoder{}, UTF8FT.NewEncoder())
	assert.IsType(t, &UTF16LEDecoder{}, UTF16LEFT.NewDecoder())
	assert.IsType(t, &UTF16LEEncoder{}, UTF16LEFT.NewEncoder())
	for _, cs := range Charsets() {
		assert.Equal(t, cs, cs.NewDecoder().Charset())
		assert.Equal(t, cs, cs.NewEncoder().Charset())
	}
	assert.Panics(t, func() { Charset(7).NewDecoder() })
	assert.Panics(t, func() { Charset(7).NewEncoder() })
}

func TestRatios(t *testing.T) {
	assert.Equal(t, Ratios{Average: 1.0, Max: 1.0}, UTF8FT.NewDecoder().Ratios())
	assert.Equal(t, Ratios{Average: 1.1, Max: 3.0}, UTF8FT.NewEncoder().Ratios())
	assert.Equal(t, Ratios{Average: 0.5, Max: 1.0}, UTF16LEFT.NewDecoder().Ratios())
	assert.Equal(t, Ratios{Average: 2.0, Max: 2.0}, UTF16LEFT.NewEncoder().Ratios())
}
