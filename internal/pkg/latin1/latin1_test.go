package latin1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransliterate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Jose", "Jose"},
		{"José Conceição", "Jose Conceicao"},
		{"MARIA APARECIDA DA SILVA", "MARIA APARECIDA DA SILVA"},
		{"Antônio Gonçalves Júnior", "Antonio Goncalves Junior"},
		{"Müller", "Muller"},
		{"Weiß", "Weiss"},
		{"3ª Avenida, 2º andar", "3a Avenida, 2o andar"},
		// No decomposition for these, but Latin-1 holds them as-is.
		{"Bjørn Dalgaard", "Bjørn Dalgaard"},
		{"Æbeltoft", "Æbeltoft"},
		{"", ""},
	}
	for _, c := range cases {
		got, err := Transliterate(c.input)
		require.NoError(t, err, "Transliterate(%q)", c.input)
		assert.Equal(t, c.want, got, "Transliterate(%q)", c.input)
	}
}

func TestTransliterateRejectsUnmappable(t *testing.T) {
	for _, s := range []string{"山田太郎", "Иван", "emoji 🏦"} {
		_, err := Transliterate(s)
		assert.Error(t, err, "Transliterate(%q)", s)
	}
}

func TestEncode(t *testing.T) {
	out, err := Encode("ABC 123")
	require.NoError(t, err)
	assert.Equal(t, []byte("ABC 123"), out)
}

func TestEncodeProducesSingleByteCharacters(t *testing.T) {
	// Latin-1 characters beyond ASCII occupy two bytes in UTF-8 but
	// exactly one in the encoded output.
	out, err := Encode("Ç")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC7}, out)

	out, err = Encode("BJØRN")
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, byte(0xD8), out[2])
}
