package tokenizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenizer(t *testing.T, maxSeqLen int) *Tokenizer {
	t.Helper()
	tok, err := Load("testdata", maxSeqLen)
	require.NoError(t, err)
	return tok
}

func TestLoadVocab(t *testing.T) {
	v, err := LoadVocab(filepath.Join("testdata", "vocab.txt"))
	require.NoError(t, err)

	assert.Equal(t, int64(0), v.PadID)
	assert.Equal(t, int64(2), v.UnkID)
	assert.Equal(t, int64(3), v.ClsID)
	assert.Equal(t, int64(4), v.SepID)
	assert.Equal(t, int64(5), v.MaskID)
	assert.Equal(t, int64(14), v.Lookup("happy"))
	assert.Equal(t, v.UnkID, v.Lookup("nope"))
}

func TestNewVocabMissingSpecial(t *testing.T) {
	_, err := NewVocab([]string{"[PAD]", "[CLS]", "[SEP]"})
	assert.ErrorContains(t, err, "[UNK]")
}

func TestNewVocabWithoutMaskFallsBackToUnk(t *testing.T) {
	v, err := NewVocab([]string{"[PAD]", "[UNK]", "[CLS]", "[SEP]"})
	require.NoError(t, err)
	assert.Equal(t, v.UnkID, v.MaskID)
}

func TestEncode(t *testing.T) {
	tok := testTokenizer(t, 0)

	tests := []struct {
		name   string
		text   string
		ids    []int64
		tokens []string
	}{
		{
			name:   "simple sentence keeps casing",
			text:   "I am feeling happy today",
			ids:    []int64{3, 11, 12, 13, 14, 15, 4},
			tokens: []string{"[CLS]", "I", "am", "feeling", "happy", "today", "[SEP]"},
		},
		{
			name:   "empty string",
			text:   "",
			ids:    []int64{3, 4},
			tokens: []string{"[CLS]", "[SEP]"},
		},
		{
			name:   "punctuation split off",
			text:   "So happy!",
			ids:    []int64{3, 16, 14, 6, 4},
			tokens: []string{"[CLS]", "So", "happy", "!", "[SEP]"},
		},
		{
			name:   "continuation pieces",
			text:   "Unbelievable playing",
			ids:    []int64{3, 26, 27, 28, 23, 24, 4},
			tokens: []string{"[CLS]", "Un", "##believ", "##able", "play", "##ing", "[SEP]"},
		},
		{
			name:   "apostrophe split",
			text:   "don't",
			ids:    []int64{3, 21, 7, 22, 4},
			tokens: []string{"[CLS]", "don", "'", "t", "[SEP]"},
		},
		{
			name:   "accents stripped for lookup only",
			text:   "Café",
			ids:    []int64{3, 29, 4},
			tokens: []string{"[CLS]", "Café", "[SEP]"},
		},
		{
			name:   "unknown word",
			text:   "happy zebra",
			ids:    []int64{3, 14, 2, 4},
			tokens: []string{"[CLS]", "happy", "[UNK]", "[SEP]"},
		},
		{
			name:   "control characters and odd whitespace",
			text:   "happy\u0000\ttoday sad",
			ids:    []int64{3, 14, 15, 30, 4},
			tokens: []string{"[CLS]", "happy", "today", "sad", "[SEP]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tok.Encode(tt.text)
			if diff := cmp.Diff(tt.ids, enc.IDs); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.tokens, enc.Tokens); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, enc.Special[0])
			assert.True(t, enc.Special[enc.Len()-1])
			assert.False(t, enc.Truncated)
		})
	}
}

func TestEncodeTruncatesLeadingPortion(t *testing.T) {
	tok := testTokenizer(t, 5)

	enc := tok.Encode("I am feeling happy today")
	assert.Equal(t, []string{"[CLS]", "I", "am", "feeling", "[SEP]"}, enc.Tokens)
	assert.True(t, enc.Truncated)
}

func TestLoadReadsTokenizerConfig(t *testing.T) {
	dir := t.TempDir()
	vocab, err := os.ReadFile(filepath.Join("testdata", "vocab.txt"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.txt"), vocab, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokenizer_config.json"),
		[]byte(`{"do_lower_case": false, "model_max_length": 64}`), 0o600))

	tok, err := Load(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 64, tok.MaxSeqLen())

	// Cased lookup: "Happy" is not in the lowercase test vocabulary.
	enc := tok.Encode("Happy")
	assert.Equal(t, []string{"[CLS]", "[UNK]", "[SEP]"}, enc.Tokens)
}

func TestMask(t *testing.T) {
	tok := testTokenizer(t, 0)
	enc := tok.Encode("so happy today")

	masked := tok.Mask(enc, []bool{false, true, false, true, false})
	assert.Equal(t, []string{"[CLS]", "so", "[MASK]", "today", "[SEP]"}, masked.Tokens)
	assert.Equal(t, []int64{3, 16, 5, 15, 4}, masked.IDs)

	// The source encoding is untouched.
	assert.Equal(t, "happy", enc.Tokens[2])
}

func TestDecode(t *testing.T) {
	tok := testTokenizer(t, 0)

	assert.Equal(t, "Unbelievable playing !", Decode(tok.Encode("Unbelievable playing!")))

	masked := tok.Mask(tok.Encode("so happy"), []bool{false, false, true})
	assert.Equal(t, "[MASK] happy", Decode(masked))
}

func TestPad(t *testing.T) {
	tok := testTokenizer(t, 0)
	batch := Pad([]Encoding{tok.Encode("happy"), tok.Encode("so happy today")}, tok.Vocab().PadID)

	assert.Equal(t, int64(2), batch.BatchSize)
	assert.Equal(t, int64(5), batch.SeqLen)
	assert.Equal(t, []int64{3, 14, 4, 0, 0, 3, 16, 14, 15, 4}, batch.InputIDs)
	assert.Equal(t, []int64{1, 1, 1, 0, 0, 1, 1, 1, 1, 1}, batch.AttentionMask)
	assert.Len(t, batch.TokenTypeIDs, 10)

	assert.Equal(t, Batch{}, Pad(nil, 0))
}

func TestIsSpecial(t *testing.T) {
	for _, tok := range []string{"[CLS]", "[SEP]", "[PAD]", "[MASK]", "<s>", "</s>"} {
		assert.True(t, IsSpecial(tok), tok)
	}
	for _, tok := range []string{"[UNK]", "happy", "##ing", "'"} {
		assert.False(t, IsSpecial(tok), tok)
	}
}

func TestTokenizeDecomposedAccentsKeepSurface(t *testing.T) {
	v, err := NewVocab([]string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]", "cafe", "naive", "happy"})
	require.NoError(t, err)
	tok, err := New(v, DefaultOptions())
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "combining acute", text: "Cafe\u0301", want: []string{"[CLS]", "Caf\u00e9", "[SEP]"}},
		{name: "combining diaeresis", text: "Nai\u0308ve Happy", want: []string{"[CLS]", "Na\u00efve", "Happy", "[SEP]"}},
		{name: "precomposed", text: "Caf\u00e9", want: []string{"[CLS]", "Caf\u00e9", "[SEP]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tok.Encode(tt.text)
			if diff := cmp.Diff(tt.want, enc.Tokens); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			assert.NotContains(t, enc.IDs, v.UnkID)
		})
	}
}
