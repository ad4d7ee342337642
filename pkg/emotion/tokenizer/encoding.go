package tokenizer

import "strings"

// Encoding is one tokenized input. IDs, Tokens and Special are aligned.
type Encoding struct {
	IDs       []int64
	Tokens    []string
	Special   []bool
	Truncated bool
}

func (e *Encoding) append(id int64, token string, special bool) {
	e.IDs = append(e.IDs, id)
	e.Tokens = append(e.Tokens, token)
	e.Special = append(e.Special, special)
}

// Len returns the number of positions, specials included.
func (e Encoding) Len() int { return len(e.IDs) }

// Clone returns a deep copy.
func (e Encoding) Clone() Encoding {
	return Encoding{
		IDs:       append([]int64(nil), e.IDs...),
		Tokens:    append([]string(nil), e.Tokens...),
		Special:   append([]bool(nil), e.Special...),
		Truncated: e.Truncated,
	}
}

// Mask returns a copy of enc where every non-special position with
// keep[i] == false is replaced by [MASK]. keep is indexed like enc.
func (t *Tokenizer) Mask(enc Encoding, keep []bool) Encoding {
	out := enc.Clone()
	for i := range out.IDs {
		if out.Special[i] || (i < len(keep) && keep[i]) {
			continue
		}
		out.IDs[i] = t.vocab.MaskID
		out.Tokens[i] = MaskToken
	}
	return out
}

// Decode renders an encoding back to text for text-only backends.
// Continuation pieces are glued to the previous token; boundary specials
// are dropped while [MASK] and [UNK] stay literal.
func Decode(enc Encoding) string {
	var b strings.Builder
	for i, tok := range enc.Tokens {
		if enc.Special[i] {
			continue
		}
		if rest, ok := strings.CutPrefix(tok, "##"); ok && b.Len() > 0 {
			b.WriteString(rest)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

// Batch is a padded group of encodings in flat row-major slices
// [BatchSize * SeqLen], ready for a tensor runtime.
type Batch struct {
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
	BatchSize     int64
	SeqLen        int64
}

// Pad packs encodings into a Batch padded to the longest sequence.
func Pad(encs []Encoding, padID int64) Batch {
	if len(encs) == 0 {
		return Batch{}
	}
	seqLen := 0
	for _, e := range encs {
		if e.Len() > seqLen {
			seqLen = e.Len()
		}
	}

	total := len(encs) * seqLen
	b := Batch{
		InputIDs:      make([]int64, total),
		AttentionMask: make([]int64, total),
		TokenTypeIDs:  make([]int64, total),
		BatchSize:     int64(len(encs)),
		SeqLen:        int64(seqLen),
	}
	for i, e := range encs {
		off := i * seqLen
		for j := 0; j < seqLen; j++ {
			if j < e.Len() {
				b.InputIDs[off+j] = e.IDs[j]
				b.AttentionMask[off+j] = 1
			} else {
				b.InputIDs[off+j] = padID
			}
		}
	}
	return b
}

var boundaryTokens = map[string]struct{}{
	ClsToken:  {},
	SepToken:  {},
	PadToken:  {},
	MaskToken: {},
	"<s>":     {},
	"</s>":    {},
	"<pad>":   {},
	"<mask>":  {},
}

// IsSpecial reports whether token is a control marker that carries no word
// content (sequence boundaries, padding and mask placeholders).
func IsSpecial(token string) bool {
	_, ok := boundaryTokens[token]
	return ok
}
