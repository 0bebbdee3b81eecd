package vocab

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defs(v *Vocabulary) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = string(v.At(toke.TokenID(i)))
	}
	return out
}

func TestParsePlain(t *testing.T) {
	v, err := Parse([]byte("a\nb\nc\naa\nbb\n\\20\n\\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "aa", "bb", " ", "\n"}, defs(v))
	_, ok := v.FilterConfig()
	assert.False(t, ok)
	assert.Nil(t, v.Filter())
}

func TestParseDirectives(t *testing.T) {
	v, err := Parse([]byte("#version:1\n#filter:lowercase=true\n\\0a\na\nb"))
	require.NoError(t, err)
	assert.Equal(t, []string{"\n", "a", "b"}, defs(v))
	cfg, ok := v.FilterConfig()
	assert.True(t, ok)
	assert.Equal(t, "lowercase=true", cfg)
	assert.Equal(t, "abc", string(v.Filter().Apply([]byte("ABC"))))
}

func TestParseEmptyFilter(t *testing.T) {
	v, err := Parse([]byte("#version:1\n#filter:\na\nb\n"))
	require.NoError(t, err)
	cfg, ok := v.FilterConfig()
	assert.True(t, ok)
	assert.Equal(t, "", cfg)
	assert.Equal(t, 2, v.Len())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("#version:1\n#merges:3\na\n"))
	assert.True(t, errors.Is(err, toke.ErrVocabSyntax))

	_, err = Parse([]byte("#filter:lowercase=maybe\na\n"))
	assert.True(t, errors.Is(err, toke.ErrFilterSyntax))
}

func TestParseEmptyLineIsDefinition(t *testing.T) {
	v, err := Parse([]byte("a\n\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, defs(v))
}

func TestParseCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < toke.MaxTokens+10; i++ {
		fmt.Fprintf(&sb, "t%d\n", i)
	}
	v, err := Parse([]byte(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, toke.MaxTokens, v.Len())
	_, ok := v.Define([]byte("extra"))
	assert.False(t, ok)
}

func TestEscape(t *testing.T) {
	tests := []struct {
		def  string
		want string
	}{
		{"abc", "abc"},
		{" ", `\20`},
		{"\n", `\0a`},
		{"#", `\23`},
		{`\`, `\5c`},
		{"\x7f\xff", `\7f\ff`},
		{"\\n", `\5cn`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(Escape([]byte(tt.def))))
		assert.Equal(t, tt.def, string(Unescape([]byte(tt.want))))
	}
}

func TestUnescapeLenient(t *testing.T) {
	assert.Equal(t, "\n", string(Unescape([]byte(`\n`))))
	assert.Equal(t, "\xab", string(Unescape([]byte(`\AB`))))
	assert.Equal(t, `\zz`, string(Unescape([]byte(`\zz`))))
	assert.Equal(t, `a\`, string(Unescape([]byte(`a\`))))
	assert.Equal(t, `\4`, string(Unescape([]byte(`\4`))))
}

func TestRoundTrip(t *testing.T) {
	v, err := New("lowercase=true,normalize_tabs=true")
	require.NoError(t, err)
	for _, def := range []string{"a", "\n", " the", "#x", `\`, "", "\x00\xff", "end"} {
		_, ok := v.Define([]byte(def))
		require.True(t, ok)
	}

	parsed, err := Parse(v.Bytes())
	require.NoError(t, err)
	assert.Equal(t, defs(v), defs(parsed))
	cfg, ok := parsed.FilterConfig()
	assert.True(t, ok)
	assert.Equal(t, "lowercase=true,normalize_tabs=true", cfg)
	assert.Equal(t, string(v.Bytes()), string(parsed.Bytes()))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	v, err := New("")
	require.NoError(t, err)
	v.Define([]byte("hello"))
	v.Define([]byte(" "))
	require.NoError(t, v.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", " "}, defs(loaded))

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, toke.ErrFileNotFound))
}

func TestNewRejectsBadFilter(t *testing.T) {
	_, err := New("normalize_lines=yes")
	assert.True(t, errors.Is(err, toke.ErrFilterSyntax))
}

func TestFilterConfigNewline(t *testing.T) {
	_, err := New("x=a\nb=c")
	assert.True(t, errors.Is(err, toke.ErrFilterSyntax))

	v, err := New("lowercase=true")
	require.NoError(t, err)
	_, ok := v.Define([]byte("a"))
	require.True(t, ok)
	assert.True(t, errors.Is(v.SetFilter("lowercase=false\nb"), toke.ErrFilterSyntax))
	cfg, _ := v.FilterConfig()
	assert.Equal(t, "lowercase=true", cfg)

	reparsed, err := Parse(v.Bytes())
	require.NoError(t, err)
	assert.Equal(t, v.Len(), reparsed.Len())
	cfg, ok = reparsed.FilterConfig()
	assert.True(t, ok)
	assert.Equal(t, "lowercase=true", cfg)
}
