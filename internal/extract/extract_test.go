package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		block  string
		want   string
	}{
		{
			name:   "first sibling",
			source: "outer = { A: { x: 1 }, B: { y: 2 } }",
			block:  "A",
			want:   "x: 1",
		},
		{
			name:   "second sibling",
			source: "outer = { A: { x: 1 }, B: { y: 2 } }",
			block:  "B",
			want:   "y: 2",
		},
		{
			name:   "nested braces are preserved",
			source: "A: { x: { nested: 1 } }",
			block:  "A",
			want:   "x: { nested: 1 }",
		},
		{
			name:   "empty block",
			source: "A: {}",
			block:  "A",
			want:   "",
		},
		{
			name:   "whitespace only block",
			source: "A: {\n\n   \n}",
			block:  "A",
			want:   "",
		},
		{
			name:   "no whitespace around separator",
			source: "{A:{x:1}}",
			block:  "A",
			want:   "x:1",
		},
		{
			name:   "line breaks around separator",
			source: "A\n  :\n  {\n    x: 1\n  }",
			block:  "A",
			want:   "x: 1",
		},
		{
			name:   "quoted key",
			source: `{ "A": { x: 1 }, 'B': { y: 2 } }`,
			block:  "B",
			want:   "y: 2",
		},
		{
			name:   "name must be a whole identifier",
			source: "{ XA: { wrong: 1 }, A_B: { wrong: 2 }, A: { right: 3 } }",
			block:  "A",
			want:   "right: 3",
		},
		{
			name:   "braces in single quoted string",
			source: "A: { s: '}', t: 1 }",
			block:  "A",
			want:   "s: '}', t: 1",
		},
		{
			name:   "braces in double quoted string with escaped quote",
			source: `A: { s: "a \" } b", t: 1 }`,
			block:  "A",
			want:   `s: "a \" } b", t: 1`,
		},
		{
			name:   "braces in template literal text",
			source: "A: { s: `{{ }`, t: 1 }",
			block:  "A",
			want:   "s: `{{ }`, t: 1",
		},
		{
			name:   "template substitution is code",
			source: "A: { s: `x ${ {k: 1}.k } }`, t: 1 }",
			block:  "A",
			want:   "s: `x ${ {k: 1}.k } }`, t: 1",
		},
		{
			name:   "braces and quotes in comments",
			source: "A: {\n  // don't close } here\n  /* { */ x: 1\n}",
			block:  "A",
			want:   "// don't close } here\n  /* { */ x: 1",
		},
		{
			name:   "name inside a string is not a match",
			source: "{ s: 'A: { fake }', A: { real: 1 } }",
			block:  "A",
			want:   "real: 1",
		},
		{
			name:   "non-ASCII content",
			source: "INTJ: {\n    name: '建筑师',\n    traits: ['独立', '理性']\n  }",
			block:  "INTJ",
			want:   "name: '建筑师',\n    traits: ['独立', '理性']",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Extract(tc.source, tc.block)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtract_NotFound(t *testing.T) {
	testCases := map[string]string{
		"missing block":        "outer = { A: { x: 1 }, B: { y: 2 } }",
		"name without brace":   "C: 1, D: { C }",
		"name only in string":  "{ s: 'C: {}' }",
		"name only in comment": "{ // C: {\n }",
		"empty source":         "",
	}
	for name, source := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(source, "C")
			require.Error(t, err)

			var notFound *NotFoundError
			require.True(t, errors.As(err, &notFound), "expected NotFoundError, got %T", err)
			assert.Equal(t, "C", notFound.Block)
			assert.Contains(t, err.Error(), `"C"`)
		})
	}

	t.Run("empty name", func(t *testing.T) {
		_, err := Extract("A: {}", "")
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestExtract_Unbalanced(t *testing.T) {
	source := "A: { x: { y: 1 }"
	_, err := Extract(source, "A")
	require.Error(t, err)

	var unbalanced *UnbalancedBracesError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "A", unbalanced.Block)
	assert.Equal(t, 3, unbalanced.Offset)
	assert.Equal(t, 1, unbalanced.Depth)
}

func TestExtract_UnbalancedByQuotedBrace(t *testing.T) {
	// The only closing brace is inside a string, so the block never closes.
	_, err := Extract("A: { s: '}' ", "A")
	var unbalanced *UnbalancedBracesError
	assert.ErrorAs(t, err, &unbalanced)
}

func TestExtractWith_Naive(t *testing.T) {
	source := "A: { s: '}', t: 1 }"

	naive, err := ExtractWith(source, "A", Options{Naive: true})
	require.NoError(t, err)
	assert.Equal(t, "s: '", naive, "naive scan stops at the quoted brace")

	aware, err := Extract(source, "A")
	require.NoError(t, err)
	assert.Equal(t, "s: '}', t: 1", aware)
}

func TestExtractWith_DeclarationSeparator(t *testing.T) {
	source := "// types\nexport const TYPE_DESCRIPTIONS = {\n  INTJ: { name: 'a' },\n}\n\nexport const OTHER = {}\n"

	body, err := ExtractWith(source, "TYPE_DESCRIPTIONS", Options{Separator: '='})
	require.NoError(t, err)
	assert.Equal(t, "INTJ: { name: 'a' },", body)

	_, err = Extract(source, "TYPE_DESCRIPTIONS")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound, "':' separator must not match a declaration")
}

func TestExtractWith_TopLevel(t *testing.T) {
	body := "INTJ: { pair: { INTP: { note: 'nested' } } }, INTP: { name: 'b' }"

	testCases := []struct {
		name     string
		source   string
		block    string
		opts     Options
		want     string
		notFound bool
	}{
		{
			name:   "nested key shadows a later sibling without the option",
			source: body,
			block:  "INTP",
			opts:   Options{},
			want:   "note: 'nested'",
		},
		{
			name:   "top level match skips the nested key",
			source: body,
			block:  "INTP",
			opts:   Options{TopLevel: true},
			want:   "name: 'b'",
		},
		{
			name:   "quoted nested key is skipped",
			source: "A: { 'B': { x: 1 } }, 'B': { y: 2 }",
			block:  "B",
			opts:   Options{TopLevel: true},
			want:   "y: 2",
		},
		{
			name:     "name present only when nested",
			source:   "A: { B: { x: 1 } }",
			block:    "B",
			opts:     Options{TopLevel: true},
			notFound: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			got, err := ExtractWith(tc.source, tc.block, tc.opts)

			// Assert
			if tc.notFound {
				var notFound *NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, tc.block, notFound.Block)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtract_AllBlocksBalanced(t *testing.T) {
	names := []string{"INTJ", "INTP", "ENTJ", "ENTP", "INFJ", "INFP", "ENFJ", "ENFP"}

	var sb strings.Builder
	sb.WriteString("export const TYPE_DESCRIPTIONS = {\n")
	for i, name := range names {
		fmt.Fprintf(&sb, "  %s: {\n    name: 'n%d',\n    meta: { rank: %d, tags: ['{', '}'] },\n    list: [{ a: 1 }, { b: 2 }]\n  },\n", name, i, i)
	}
	sb.WriteString("}\n")
	source := sb.String()

	for _, name := range names {
		got, err := Extract(source, name)
		require.NoError(t, err, name)
		require.NotEmpty(t, got, name)

		code := stripStrings(got)
		assert.Equal(t, strings.Count(code, "{"), strings.Count(code, "}"), "block %s is not balanced", name)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	source := "outer = { A: { x: { y: [1, 2] }, s: '}{' }, B: {} }"
	source0 := strings.Clone(source)

	first, err := Extract(source, "A")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Extract(source, "A")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, source0, source, "source must not be mutated")
}

func TestTopLevelKeys(t *testing.T) {
	body := `
		INTJ: { name: 'a', nested: { INTP: {} } },
		// ENTJ: {},
		"INFJ": { s: 'x, y: {' },
		ENFP: { t: ` + "`${ {a: 1}.a }`" + ` },
		INTJ: {},
		...spread,
	`
	keys := TopLevelKeys(body, Options{})
	assert.Equal(t, []string{"INTJ", "INFJ", "ENFP", "INTJ"}, keys)
}

// stripStrings blanks out quoted string contents so brace counting only sees code.
func stripStrings(s string) string {
	var sb strings.Builder
	l := newLexer(s, 0, false)
	for !l.done() {
		i, code := l.next()
		if code {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func TestLocate(t *testing.T) {
	source := "x = { A: {\n  y: 1\n} }"
	start, end, err := Locate(source, "A", Options{})
	require.NoError(t, err)
	assert.Equal(t, "\n  y: 1\n", source[start:end])
	assert.Equal(t, byte('}'), source[end])

	_, _, err = Locate("A: { {", "A", Options{})
	var unbalanced *UnbalancedBracesError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "A", unbalanced.Block, "Locate names the block in the error")
	assert.Equal(t, 2, unbalanced.Depth)
}

func TestClosing(t *testing.T) {
	source := "f({ a: '}', b: { c: 1 } }, 2)"
	end, err := Closing(source, 2, Options{})
	require.NoError(t, err)
	assert.Equal(t, len(source)-5, end)

	_, err = Closing(source, 0, Options{})
	assert.ErrorContains(t, err, "no opening brace at offset 0")
}
