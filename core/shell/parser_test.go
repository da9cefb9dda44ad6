package shell

import (
	"strings"
	"testing"

	"github.com/anmitsu/go-shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple command",
			input:    "list",
			expected: []string{"list"},
		},
		{
			name:     "mixed quotes",
			input:    `a "b c" 'd e' f`,
			expected: []string{"a", "b c", "d e", "f"},
		},
		{
			name:     "multiple spaces and tabs",
			input:    "cd  \t  projects ",
			expected: []string{"cd", "projects"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only whitespace",
			input:    "   \t  ",
			expected: []string{},
		},
		{
			name:     "empty quotes are tokens",
			input:    `echo "" ''`,
			expected: []string{"echo", "", ""},
		},
		{
			name:     "single quote inside double quotes",
			input:    `mdir "it's here"`,
			expected: []string{"mdir", "it's here"},
		},
		{
			name:     "double quotes inside single quotes",
			input:    `echo 'say "hi"'`,
			expected: []string{"echo", `say "hi"`},
		},
		{
			name:     "quotes split adjacent text",
			input:    `a"b c"d`,
			expected: []string{"a", "b c", "d"},
		},
		{
			name:     "unterminated double quote is dropped",
			input:    `echo "hello world`,
			expected: []string{"echo", "hello", "world"},
		},
		{
			name:     "unterminated single quote splits the word",
			input:    `it's`,
			expected: []string{"it", "s"},
		},
		{
			name:     "no escapes",
			input:    `echo hello\ world`,
			expected: []string{"echo", `hello\`, "world"},
		},
		{
			name:     "standalone pipe",
			input:    "list | sort",
			expected: []string{"list", "|", "sort"},
		},
		{
			name:     "attached pipe stays in the word",
			input:    "list|sort",
			expected: []string{"list|sort"},
		},
		{
			name:     "vertical tab separates",
			input:    "a\vb\fc",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "quoted pipe",
			input:    `echo "|"`,
			expected: []string{"echo", "|"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input), "input: %q", tt.input)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "cd x", Join([]string{"cd", "x"}))
	assert.Equal(t, "mdir my dir", Join([]string{"mdir", "my dir"}))
	assert.Equal(t, "", Join(nil))
}

var bareWord = rapid.StringMatching(`[a-zA-Z0-9._/^-]{1,8}`)

func TestTokenize_bareWordsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(bareWord, 1, 8).Draw(t, "words")
		sep := rapid.StringMatching(`[ \t]{1,3}`).Draw(t, "sep")

		got := Tokenize(strings.Join(words, sep))
		if !assert.ObjectsAreEqual(words, got) {
			t.Fatalf("Tokenize(%q) = %q", strings.Join(words, sep), got)
		}
	})
}

func TestTokenize_quotedRunsAreAtomic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		interior := rapid.StringMatching(`[a-z ']{0,10}`).Draw(t, "interior")
		prefix := bareWord.Draw(t, "prefix")

		got := Tokenize(prefix + ` "` + interior + `"`)
		if len(got) != 2 || got[0] != prefix || got[1] != interior {
			t.Fatalf("got %q, want [%q %q]", got, prefix, interior)
		}
	})
}

// Well formed input without escapes tokenizes the same as a POSIX shell.
func TestTokenize_matchesShlex(t *testing.T) {
	word := rapid.OneOf(
		rapid.StringMatching(`[a-zA-Z0-9]{1,6}`),
		rapid.Custom(func(t *rapid.T) string {
			return `"` + rapid.StringMatching(`[a-zA-Z0-9 ]{1,6}`).Draw(t, "dq") + `"`
		}),
		rapid.Custom(func(t *rapid.T) string {
			return `'` + rapid.StringMatching(`[a-zA-Z0-9 ]{1,6}`).Draw(t, "sq") + `'`
		}),
	)

	rapid.Check(t, func(t *rapid.T) {
		line := strings.Join(rapid.SliceOfN(word, 1, 6).Draw(t, "words"), " ")

		expected, err := shlex.Split(line, true)
		require.NoError(t, err)

		if got := Tokenize(line); !assert.ObjectsAreEqual(expected, got) {
			t.Fatalf("Tokenize(%q) = %q, shlex = %q", line, got, expected)
		}
	})
}
