package json_test

import (
	"testing"

	"github.com/fwojciec/hq/json"
	"github.com/stretchr/testify/assert"
)

func TestCompactor_Compact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "repairs raw newline inside string",
			input: "{\"k\":  \"v \n w\"}\n",
			want:  `{"k":"v \n w"}`,
		},
		{
			name:  "removes structural whitespace",
			input: "{\n  \"a\": [1, 2.50, true, null],\n  \"b\": \"x  y\"\n}\n",
			want:  `{"a":[1,2.50,true,null],"b":"x  y"}`,
		},
		{
			name:  "does not escape markup characters",
			input: `{"h": "<b>&</b>"}`,
			want:  `{"h":"<b>&</b>"}`,
		},
		{
			name:  "sorts object keys",
			input: `{"b": 1, "a": 2}`,
			want:  `{"a":2,"b":1}`,
		},
		{
			name:  "scalar value",
			input: "  42\n",
			want:  "42",
		},
		{
			name:  "strips whitespace after tags",
			input: "<div>\n  <p>x</p>\n</div>",
			want:  "<div><p>x</p></div>",
		},
		{
			name:  "strips trailing newline after last tag",
			input: "<div>\n  <p>x</p>\n</div>\n",
			want:  "<div><p>x</p></div>",
		},
		{
			name:  "keeps whitespace before tags inside text",
			input: "<p>a  <b>b</b></p>\n",
			want:  "<p>a  <b>b</b></p>",
		},
		{
			name:  "multiple JSON values fall back to markup compaction",
			input: "{}\n{}\n",
			want:  "{}\n{}\n",
		},
		{
			name:  "plain text loses leading whitespace only",
			input: "  hello  world\n",
			want:  "hello  world\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := json.NewCompactor()

			assert.Equal(t, tt.want, c.Compact(tt.input))
		})
	}
}

func TestCompactor_Compact_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"{\"k\":  \"v \n w\",\n \"n\": [1,  2]}",
		"<div>\n  <p>x</p>\n</div>\n",
		"<ul>\n<li> a </li>\n</ul>",
	}

	for _, input := range inputs {
		c := json.NewCompactor()
		once := c.Compact(input)

		assert.Equal(t, once, c.Compact(once), "input %q", input)
	}
}

func TestRepair(t *testing.T) {
	t.Parallel()

	t.Run("escapes newline tab and carriage return inside strings", func(t *testing.T) {
		t.Parallel()

		got := json.Repair("{\"k\":\"a\nb\tc\rd\"}")

		assert.Equal(t, `{"k":"a\nb\tc\rd"}`, got)
	})

	t.Run("drops other control characters inside strings", func(t *testing.T) {
		t.Parallel()

		got := json.Repair("{\"k\":\"x\x01y\"}")

		assert.Equal(t, `{"k":"xy"}`, got)
	})

	t.Run("leaves control characters outside strings", func(t *testing.T) {
		t.Parallel()

		got := json.Repair("{\n\t\"k\": 1\n}")

		assert.Equal(t, "{\n\t\"k\": 1\n}", got)
	})

	t.Run("escaped quote does not end the string", func(t *testing.T) {
		t.Parallel()

		got := json.Repair("{\"k\":\"a\\\"\nb\"}")

		assert.Equal(t, `{"k":"a\"\nb"}`, got)
	})
}

func TestCompactMarkup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<a><b>c</b></a>", json.CompactMarkup("<a>\n\t<b>c</b>\n</a>"))
	assert.Equal(t, "<a><b>c</b></a>", json.CompactMarkup("<a><b>c</b></a>"))
}
