// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func op(kind Token, count uint) *Operator {
	return &Operator{Kind: kind, Count: count}
}

func loop(body ...Expression) *Loop {
	if body == nil {
		body = []Expression{}
	}
	return &Loop{Body: body}
}

func mustParse(t *testing.T, source string) []Expression {
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("%v: %v", source, err)
	}
	return Parse(tokens)
}

func TestParser(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source   string
		ast      []Expression
		count    int
		loops    int
		rendered string
	}){
		{"", []Expression{}, 0, 0, ""},
		{"+-", []Expression{op(TOKEN_ADD, 1), op(TOKEN_SUB, 1)}, 2, 0, "+-"},
		{"[]", []Expression{loop()}, 1, 1, "[]"},
		{"+[-]", []Expression{op(TOKEN_ADD, 1), loop(op(TOKEN_SUB, 1))}, 3, 1, "+[-]"},
		{"[[>]<]", []Expression{
			loop(loop(op(TOKEN_MOVE_FORWARD, 1)), op(TOKEN_MOVE_BACK, 1)),
		}, 4, 2, "[[>]<]"},
		{"[.][,]", []Expression{loop(op(TOKEN_STDOUT, 1)), loop(op(TOKEN_STDIN, 1))}, 4, 2, "[.][,]"},
	}

	for _, entry := range table {
		ast := mustParse(t, entry.source)
		assert.Equal(entry.ast, ast, entry.source)
		assert.Equal(entry.count, CountInstructions(ast), entry.source)
		assert.Equal(entry.loops, CountLoops(ast), entry.source)
		assert.Equal(entry.rendered, Format(ast), entry.source)
	}
}

func TestParserDeep(t *testing.T) {
	assert := assert.New(t)

	const depth = 2000
	source := strings.Repeat("[", depth) + "+" + strings.Repeat("]", depth)
	ast := mustParse(t, source)

	assert.Equal(depth+1, CountInstructions(ast))
	assert.Equal(depth, CountLoops(ast))
	assert.Equal(source, Format(ast))
}

// TestParserCount checks that the instruction count is the number of
// operator symbols plus one per loop.
func TestParserCount(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"++>--<..,,",
		"+[>+<-]>.",
		"+ comment [[[\n[ [ - ] ignored ]\n]",
		"[[[]]]",
	}

	for _, source := range table {
		tokens, err := Tokenize(source)
		assert.NoError(err, source)

		var symbols, loops int
		for _, token := range tokens {
			switch token {
			case TOKEN_LOOP_START:
				loops++
			case TOKEN_LOOP_END:
			default:
				symbols++
			}
		}

		assert.Equal(symbols+loops, CountInstructions(Parse(tokens)), source)
	}
}

func TestOperatorString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("+", op(TOKEN_ADD, 1).String())
	assert.Equal(">12", op(TOKEN_MOVE_FORWARD, 12).String())
	assert.Equal("+3[-2.]", Format([]Expression{op(TOKEN_ADD, 3), loop(op(TOKEN_SUB, 2), op(TOKEN_STDOUT, 1))}))
}
