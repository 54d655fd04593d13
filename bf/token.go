// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

// Token is a single symbol of the tape language.
type Token int

//go:generate go tool stringer -linecomment -type=Token
const (
	TOKEN_MOVE_FORWARD = Token(0) // >
	TOKEN_MOVE_BACK    = Token(1) // <
	TOKEN_ADD          = Token(2) // +
	TOKEN_SUB          = Token(3) // -
	TOKEN_STDOUT       = Token(4) // .
	TOKEN_STDIN        = Token(5) // ,
	TOKEN_LOOP_START   = Token(6) // [
	TOKEN_LOOP_END     = Token(7) // ]
)

var tokenMap = map[rune]Token{
	'>': TOKEN_MOVE_FORWARD,
	'<': TOKEN_MOVE_BACK,
	'+': TOKEN_ADD,
	'-': TOKEN_SUB,
	'.': TOKEN_STDOUT,
	',': TOKEN_STDIN,
	'[': TOKEN_LOOP_START,
	']': TOKEN_LOOP_END,
}

var tokenName = map[Token]string{
	TOKEN_MOVE_FORWARD: "move forward",
	TOKEN_MOVE_BACK:    "move back",
	TOKEN_ADD:          "add",
	TOKEN_SUB:          "sub",
	TOKEN_STDOUT:       "stdout",
	TOKEN_STDIN:        "stdin",
	TOKEN_LOOP_START:   "loop start",
	TOKEN_LOOP_END:     "loop end",
}

// TokenOf returns the token for a source symbol.
func TokenOf(r rune) (token Token, ok bool) {
	token, ok = tokenMap[r]
	return
}

// Name returns a descriptive name of the token, for listings.
func (t Token) Name() string {
	name, ok := tokenName[t]
	if !ok {
		return t.String()
	}
	return name
}

// IsIo is true for tokens that perform I/O.
func (t Token) IsIo() bool {
	return t == TOKEN_STDOUT || t == TOKEN_STDIN
}

// IsBracket is true for the loop delimiters.
func (t Token) IsBracket() bool {
	return t == TOKEN_LOOP_START || t == TOKEN_LOOP_END
}
