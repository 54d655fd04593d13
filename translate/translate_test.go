// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLocales("en-US")

	assert.Equal("line 3 col 4", From("line %d col %d", 3, 4))
	assert.Equal("excess of 12 '['", From("excess of %d '['", 12))
	assert.NotEmpty(Tag().String())
}
