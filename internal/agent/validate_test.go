package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput("hello"))
	assert.Error(t, ValidateInput(""))
	assert.Error(t, ValidateInput(strings.Repeat("a", maxInputBytes+1)))
	assert.Error(t, ValidateInput("bad \xff utf8"))
	assert.NoError(t, ValidateInput(strings.Repeat("a", maxInputBytes)))
}
