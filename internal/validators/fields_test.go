package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailValid(t *testing.T) {
	valid := []string{
		"taro@example.com",
		"first.last+tag@sub.domain.co.jp",
	}
	invalid := []string{
		"",
		"plain",
		"missing@tld",
		"spaces in@example.com",
		"@example.com",
		"taro@",
	}

	for _, e := range valid {
		assert.True(t, IsEmailValid(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsEmailValid(e), e)
	}
}

func TestFieldValidators(t *testing.T) {
	assert.NoError(t, Required("x", "Field"))
	assert.Error(t, Required("", "Field"))

	assert.NoError(t, Email("taro@example.com"))
	assert.Error(t, Email("nope"))

	assert.NoError(t, MinLength("hello world", 10, "Message"))
	assert.Error(t, MinLength("short", 10, "Message"))

	assert.NoError(t, MaxLength(strings.Repeat("a", 2000), 2000, "Message"))
	assert.Error(t, MaxLength(strings.Repeat("a", 2001), 2000, "Message"))

	// Multibyte input counts runes, not bytes.
	assert.NoError(t, MinLength(strings.Repeat("あ", 10), 10, "Message"))
}
