package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "short", truncateStr("short", 10))
	assert.Equal(t, "abcdefg...", truncateStr("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdef", truncateStr("abcdef", 3))
}
