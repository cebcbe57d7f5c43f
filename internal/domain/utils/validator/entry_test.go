package validator

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestEntryCount(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("labels.max-entries", 0)
	assert.True(t, EntryCount(100000))

	viper.Set("labels.max-entries", 30)
	assert.True(t, EntryCount(30))
	assert.False(t, EntryCount(31))
}

func TestEntryText(t *testing.T) {
	assert.True(t, EntryText(""))
	assert.True(t, EntryText("Table 12 · Terrace"))
	assert.False(t, EntryText("two\nlines"))
	assert.False(t, EntryText(string([]byte{0xff, 0xfe})))
	assert.False(t, EntryText(strings.Repeat("a", maxEntryTextLength+1)))
}

func TestEntryImage(t *testing.T) {
	assert.True(t, EntryImage(""))
	assert.True(t, EntryImage("menu/table-12.png"))
	assert.False(t, EntryImage("/etc/passwd"))
	assert.False(t, EntryImage("../secret.png"))
	assert.False(t, EntryImage("menu/../../secret.png"))
	assert.False(t, EntryImage(`menu\..\secret.png`))
	assert.True(t, EntryImage("v1..2.png"))
	assert.True(t, EntryImage("menu/..hidden/qr.png"))
}
