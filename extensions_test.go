package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionSet(t *testing.T) {
	set := extensionSet{
		required: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		wanted:   []string{"VK_EXT_debug_report", "VK_KHR_surface", "VK_EXT_missing"},
		actual:   []string{"VK_KHR_surface", "VK_EXT_debug_report"},
	}
	assert.Equal(t, []string{"VK_KHR_xcb_surface"}, set.MissingRequired())
	assert.Equal(t, []string{"VK_EXT_missing"}, set.MissingWanted())
	assert.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_report"}, set.Enabled())
}

func TestExtensionSetEmpty(t *testing.T) {
	var set extensionSet
	assert.Empty(t, set.MissingRequired())
	assert.Empty(t, set.Enabled())
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "main\x00", safeString("main"))
	assert.Equal(t, "main\x00", safeString("main\x00"))
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b\x00"}))
}
