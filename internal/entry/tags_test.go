package entry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("slept well #Gratitude, long walk #outdoors #gratitude")
	assert.Equal(t, []string{"gratitude", "outdoors"}, tags)
}

func TestExtractTagsNone(t *testing.T) {
	assert.Nil(t, ExtractTags("a plain day with no tags"))
}

func TestExtractTagsCap(t *testing.T) {
	content := ""
	for i := 0; i < 30; i++ {
		content += fmt.Sprintf("#t%d ", i)
	}
	assert.Len(t, ExtractTags(content), 20)
}
