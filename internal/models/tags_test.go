package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTag(t *testing.T) {
	for _, tag := range TagOptions {
		assert.True(t, ValidTag(tag), tag)
	}
	assert.False(t, ValidTag("bogus"))
	assert.False(t, ValidTag(""))
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		expected []string
		bad      string
	}{
		{"Nil becomes empty", nil, []string{}, ""},
		{"Valid kept", []string{"notice", "question"}, []string{"notice", "question"}, ""},
		{"Duplicates dropped", []string{"notice", "notice"}, []string{"notice"}, ""},
		{"Blanks dropped", []string{"", "song-request"}, []string{"song-request"}, ""},
		{"Unknown reported", []string{"notice", "bogus"}, nil, "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bad := NormalizeTags(tt.in)
			assert.Equal(t, tt.bad, bad)
			if tt.bad == "" {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
