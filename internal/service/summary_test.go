package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	var s Summary
	assert.True(t, s.Ok())
	assert.Equal(t, "success", s.String())

	s.Add("database backup", nil)
	s.Add("file storage backup", nil)
	assert.True(t, s.Ok())
	assert.Empty(t, s.Failures())

	s.Add("trash cleanup", assert.AnError)
	assert.False(t, s.Ok())
	assert.Equal(t, []string{"trash cleanup"}, s.Failures())
	assert.Equal(t, "failed: trash cleanup", s.String())
}
