package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageState_Status(t *testing.T) {
	s := NewPageState[string](30)
	assert.Equal(t, PageIdle, s.Status())
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 30, s.PageSize)
	assert.False(t, s.Started())

	s = s.Start()
	s.Loading = true
	assert.Equal(t, PageLoading, s.Status())

	s.Loading = false
	assert.Equal(t, PageEmpty, s.Status())

	s.Items = []string{"a"}
	assert.Equal(t, PageSuccess, s.Status())

	s.Err = errors.New("boom")
	assert.Equal(t, PageError, s.Status())
	assert.Equal(t, "boom", s.ErrorMessage())
}
