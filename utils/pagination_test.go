package utils_test

import (
	"testing"

	"github.com/ncerda/simulator-server/utils"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePaginationDefaults(t *testing.T) {
	p := utils.CalculatePagination(0, 0, 12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.Count)
	assert.Equal(t, 3, p.TotalPages)
	assert.EqualValues(t, 12, p.Total)
	assert.Equal(t, 0, p.Offset())
}

func TestCalculatePaginationOffset(t *testing.T) {
	p := utils.CalculatePagination(3, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Offset())
}

func TestCalculatePaginationEmptyTotal(t *testing.T) {
	p := utils.CalculatePagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
}
