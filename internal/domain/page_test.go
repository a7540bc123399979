package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestNewPaginationParams(t *testing.T) {
	p := domain.NewPaginationParams(nil, nil)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, p)
	assert.Equal(t, 0, p.Offset())

	p = domain.NewPaginationParams(intPtr(3), intPtr(10))
	assert.Equal(t, 20, p.Offset())

	p = domain.NewPaginationParams(intPtr(0), intPtr(500))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)
}
