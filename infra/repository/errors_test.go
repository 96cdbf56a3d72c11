package repository_test

import (
	"errors"
	"fmt"
	"testing"

	infrarepo "github.com/midas-bot/midas/infra/repository"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domain.ErrUserExists},
		{
			"wrapped not found",
			fmt.Errorf("user 42: %w", gorm.ErrRecordNotFound),
			domain.ErrNotFound,
		},
		{
			"doubly wrapped duplicate",
			fmt.Errorf("insert: %w", fmt.Errorf("pg: %w", gorm.ErrDuplicatedKey)),
			domain.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := infrarepo.MapGormErrorToDomain(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapGormErrorToDomainPassthrough(t *testing.T) {
	unknown := errors.New("connection reset")
	got := infrarepo.MapGormErrorToDomain(unknown)
	assert.Same(t, unknown, got)
}

func TestWrapError(t *testing.T) {
	err := infrarepo.WrapError(func() error { return gorm.ErrRecordNotFound })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, infrarepo.WrapError(func() error { return nil }))
}
