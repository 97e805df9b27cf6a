package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danupra/hrisgo/internal/domain"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
	"github.com/danupra/hrisgo/pkg/pagination"
)

type mockPegawaiRepository struct {
	mock.Mock
}

func (m *mockPegawaiRepository) Create(ctx context.Context, p *domain.Pegawai) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPegawaiRepository) GetByID(ctx context.Context, id string) (*domain.Pegawai, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pegawai), args.Error(1)
}

func (m *mockPegawaiRepository) List(ctx context.Context, params pagination.Params) ([]domain.PegawaiSummary, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PegawaiSummary), args.Int(1), args.Error(2)
}

func (m *mockPegawaiRepository) Update(ctx context.Context, p *domain.Pegawai) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPegawaiRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestPegawaiList_WithPaging(t *testing.T) {
	repo := new(mockPegawaiRepository)
	svc := NewPegawaiService(repo, newTestLogger())

	params := pagination.Params{Page: 2, Limit: 10, Sort: "name", Order: "asc"}
	repo.On("List", mock.Anything, params).Return([]domain.PegawaiSummary{
		{ID: "p-11", Name: "Budi Santoso"},
	}, 11, nil)

	list, paging, err := svc.List(context.Background(), params)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, paging.TotalPage)
	assert.Equal(t, 11, paging.DataLength)
}

func TestPegawaiList_Empty(t *testing.T) {
	repo := new(mockPegawaiRepository)
	svc := NewPegawaiService(repo, newTestLogger())

	params := pagination.Params{Page: 1, Limit: 10, Sort: "created_at", Order: "desc"}
	repo.On("List", mock.Anything, params).Return([]domain.PegawaiSummary{}, 0, nil)

	_, _, err := svc.List(context.Background(), params)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPegawaiCreate_MissingFields(t *testing.T) {
	repo := new(mockPegawaiRepository)
	svc := NewPegawaiService(repo, newTestLogger())

	_, err := svc.Create(context.Background(), &domain.Pegawai{Name: "Budi"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "Create")
}

func TestPegawaiDelete_Unknown(t *testing.T) {
	repo := new(mockPegawaiRepository)
	svc := NewPegawaiService(repo, newTestLogger())

	repo.On("SoftDelete", mock.Anything, "p-missing").Return(apperrors.ErrNotFound)

	err := svc.Delete(context.Background(), "p-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
