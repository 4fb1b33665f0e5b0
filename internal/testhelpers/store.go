package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// MockStore is a testify mock of repository.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, title, link string) (*models.Todo, error) {
	args := m.Called(ctx, title, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Todo), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]models.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockStore) SetOrder(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockStore) UpdateCompletion(ctx context.Context, id string, completed bool) error {
	return m.Called(ctx, id, completed).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
