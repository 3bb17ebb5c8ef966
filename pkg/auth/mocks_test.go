package auth

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockCredentialStore is a testify mock of CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByName(ctx context.Context, name string) (*Identity, error) {
	args := m.Called(ctx, name)
	if identity, ok := args.Get(0).(*Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) FindByID(ctx context.Context, id bson.ObjectID) (*Identity, error) {
	args := m.Called(ctx, id)
	if identity, ok := args.Get(0).(*Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}
