package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(bucket, name string, r io.Reader) error {
	args := m.Called(bucket, name, r)
	return args.Error(0)
}

func (m *MockObjectStorage) Remove(bucket, name string) error {
	args := m.Called(bucket, name)
	return args.Error(0)
}

func (m *MockObjectStorage) PublicURL(bucket, name string) string {
	args := m.Called(bucket, name)
	return args.String(0)
}
