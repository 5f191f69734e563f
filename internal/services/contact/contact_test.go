package contact_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/contact"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func (m *RepoMock) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactMessage), args.Error(1)
}

func (m *RepoMock) MarkContactMessageRead(ctx context.Context, id int64) (*models.ContactMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func TestService(t *testing.T) {
	repo := new(RepoMock)
	svc := contact.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)

	repo.On("CreateContactMessage", mock.Anything, mock.MatchedBy(func(m models.ContactMessage) bool {
		return m.Email == "a@b.com" && !m.IsRead
	})).Return(&models.ContactMessage{ID: 1, Email: "a@b.com"}, nil).Once()
	repo.On("ListContactMessages", mock.Anything).Return([]*models.ContactMessage{{ID: 1}}, nil).Once()
	repo.On("MarkContactMessageRead", mock.Anything, int64(1)).Return(&models.ContactMessage{ID: 1, IsRead: true}, nil).Once()
	repo.On("MarkContactMessageRead", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound).Once()

	saved, err := svc.Submit(context.Background(), models.ContactMessage{Name: "A", Email: " a@b.com ", Message: "hi", IsRead: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	read, err := svc.MarkRead(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.MarkRead(context.Background(), 2)
	assert.ErrorIs(t, err, contact.ErrNotFound)
	repo.AssertExpectations(t)
}
