package auth_test

import (
	"context"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	auth "github.com/goliatone/go-signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmailHandler(t *testing.T) {
	token := "abc123"

	t.Run("verifies the matching account and consumes the token", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		user := &auth.User{
			Email:             "ada@example.com",
			EmailVerified:     false,
			VerificationToken: &token,
		}

		users.On("GetByVerificationTokenTx", mock.Anything, mock.Anything, token).
			Return(user, nil)
		users.On("MarkEmailVerifiedTx", mock.Anything, mock.Anything, token).
			Return(&auth.User{Email: "ada@example.com", EmailVerified: true}, nil)

		handler := auth.NewVerifyEmailHandler(repo)

		err := handler.Execute(context.Background(), auth.VerifyEmailMessage{Token: token})
		require.NoError(t, err)

		users.AssertExpectations(t)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		users.On("GetByVerificationTokenTx", mock.Anything, mock.Anything, token).
			Return(nil, repository.NewRecordNotFound())

		handler := auth.NewVerifyEmailHandler(repo)

		err := handler.Execute(context.Background(), auth.VerifyEmailMessage{Token: token})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)

		users.AssertNotCalled(t, "MarkEmailVerifiedTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a token consumed between lookup and update", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		users.On("GetByVerificationTokenTx", mock.Anything, mock.Anything, token).
			Return(&auth.User{VerificationToken: &token}, nil)
		users.On("MarkEmailVerifiedTx", mock.Anything, mock.Anything, token).
			Return(nil, repository.NewRecordNotFound())

		handler := auth.NewVerifyEmailHandler(repo)

		err := handler.Execute(context.Background(), auth.VerifyEmailMessage{Token: token})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects an empty token without touching the store", func(t *testing.T) {
		repo := &MockRepositoryManager{}

		handler := auth.NewVerifyEmailHandler(repo)

		err := handler.Execute(context.Background(), auth.VerifyEmailMessage{})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
