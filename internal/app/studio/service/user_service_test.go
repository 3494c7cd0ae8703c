package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/repository"
	"studioai/internal/app/studio/repository/mocks"
)

type userServiceFixture struct {
	userRepo    *mocks.MockUserRepository
	profileRepo *mocks.MockProfileRepository
	tokenRepo   *mocks.MockRefreshTokenRepository
	photoRepo   *mocks.MockPhotoRepository
	service     *UserService
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		userRepo:    new(mocks.MockUserRepository),
		profileRepo: new(mocks.MockProfileRepository),
		tokenRepo:   new(mocks.MockRefreshTokenRepository),
		photoRepo:   new(mocks.MockPhotoRepository),
	}
	f.service = NewUserService(f.userRepo, f.profileRepo, f.tokenRepo, f.photoRepo)
	return f
}

// ==================== GetProfile Tests ====================

func TestUserService_GetProfile_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newUserServiceFixture()
	userID := uuid.New()
	profile := &entity.Profile{UserID: userID, DisplayName: "Tester"}

	f.profileRepo.On("GetByUserID", ctx, userID).Return(profile, nil)

	// Act
	got, err := f.service.GetProfile(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Tester", got.DisplayName)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newUserServiceFixture()
	userID := uuid.New()

	f.profileRepo.On("GetByUserID", ctx, userID).Return(nil, repository.ErrNotFound)

	// Act & Assert
	_, err := f.service.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

// ==================== UpdateProfile Tests ====================

func TestUserService_UpdateProfile_Upsert(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newUserServiceFixture()
	userID := uuid.New()

	f.profileRepo.On("Upsert", ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)

	req := &entity.UpdateProfileRequest{
		FirstName:   "Anna",
		DisplayName: "anna.k",
		Bio:         "generative art",
	}

	// Act
	profile, err := f.service.UpdateProfile(ctx, userID, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "Anna", profile.FirstName)
	assert.Equal(t, "anna.k", profile.DisplayName)
	assert.False(t, profile.UpdatedAt.IsZero())
	f.profileRepo.AssertExpectations(t)
}

// ==================== DeleteAccount Tests ====================

func TestUserService_DeleteAccount_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newUserServiceFixture()
	userID := uuid.New()
	anonymized := fmt.Sprintf("deleted-%s@anonymized.invalid", userID.String())

	f.userRepo.On("Anonymize", ctx, userID, anonymized).Return(nil)
	f.tokenRepo.On("DeleteAllForUser", ctx, userID).Return(nil)
	f.profileRepo.On("Delete", ctx, userID).Return(nil)
	f.photoRepo.On("DeleteAllForUser", ctx, userID.String()).Return(nil)

	// Act
	err := f.service.DeleteAccount(ctx, userID)

	// Assert: аккаунт обезличен, сессии отозваны, данные вычищены
	require.NoError(t, err)
	f.userRepo.AssertExpectations(t)
	f.tokenRepo.AssertExpectations(t)
	f.profileRepo.AssertExpectations(t)
	f.photoRepo.AssertExpectations(t)
}

func TestUserService_DeleteAccount_UnknownUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newUserServiceFixture()
	userID := uuid.New()

	f.userRepo.On("Anonymize", ctx, userID, mock.AnythingOfType("string")).Return(repository.ErrNotFound)

	// Act & Assert
	err := f.service.DeleteAccount(ctx, userID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	f.tokenRepo.AssertNotCalled(t, "DeleteAllForUser", mock.Anything, mock.Anything)
}
