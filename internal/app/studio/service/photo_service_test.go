package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/infrastructure"
	"studioai/internal/app/studio/repository/mocks"
	"studioai/pkg/metrics"
)

func generationSampleCount(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.PhotoGenerationDuration.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestPhotoService_Generate_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	photoRepo := new(mocks.MockPhotoRepository)
	inference := new(mocks.MockInferenceClient)
	userID := uuid.New()

	inference.On("Generate", ctx, "portrait in oil painting style", "oil").
		Return(&infrastructure.InferenceResult{ImageURL: "https://cdn.example.com/img/42.png"}, nil)
	photoRepo.On("Create", ctx, mock.AnythingOfType("*entity.Photo")).Return(nil)

	service := NewPhotoService(photoRepo, inference)
	req := &entity.GeneratePhotoRequest{Prompt: "portrait in oil painting style", Style: "oil"}
	samplesBefore := generationSampleCount(t)

	// Act
	photo, err := service.Generate(ctx, userID, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID.String(), photo.UserID)
	assert.Equal(t, "https://cdn.example.com/img/42.png", photo.ImageURL)
	assert.Equal(t, "portrait in oil painting style", photo.Prompt)
	// Длительность обращения к inference попадает в гистограмму
	assert.Equal(t, samplesBefore+1, generationSampleCount(t))
	photoRepo.AssertExpectations(t)
}

func TestPhotoService_Generate_UpstreamFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	photoRepo := new(mocks.MockPhotoRepository)
	inference := new(mocks.MockInferenceClient)

	inference.On("Generate", ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream timeout"))

	service := NewPhotoService(photoRepo, inference)
	req := &entity.GeneratePhotoRequest{Prompt: "a prompt"}

	// Act
	photo, err := service.Generate(ctx, uuid.New(), req)

	// Assert
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Nil(t, photo)
	photoRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPhotoService_ListByUser_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	photoRepo := new(mocks.MockPhotoRepository)
	inference := new(mocks.MockInferenceClient)
	userID := uuid.New()

	photos := []entity.Photo{{UserID: userID.String(), Prompt: "p1"}, {UserID: userID.String(), Prompt: "p2"}}
	photoRepo.On("ListByUser", ctx, userID.String(), 20, 0).Return(photos, int64(2), nil)

	service := NewPhotoService(photoRepo, inference)

	// Act
	got, pagination, err := service.ListByUser(ctx, userID, 1, 20)

	// Assert
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), pagination.Total)
	assert.False(t, pagination.HasMore)
}

func TestPhotoService_ListByUser_ClampsPagination(t *testing.T) {
	// Arrange
	ctx := context.Background()
	photoRepo := new(mocks.MockPhotoRepository)
	inference := new(mocks.MockInferenceClient)
	userID := uuid.New()

	photoRepo.On("ListByUser", ctx, userID.String(), 20, 0).Return([]entity.Photo{}, int64(0), nil)

	service := NewPhotoService(photoRepo, inference)

	// Act
	_, pagination, err := service.ListByUser(ctx, userID, 0, -1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.Limit)
}
