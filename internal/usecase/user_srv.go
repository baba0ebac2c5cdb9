package usecase

import (
	"context"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/dto/response"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	AddAddress(ctx context.Context, userID uuid.UUID, req *request.AddAddressRequest) (*response.AddressResponse, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]response.AddressResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) AddAddress(ctx context.Context, userID uuid.UUID, req *request.AddAddressRequest) (*response.AddressResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add address validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Create address entity
	address := &entity.Address{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}

	// 3. Save
	if err := s.repo.Address.Create(ctx, address); err != nil {
		s.log.Error("Failed to create address", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to add address")
	}

	s.log.Info("Address added",
		zap.String("user_id", userID.String()),
		zap.String("address_id", address.ID.String()))

	resp := response.AddressToResponse(address)
	return &resp, nil
}

func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]response.AddressResponse, error) {
	addresses, err := s.repo.Address.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list addresses", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list addresses")
	}

	return response.AddressesToResponse(addresses), nil
}
