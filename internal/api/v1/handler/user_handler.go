package handler

import (
	"context"

	"github.com/fadonmez/backend/internal/api/v1/dto"
	"github.com/fadonmez/backend/internal/api/v1/operation"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler implements Huma-based user operations
type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validate,
		logger:      logger,
	}
}

// CreateUser creates or updates the profile of the authenticated subject
func (h *UserHandler) CreateUser(ctx context.Context, input *operation.CreateUserInput) (*operation.CreateUserOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("Validation failed: " + err.Error())
	}

	u, err := h.userService.Register(ctx, &model.User{
		UserID: userID,
		Name:   input.Body.Name,
		Email:  input.Body.Email,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create user")
	}
	return &operation.CreateUserOutput{Body: userDTO(u)}, nil
}

// GetUser retrieves the authenticated user's profile
func (h *UserHandler) GetUser(ctx context.Context, input *operation.GetUserInput) (*operation.GetUserOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.userService.Get(ctx, userID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get user")
	}
	return &operation.GetUserOutput{Body: userDTO(u)}, nil
}

func userDTO(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Tier:      string(u.Tier),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
