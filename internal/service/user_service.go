package service

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user profile and admin user management
type UserService struct {
	userRepo *repository.UserRepo
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns a user's public profile
func (s *UserService) GetProfile(ctx context.Context, userId int64) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Dob       string `json:"dob"`
	Avatar    string `json:"avatar"`
}

// UpdateProfile updates the user's editable fields and returns the new profile
func (s *UserService) UpdateProfile(ctx context.Context, userId int64, req *UpdateProfileRequest) (*entity.UserInfo, error) {
	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Dob != "" {
		updates["dob"] = req.Dob
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if len(updates) == 0 {
		return nil, errcode.ErrMissingParams
	}

	affected, err := s.userRepo.Update(ctx, userId, updates)
	if err != nil {
		log.CtxError(ctx, "update user failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}
	if affected == 0 {
		// Zero rows can also mean no field changed; distinguish by existence
		exists, err := s.userRepo.Exists(ctx, userId)
		if err != nil {
			return nil, errcode.ErrServer
		}
		if !exists {
			return nil, errcode.ErrUserNotFound
		}
	}

	return s.GetProfile(ctx, userId)
}

// List returns every account (admin view)
func (s *UserService) List(ctx context.Context) ([]*entity.UserInfo, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		log.CtxError(ctx, "list users failed: %v", err)
		return nil, errcode.ErrServer
	}

	result := make([]*entity.UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToUserInfo())
	}
	return result, nil
}

// CreateUserRequest is the admin account-creation payload
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Address   string `json:"address"`
	Dob       string `json:"dob"`
}

// Create provisions an account with an explicit role (admin operation)
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.UserInfo, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, errcode.ErrMissingParams
	}

	role := req.Role
	switch role {
	case "":
		role = constant.RoleCustomer
	case constant.RoleCustomer, constant.RoleManager, constant.RoleAdmin:
	default:
		return nil, errcode.ErrInvalidParam
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "check email failed: %v", err)
		return nil, errcode.ErrServer
	}
	if existing != nil {
		return nil, errcode.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return nil, errcode.ErrServer
	}

	user := &entity.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  deriveUsername(req.FirstName, req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Dob:       req.Dob,
		Role:      role,
		Password:  string(hashed),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "user created: user_id=%d role=%s", user.Id, role)
	return user.ToUserInfo(), nil
}

// Delete removes an account (admin operation)
func (s *UserService) Delete(ctx context.Context, userId int64) error {
	affected, err := s.userRepo.Delete(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "delete user failed: user_id=%d err=%v", userId, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		return errcode.ErrUserNotFound
	}
	return nil
}
