package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/jwt"
	"github.com/mbeoliero/kit/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration and authentication
type AuthService struct {
	userRepo *repository.UserRepo
	cfg      *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepo, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// RegisterRequest represents user registration request
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	Dob       string `json:"dob"`
	Avatar    string `json:"avatar"`
}

// LoginRequest represents user login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents user login response
type LoginResponse struct {
	Token    string           `json:"token"`
	UserInfo *entity.UserInfo `json:"user"`
}

// Register creates a new customer account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.UserInfo, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return nil, errcode.ErrMissingParams
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "check email failed: %v", err)
		return nil, errcode.ErrServer
	}
	if existing != nil {
		return nil, errcode.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
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
		Avatar:    req.Avatar,
		Role:      constant.RoleCustomer,
		Password:  string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "user registered: user_id=%d email=%s", user.Id, user.Email)
	return user.ToUserInfo(), nil
}

// Login authenticates by email and password and returns a signed token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errcode.ErrMissingParams
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "lookup user failed: %v", err)
		return nil, errcode.ErrServer
	}
	if user == nil {
		return nil, errcode.ErrLoginFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errcode.ErrLoginFailed
	}

	token, err := jwt.GenerateToken(user.Id, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		log.CtxError(ctx, "generate token failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "user logged in: user_id=%d", user.Id)
	return &LoginResponse{Token: token, UserInfo: user.ToUserInfo()}, nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(ctx context.Context, userId int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return errcode.ErrMissingParams
	}

	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "lookup user failed: %v", err)
		return errcode.ErrServer
	}
	if user == nil {
		return errcode.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return errcode.ErrPasswordWrong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return errcode.ErrServer
	}

	if _, err := s.userRepo.Update(ctx, userId, map[string]interface{}{"password": string(hashed)}); err != nil {
		log.CtxError(ctx, "update password failed: user_id=%d err=%v", userId, err)
		return errcode.ErrServer
	}
	return nil
}

// DeleteAccount verifies the password and removes the account
func (s *AuthService) DeleteAccount(ctx context.Context, userId int64, password string) error {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "lookup user failed: %v", err)
		return errcode.ErrServer
	}
	if user == nil {
		return errcode.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return errcode.ErrPasswordWrong
	}

	if _, err := s.userRepo.Delete(ctx, userId); err != nil {
		log.CtxError(ctx, "delete user failed: user_id=%d err=%v", userId, err)
		return errcode.ErrServer
	}

	log.CtxInfo(ctx, "account deleted: user_id=%d", userId)
	return nil
}

// ParseToken validates a signed token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*jwt.Claims, error) {
	return jwt.ParseToken(tokenString, s.cfg.JWT.Secret)
}

func deriveUsername(firstName, lastName string) string {
	return fmt.Sprintf("%s-%s", strings.ToLower(firstName), strings.ToLower(lastName))
}
