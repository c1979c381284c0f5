package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shiplabel/internal/models"
	emailSvc "shiplabel/pkg/email"
	"shiplabel/pkg/logger"
	"shiplabel/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserProfile(ctx context.Context, userID string) (*models.User, error)

	HandleGoogleLogin() (authURL string, state string, err error)
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)
}

type Service struct {
	userRepo          RepositoryInterface
	emailer           emailSvc.ServiceInterface
	templateManager   *emailSvc.TemplateManager
	jwtSecret         string
	clientOrigin      string
	googleOAuthConfig *oauth2.Config
}

func NewService(
	userRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
	googleOAuthConfig *oauth2.Config,
) ServiceInterface {
	return &Service{
		userRepo:          userRepo,
		emailer:           emailer,
		templateManager:   tm,
		jwtSecret:         jwtSecret,
		clientOrigin:      clientOrigin,
		googleOAuthConfig: googleOAuthConfig,
	}
}

// googleUserInfo unmarshals the Google user info response.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	// Check if user with that email already exists.
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	newUser := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		AuthProvider: "local",
	}
	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	s.sendWelcomeEmail(createdUser)

	return s.generateAuthResponse(createdUser)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(user)
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// HandleGoogleLogin builds the Google consent screen URL for this login
// attempt. The returned state must round-trip through the callback.
func (s *Service) HandleGoogleLogin() (string, string, error) {
	if s.googleOAuthConfig == nil || s.googleOAuthConfig.ClientID == "" {
		return "", "", errors.New("google login is not configured")
	}

	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("service.HandleGoogleLogin: %w", err)
	}

	return s.googleOAuthConfig.AuthCodeURL(state), state, nil
}

// HandleGoogleCallback exchanges the authorization code, fetches the Google
// profile and logs the user in, creating the account on first sight.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Exchange: %w", err)
	}

	client := s.googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.UserInfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service.HandleGoogleCallback: userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Decode: %w", err)
	}
	if !info.VerifiedEmail {
		return nil, errors.New("google account email is not verified")
	}

	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if errors.Is(err, models.ErrNotFound) {
		newUser := &models.User{
			ID:             uuid.New().String(),
			Name:           info.Name,
			Email:          info.Email,
			AuthProvider:   "google",
			AuthProviderID: info.ID,
		}
		user, err = s.userRepo.Create(ctx, newUser)
		if err == nil {
			s.sendWelcomeEmail(user)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.User: %w", err)
	}

	return s.generateAuthResponse(user)
}

// generateAuthResponse signs a JWT for the user.
func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("service.generateAuthResponse: %w", err)
	}

	return &models.AuthResponse{
		AccessToken: signed,
		User:        user,
	}, nil
}

func (s *Service) sendWelcomeEmail(user *models.User) {
	if s.emailer == nil || s.templateManager == nil {
		return
	}

	htmlContent, err := s.templateManager.GenerateWelcomeEmailHTML(emailSvc.WelcomeData{
		Name: user.Name,
		Link: s.clientOrigin + "/shipping-labels",
	})
	if err != nil {
		logger.Get().Warn("Failed to render welcome email", zap.Error(err))
		return
	}

	subject := "Welcome aboard"
	plain := fmt.Sprintf("Welcome %s! Your account is ready: %s/shipping-labels", user.Name, s.clientOrigin)

	go func() {
		// Run in a goroutine so it doesn't block the signup response.
		if err := s.emailer.SendEmail(context.Background(), user.Email, subject, plain, htmlContent); err != nil {
			logger.Get().Warn("Failed to send welcome email",
				zap.String("to", user.Email),
				zap.Error(err),
			)
		}
	}()
}
