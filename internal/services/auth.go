package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/ctxutil"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, name string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	prefRepo      repos.NotificationPrefRepo
	profileRepo   repos.MusicProfileRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	prefRepo repos.NotificationPrefRepo,
	profileRepo repos.MusicProfileRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		prefRepo:      prefRepo,
		profileRepo:   profileRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterUser creates the user plus its empty music profile and default
// notification preferences in one transaction.
func (as *authService) RegisterUser(ctx context.Context, email, password, name string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(name),
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := as.userRepo.Create(ctx, tx, user); cErr != nil {
			return cErr
		}
		profile := &types.MusicProfile{ID: uuid.New(), UserID: user.ID}
		if _, pErr := as.profileRepo.Create(ctx, tx, profile); pErr != nil {
			return fmt.Errorf("create music profile: %w", pErr)
		}
		pref := &types.NotificationPreference{
			ID:            uuid.New(),
			UserID:        user.ID,
			Enabled:       true,
			DailyReminder: true,
			StoryReady:    true,
			MusicReady:    true,
			EmotionAlert:  true,
		}
		if _, nErr := as.prefRepo.Create(ctx, tx, pref); nErr != nil {
			return fmt.Errorf("create notification preferences: %w", nErr)
		}
		return nil
	})
	if err != nil {
		// A concurrent registration can slip past the EmailExists check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, userToken); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// RefreshUser rotates the refresh token: the old row is revoked in the
// same transaction that creates the new one.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", ErrTokenInvalid
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if ftErr != nil {
			if errors.Is(ftErr, gorm.ErrRecordNotFound) {
				return ErrTokenInvalid
			}
			return fmt.Errorf("lookup refresh token: %w", ftErr)
		}
		if existing.Revoked || existing.ExpiresAt.Before(time.Now()) {
			return ErrTokenInvalid
		}
		user, uErr := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, newToken); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		if rErr := as.userTokenRepo.Revoke(ctx, tx, existing.ID); rErr != nil {
			return fmt.Errorf("revoke old token: %w", rErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return ErrTokenInvalid
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("lookup token: %w", err)
		}
		return as.userTokenRepo.Revoke(ctx, tx, token.ID)
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
