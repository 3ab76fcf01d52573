// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string) (string, error)

	// TTL reports the lifetime of issued tokens.
	TTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merge.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs the authentication service with its dependencies.
func NewService(userRepository UserRepository, tokenProvider TokenProvider) *Service {
	return &Service{
		userRepository: userRepository,
		tokenProvider:  tokenProvider,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with the default role and an active status.
Uniqueness is checked username-first, then email, so when both collide the
caller learns about the username.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity, password hash cleared
  - error: apperr.Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. Return a client-safe Conflict err.
	taken, err := service.userRepository.ExistsByUsername(context, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	taken, err = service.userRepository.ExistsByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		Status:       StatusActive,
	}

	// Persist the user to the database. A concurrent registration can still
	// trip the unique constraint here, which surfaces as the same Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken string
	ExpiresIn   int64 // Seconds until the access token expires.
	User        *User
}

/*
Login validates user credentials and issues an access token.

Description: Resolves the account by username, rejects disabled accounts, and
performs constant-time password comparison before signing a token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token and account view
  - error: InvalidCredentials, AccountDisabled, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByUsername(context, input.Username)

	// An unknown username yields the same generic message as a wrong password
	// to prevent account enumeration. Store failures still surface as such.
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	// A disabled account is rejected before the password check. The distinct
	// code lets clients show a support message instead of a retry prompt.
	if user.IsDisabled() {
		return nil, apperr.AccountDisabled()
	}

	// bcrypt comparison is constant-time to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	user.PasswordHash = ""
	return &LoginSession{
		AccessToken: accessToken,
		ExpiresIn:   int64(service.tokenProvider.TTL().Seconds()),
		User:        user,
	}, nil
}

/*
Profile returns the account behind an issued token.

Description: Fresh read of the caller's own account, bypassing the management
cache so a just-updated profile is reflected immediately.

Parameters:
  - context: context.Context
  - userID: string (Subject claim of the verified token)

Returns:
  - *User: Hydrated account, password hash cleared
  - error: apperr.NotFound when the account was deleted after token issuance
*/
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}
