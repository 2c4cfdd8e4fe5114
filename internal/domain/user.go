package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateProfile(context.Context, *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	Agree(context.Context, *model.AgreementRequest) (*model.AgreementResponse, error)
	DeleteUser(context.Context, *model.DeleteUserRequest) (*model.DeleteUserResponse, error)
}

type userDomain struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
) UserDomain {
	return &userDomain{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: model.ConvertUser(user, false)}, nil
}

func (d *userDomain) UpdateProfile(
	ctx context.Context, req *model.UpdateProfileRequest,
) (*model.UpdateProfileResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	changedUsername := req.Username != "" && req.Username != user.Username
	if changedUsername {
		if err := validateUsername(req.Username); err != nil {
			return nil, err
		}

		_, err := d.userRepo.GetByUsername(ctx, req.Username)
		if err == nil {
			return nil, errorx.New(errorx.AlreadyExists, "The username %s is taken", req.Username)
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check username: %v", err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	data := &entity.User{
		Username:        req.Username,
		ProfileImageURL: sql.NullString{Valid: req.ProfileImageURL != "", String: req.ProfileImageURL},
		Introduction:    sql.NullString{Valid: req.Introduction != "", String: req.Introduction},
	}

	if err := d.userRepo.UpdateByID(ctx, userID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	if changedUsername && user.IsNewUser {
		if err := d.userRepo.MarkProfileCompleted(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete user profile: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	updated, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get updated user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateProfileResponse{User: model.ConvertUser(updated, true)}, nil
}

func (d *userDomain) Agree(
	ctx context.Context, req *model.AgreementRequest,
) (*model.AgreementResponse, error) {
	now := time.Now()
	data := &entity.User{}
	if req.IsPrivacyAgreed {
		data.PrivacyAgreedAt = sql.NullTime{Valid: true, Time: now}
	}

	if req.IsLocationAgreed {
		data.LocationAgreedAt = sql.NullTime{Valid: true, Time: now}
	}

	err := d.userRepo.UpdateByID(ctx, xcontext.RequestUserID(ctx), data)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user agreements: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AgreementResponse{}, nil
}

func (d *userDomain) DeleteUser(
	ctx context.Context, req *model.DeleteUserRequest,
) (*model.DeleteUserResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke refresh tokens: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.DeleteByID(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteUserResponse{}, nil
}

func validateUsername(username string) error {
	if len(username) < 2 || len(username) > 30 {
		return errorx.New(errorx.BadRequest, "Username must be 2-30 characters")
	}

	if strings.HasPrefix(username, entity.PlaceholderUsernamePrefix) {
		return errorx.New(errorx.BadRequest,
			"Username cannot begin with %s", entity.PlaceholderUsernamePrefix)
	}

	return nil
}
