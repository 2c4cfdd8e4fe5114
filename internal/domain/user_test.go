package domain

import (
	"testing"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
	)
}

func Test_userDomain_GetUser(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	userDomain := newTestUserDomain()

	resp, err := userDomain.GetUser(ctx, &model.GetUserRequest{ID: user.ID})
	require.NoError(t, err)
	require.Equal(t, "somebody", resp.User.Username)

	// The public profile never exposes the email nor the login provider.
	require.Empty(t, resp.User.Email)
	require.Empty(t, resp.User.Provider)

	_, err = userDomain.GetUser(ctx, &model.GetUserRequest{ID: 12345})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	userDomain := newTestUserDomain()

	resp, err := userDomain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "somebody@example.com", resp.User.Email)
}

func Test_userDomain_UpdateProfile(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "user12abc")
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", user.ID).
		Update("is_new_user", true).Error
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	userDomain := newTestUserDomain()

	// Choosing a real username completes the sign up.
	resp, err := userDomain.UpdateProfile(ctx, &model.UpdateProfileRequest{
		Username:     "dolphin_fan",
		Introduction: "hello there",
	})
	require.NoError(t, err)
	require.Equal(t, "dolphin_fan", resp.User.Username)
	require.Equal(t, "hello there", resp.User.Introduction)
	require.True(t, resp.User.ProfileCompleted)

	var updated entity.User
	require.NoError(t, xcontext.DB(ctx).Take(&updated, "id=?", user.ID).Error)
	require.False(t, updated.IsNewUser)
}

func Test_userDomain_UpdateProfile_InvalidUsername(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	userDomain := newTestUserDomain()

	var errx errorx.Error

	// Too short.
	_, err := userDomain.UpdateProfile(ctx, &model.UpdateProfileRequest{Username: "a"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// The placeholder prefix is reserved for generated usernames.
	_, err = userDomain.UpdateProfile(ctx, &model.UpdateProfileRequest{Username: "user999"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_userDomain_UpdateProfile_TakenUsername(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	testutil.CreateUser(ctx, "taken_name")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	userDomain := newTestUserDomain()

	_, err := userDomain.UpdateProfile(ctx, &model.UpdateProfileRequest{Username: "taken_name"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// Keeping the current username is not a collision.
	_, err = userDomain.UpdateProfile(ctx, &model.UpdateProfileRequest{
		Username:     "somebody",
		Introduction: "just the introduction",
	})
	require.NoError(t, err)
}

func Test_userDomain_Agree(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	userDomain := newTestUserDomain()

	_, err := userDomain.Agree(ctx, &model.AgreementRequest{IsPrivacyAgreed: true})
	require.NoError(t, err)

	var updated entity.User
	require.NoError(t, xcontext.DB(ctx).Take(&updated, "id=?", user.ID).Error)
	require.True(t, updated.PrivacyAgreedAt.Valid)
	require.False(t, updated.LocationAgreedAt.Valid)

	_, err = userDomain.Agree(ctx, &model.AgreementRequest{IsLocationAgreed: true})
	require.NoError(t, err)

	require.NoError(t, xcontext.DB(ctx).Take(&updated, "id=?", user.ID).Error)
	require.True(t, updated.PrivacyAgreedAt.Valid)
	require.True(t, updated.LocationAgreedAt.Valid)

	// The flags surface on the own profile.
	meResp, err := userDomain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.True(t, meResp.User.IsPrivacyAgreed)
	require.True(t, meResp.User.IsLocationAgreed)
}

func Test_userDomain_DeleteUser(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	refreshTokenRepo := repository.NewRefreshTokenRepository()
	err := refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        user.ID,
		Token:         "some-refresh-token",
		Status:        entity.TokenStatusActive,
	})
	require.NoError(t, err)

	userDomain := newTestUserDomain()
	_, err = userDomain.DeleteUser(ctx, &model.DeleteUserRequest{})
	require.NoError(t, err)

	// The account is soft deleted and the sessions are revoked.
	err = xcontext.DB(ctx).Take(&entity.User{}, "id=?", user.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var token entity.RefreshToken
	require.NoError(t, xcontext.DB(ctx).Take(&token, "token=?", "some-refresh-token").Error)
	require.Equal(t, entity.TokenStatusRevoked, token.Status)
}
