package domain

import (
	"strings"
	"testing"

	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_storageDomain_GeneratePresignedURL(t *testing.T) {
	ctx := testutil.MockContextWithUserID(1)
	storageDomain := NewStorageDomain(&testutil.MockStorage{})

	resp, err := storageDomain.GeneratePresignedURL(ctx, &model.GeneratePresignedURLRequest{
		UploadType:  "profile",
		FileName:    "avatar.PNG",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.SignedURL, "https://storage.example.com/upload/profile/u1/"))
	require.True(t, strings.HasSuffix(resp.ObjectURL, ".png"))
	require.NotZero(t, resp.ExpiresIn)
}

func Test_storageDomain_GeneratePresignedURL_Invalid(t *testing.T) {
	ctx := testutil.MockContextWithUserID(1)
	storageDomain := NewStorageDomain(&testutil.MockStorage{})

	var errx errorx.Error

	_, err := storageDomain.GeneratePresignedURL(ctx, &model.GeneratePresignedURLRequest{
		UploadType:  "banner",
		FileName:    "a.png",
		ContentType: "image/png",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = storageDomain.GeneratePresignedURL(ctx, &model.GeneratePresignedURLRequest{
		UploadType:  "profile",
		FileName:    "a.png",
		ContentType: "image/gif",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = storageDomain.GeneratePresignedURL(ctx, &model.GeneratePresignedURLRequest{
		UploadType:  "profile",
		FileName:    "a.gif",
		ContentType: "image/png",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = storageDomain.GeneratePresignedURL(ctx, &model.GeneratePresignedURLRequest{
		UploadType:  "profile",
		FileName:    "a.png",
		ContentType: "image/png",
		FileSize:    100 * 1024 * 1024,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
