package model

import (
	"time"

	"github.com/dolpin-app/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:               user.ID,
		Username:         user.Username,
		ProfileImageURL:  user.ProfileImageURL.String,
		Introduction:     user.Introduction.String,
		ProfileCompleted: !user.IsNewUser,
	}

	if includeSensitive {
		result.Email = user.Email.String
		result.Provider = user.Provider
		result.IsPrivacyAgreed = user.PrivacyAgreedAt.Valid
		result.IsLocationAgreed = user.LocationAgreedAt.Valid
	}

	return result
}

func ConvertPlace(place *entity.Place, bookmarked bool, bookmarkCount int64) Place {
	if place == nil {
		return Place{}
	}

	return Place{
		ID:            place.ID,
		Name:          place.Name,
		Category:      place.Category,
		Address:       place.Address,
		Phone:         place.Phone,
		Lat:           place.Lat,
		Lng:           place.Lng,
		ImageURLs:     []string(place.ImageURLs),
		Bookmarked:    bookmarked,
		BookmarkCount: bookmarkCount,
	}
}

func ConvertMoment(moment *entity.Moment, username string, commentCount int64) Moment {
	if moment == nil {
		return Moment{}
	}

	return Moment{
		ID:           moment.ID,
		UserID:       moment.UserID,
		Username:     username,
		PlaceID:      moment.PlaceID.Int64,
		PlaceName:    moment.PlaceName,
		Title:        moment.Title,
		Content:      moment.Content,
		Images:       []string(moment.Images),
		Thumbnail:    moment.Thumbnail(),
		IsPublic:     moment.IsPublic,
		ViewCount:    moment.ViewCount,
		CommentCount: commentCount,
		CreatedAt:    moment.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertComment(comment *entity.Comment, user *entity.User) Comment {
	if comment == nil {
		return Comment{}
	}

	result := Comment{
		ID:        comment.ID,
		MomentID:  comment.MomentID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
	}

	if user != nil {
		result.UserID = user.ID
		result.Username = user.Username
		result.ProfileImageURL = user.ProfileImageURL.String
	}

	return result
}

// ConvertDeletedComment renders the placeholder shown in place of a removed
// comment which still has visible replies.
func ConvertDeletedComment(comment *entity.Comment) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:        comment.ID,
		MomentID:  comment.MomentID,
		IsDeleted: true,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
	}
}
