package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/pubsub"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PlaceDomain interface {
	GetPlace(context.Context, *model.GetPlaceRequest) (*model.GetPlaceResponse, error)
	SearchPlaces(context.Context, *model.SearchPlacesRequest) (*model.SearchPlacesResponse, error)
	ToggleBookmark(context.Context, *model.ToggleBookmarkRequest) (*model.ToggleBookmarkResponse, error)
	ListBookmarks(context.Context, *model.ListBookmarksRequest) (*model.ListBookmarksResponse, error)
}

type placeDomain struct {
	placeRepo repository.PlaceRepository
	publisher pubsub.Publisher
}

func NewPlaceDomain(
	placeRepo repository.PlaceRepository,
	publisher pubsub.Publisher,
) PlaceDomain {
	return &placeDomain{
		placeRepo: placeRepo,
		publisher: publisher,
	}
}

func (d *placeDomain) GetPlace(
	ctx context.Context, req *model.GetPlaceRequest,
) (*model.GetPlaceResponse, error) {
	place, err := d.placeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found place")
		}

		xcontext.Logger(ctx).Errorf("Cannot get place: %v", err)
		return nil, errorx.Unknown
	}

	bookmarked := false
	if userID := xcontext.RequestUserID(ctx); userID != 0 {
		_, err := d.placeRepo.GetBookmark(ctx, userID, place.ID)
		if err == nil {
			bookmarked = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get bookmark: %v", err)
			return nil, errorx.Unknown
		}
	}

	count, err := d.placeRepo.CountBookmarksByPlaceID(ctx, place.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count bookmarks: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPlaceResponse{
		Place: model.ConvertPlace(place, bookmarked, count),
	}, nil
}

func (d *placeDomain) SearchPlaces(
	ctx context.Context, req *model.SearchPlacesRequest,
) (*model.SearchPlacesResponse, error) {
	if req.Query == "" {
		return nil, errorx.New(errorx.BadRequest, "Search query is required")
	}

	places, err := d.placeRepo.Search(ctx, req.Query, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search places: %v", err)
		return nil, errorx.Unknown
	}

	bookmarkedIDs := map[int64]bool{}
	if userID := xcontext.RequestUserID(ctx); userID != 0 {
		ids, err := d.placeRepo.ListBookmarkedPlaceIDs(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot list bookmarked places: %v", err)
			return nil, errorx.Unknown
		}

		for _, id := range ids {
			bookmarkedIDs[id] = true
		}
	}

	result := []model.Place{}
	for i := range places {
		count, err := d.placeRepo.CountBookmarksByPlaceID(ctx, places[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count bookmarks: %v", err)
			return nil, errorx.Unknown
		}

		result = append(result,
			model.ConvertPlace(&places[i], bookmarkedIDs[places[i].ID], count))
	}

	return &model.SearchPlacesResponse{Places: result}, nil
}

func (d *placeDomain) ToggleBookmark(
	ctx context.Context, req *model.ToggleBookmarkRequest,
) (*model.ToggleBookmarkResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	_, err := d.placeRepo.GetByID(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found place")
		}

		xcontext.Logger(ctx).Errorf("Cannot get place: %v", err)
		return nil, errorx.Unknown
	}

	bookmarked := false
	_, err = d.placeRepo.GetBookmark(ctx, userID, req.PlaceID)
	switch {
	case err == nil:
		if err := d.placeRepo.DeleteBookmark(ctx, userID, req.PlaceID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete bookmark: %v", err)
			return nil, errorx.Unknown
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		bookmark := &entity.PlaceBookmark{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			UserID:        userID,
			PlaceID:       req.PlaceID,
		}

		if err := d.placeRepo.CreateBookmark(ctx, bookmark); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create bookmark: %v", err)
			return nil, errorx.Unknown
		}

		bookmarked = true

	default:
		xcontext.Logger(ctx).Errorf("Cannot get bookmark: %v", err)
		return nil, errorx.Unknown
	}

	d.publishBookmarkEvent(ctx, userID, req.PlaceID, bookmarked)
	return &model.ToggleBookmarkResponse{Bookmarked: bookmarked}, nil
}

func (d *placeDomain) ListBookmarks(
	ctx context.Context, req *model.ListBookmarksRequest,
) (*model.ListBookmarksResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	bookmarks, err := d.placeRepo.ListBookmarksByUserID(
		ctx, userID, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list bookmarks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Place{}
	for i := range bookmarks {
		count, err := d.placeRepo.CountBookmarksByPlaceID(ctx, bookmarks[i].PlaceID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count bookmarks: %v", err)
			return nil, errorx.Unknown
		}

		result = append(result, model.ConvertPlace(&bookmarks[i].Place, true, count))
	}

	return &model.ListBookmarksResponse{Places: result}, nil
}

// publishBookmarkEvent is best effort. The bookmark row is the source of
// truth, the event only refreshes caches.
func (d *placeDomain) publishBookmarkEvent(
	ctx context.Context, userID, placeID int64, bookmarked bool,
) {
	b, err := json.Marshal(model.BookmarkEvent{
		UserID:     userID,
		PlaceID:    placeID,
		Bookmarked: bookmarked,
		OccurredAt: time.Now(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal bookmark event: %v", err)
		return
	}

	err = d.publisher.Publish(ctx, common.BookmarkChangedTopic, &pubsub.Pack{
		Key: []byte(strconv.FormatInt(userID, 10)),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish bookmark event: %v", err)
	}
}
