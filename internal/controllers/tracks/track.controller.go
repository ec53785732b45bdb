package trackController

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trackforge/config"
	"trackforge/internal/database"
	"trackforge/internal/events"
	. "trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"
	"trackforge/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const analyticsCacheTTL = 30 * time.Second

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type TrackController struct {
	trackRepo          repositories.TrackRepository
	versionRepo        repositories.TrackVersionRepository
	artistRepo         repositories.ArtistRepository
	sequenceRepo       repositories.SequenceRepository
	activityRepo       repositories.ActivityRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
}

type CreateTrackRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Contributors []int64 `json:"contributors"`
}

type UpdateTrackRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Contributors []int64 `json:"contributors"`
	Version      int64   `json:"version"`
}

type SearchTracksRequest struct {
	Title       string `query:"title"`
	Contributor *int64 `query:"contributor"`
	Tag         string `query:"tag"`
	Genre       string `query:"genre"`
}

type VisibilityRequest struct {
	Visibility TrackVisibility `json:"visibility"`
}

type InviteRequest struct {
	UserID int64 `json:"userId"`
}

type AssignRoleRequest struct {
	UserID int64     `json:"userId"`
	Role   TrackRole `json:"role"`
}

type RateTrackRequest struct {
	UserID int64 `json:"userId"`
	Rating int64 `json:"rating"`
}

type TrackRatingResponse struct {
	Count   int64 `json:"count"`
	Average int64 `json:"average"`
}

type TagRequest struct {
	Tag string `json:"tag"`
}

type GenreRequest struct {
	Genre string `json:"genre"`
}

type AddCommentRequest struct {
	Commenter int64  `json:"commenter"`
	Text      string `json:"text"`
}

type DownloadableRequest struct {
	Downloadable bool `json:"downloadable"`
}

type AddVersionRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Contributors []int64 `json:"contributors"`
}

type SetSplitsRequest struct {
	Splits []Split `json:"splits"`
}

type DistributePaymentRequest struct {
	Payer     int64 `json:"payer"`
	Amount    int64 `json:"amount"`
	Timestamp int64 `json:"timestamp"`
}

type TrackControllerInterface interface {
	Create(ctx context.Context, request *CreateTrackRequest) (*Track, error)
	Get(ctx context.Context, id int64) (*Track, error)
	Update(ctx context.Context, id int64, request *UpdateTrackRequest) (*Track, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, request *SearchTracksRequest) ([]Track, error)
	GetVisibility(ctx context.Context, id int64) (TrackVisibility, error)
	SetVisibility(ctx context.Context, id int64, request *VisibilityRequest) (*Track, error)
	Invite(ctx context.Context, id int64, request *InviteRequest) (*Track, error)
	AssignRole(ctx context.Context, id int64, request *AssignRoleRequest) (*Track, error)
	GetUserRole(ctx context.Context, id, userID int64) (TrackRole, error)
	Rate(ctx context.Context, id int64, request *RateTrackRequest) (*Track, error)
	GetRating(ctx context.Context, id int64) (*TrackRatingResponse, error)
	GetUserRating(ctx context.Context, id, userID int64) (int64, error)
	AddTag(ctx context.Context, id int64, request *TagRequest) (*Track, error)
	RemoveTag(ctx context.Context, id int64, tag string) (*Track, error)
	GetGenre(ctx context.Context, id int64) (string, error)
	SetGenre(ctx context.Context, id int64, request *GenreRequest) (*Track, error)
	AddComment(ctx context.Context, id int64, request *AddCommentRequest) (*Track, error)
	ListComments(ctx context.Context, id int64) ([]Comment, error)
	IncrementPlayCount(ctx context.Context, id int64) (*Track, error)
	SetDownloadable(ctx context.Context, id int64, request *DownloadableRequest) (*Track, error)
	AddVersion(ctx context.Context, id int64, request *AddVersionRequest) (*Track, error)
	ListVersions(ctx context.Context, id int64) ([]TrackVersion, error)
	SetSplits(ctx context.Context, id int64, request *SetSplitsRequest) (*Track, error)
	GetSplits(ctx context.Context, id int64) ([]Split, error)
	DistributePayment(ctx context.Context, id int64, request *DistributePaymentRequest) (*Track, error)
	PaymentHistory(ctx context.Context, id int64) ([]Payment, error)
	Analytics(ctx context.Context, id int64) (*TrackAnalytics, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
	eventBus *events.EventBus,
) TrackControllerInterface {
	return &TrackController{
		trackRepo:          repos.Track,
		versionRepo:        repos.TrackVersion,
		artistRepo:         repos.Artist,
		sequenceRepo:       repos.Sequence,
		activityRepo:       repos.Activity,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
	}
}

func (c *TrackController) Create(
	ctx context.Context,
	request *CreateTrackRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("Create")

	if request.Title == "" {
		return nil, log.ErrorWithType(ErrValidation, "title is required")
	}
	if request.Description == "" {
		return nil, log.ErrorWithType(ErrValidation, "description is required")
	}
	if len(request.Contributors) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "at least one contributor is required")
	}

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var track *Track
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		id, err := c.sequenceRepo.Allocate(ctx, tx, SeqTracks)
		if err != nil {
			return err
		}

		track = &Track{
			ID:           id,
			Title:        request.Title,
			Description:  request.Description,
			Contributors: datatypes.NewJSONSlice(request.Contributors),
			Version:      1,
			Visibility:   VisibilityPublic,
		}
		for _, contributor := range request.Contributors {
			track.AssignRole(contributor, RoleOwner)
		}

		if err := c.trackRepo.Create(ctx, tx, track); err != nil {
			return err
		}

		// The ledger opens with the creation snapshot.
		return c.versionRepo.Create(ctx, tx, &TrackVersion{
			TrackID:      track.ID,
			Version:      1,
			Title:        track.Title,
			Description:  track.Description,
			Contributors: track.Contributors,
		})
	})
	if err != nil {
		return nil, err
	}

	for _, contributor := range request.Contributors {
		c.logActivity(ctx, contributor, ActionCreateTrack, fmt.Sprintf("Track %d created", track.ID))
	}

	log.Info("Track created", "trackID", track.ID, "contributors", len(request.Contributors))

	return track, nil
}

func (c *TrackController) Get(ctx context.Context, id int64) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("Get")

	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	track, err := c.trackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, log.ErrorWithType(ErrNotFound, "track not found", "id", id)
	}

	return track, nil
}

// Update overwrites title, description, contributors and version in place. It
// does not advance the version counter or touch the version ledger; AddVersion
// is the only operation that does.
func (c *TrackController) Update(
	ctx context.Context,
	id int64,
	request *UpdateTrackRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("Update")

	if request.Title == "" {
		return nil, log.ErrorWithType(ErrValidation, "title is required")
	}
	if request.Description == "" {
		return nil, log.ErrorWithType(ErrValidation, "description is required")
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Title = request.Title
		track.Description = request.Description
		track.Contributors = datatypes.NewJSONSlice(request.Contributors)
		track.Version = request.Version
		return nil
	})
}

// Delete removes the track and its full version history atomically.
func (c *TrackController) Delete(ctx context.Context, id int64) error {
	log := logger.NewWithContext(ctx, "trackController").Function("Delete")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		deleted, err := c.trackRepo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return log.ErrorWithType(ErrNotFound, "track not found", "id", id)
		}

		return c.versionRepo.DeleteByTrack(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	log.Info("Track deleted", "trackID", id)

	return nil
}

// Search applies at most one filter; an empty request lists every track.
func (c *TrackController) Search(
	ctx context.Context,
	request *SearchTracksRequest,
) ([]Track, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	switch {
	case request.Contributor != nil:
		return c.trackRepo.SearchByContributor(ctx, *request.Contributor)
	case request.Tag != "":
		return c.trackRepo.SearchByTag(ctx, request.Tag)
	case request.Genre != "":
		return c.trackRepo.SearchByGenre(ctx, request.Genre)
	default:
		return c.trackRepo.SearchByTitle(ctx, request.Title)
	}
}

func (c *TrackController) GetVisibility(ctx context.Context, id int64) (TrackVisibility, error) {
	track, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return track.Visibility, nil
}

func (c *TrackController) SetVisibility(
	ctx context.Context,
	id int64,
	request *VisibilityRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("SetVisibility")

	if !request.Visibility.Valid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid visibility", "visibility", request.Visibility)
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Visibility = request.Visibility
		return nil
	})
}

func (c *TrackController) Invite(
	ctx context.Context,
	id int64,
	request *InviteRequest,
) (*Track, error) {
	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Invite(request.UserID)
		return nil
	})
}

func (c *TrackController) AssignRole(
	ctx context.Context,
	id int64,
	request *AssignRoleRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("AssignRole")

	if !request.Role.Valid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid role", "role", request.Role)
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.AssignRole(request.UserID, request.Role)
		return nil
	})
}

func (c *TrackController) GetUserRole(ctx context.Context, id, userID int64) (TrackRole, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("GetUserRole")

	track, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}

	role, ok := track.RoleOf(userID)
	if !ok {
		return "", log.ErrorWithType(ErrNotFound, "user has no role on track", "trackID", id, "userID", userID)
	}

	return role, nil
}

func (c *TrackController) Rate(
	ctx context.Context,
	id int64,
	request *RateTrackRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("Rate")

	if request.Rating < 1 || request.Rating > 5 {
		return nil, log.ErrorWithType(ErrValidation, "rating must be between 1 and 5", "rating", request.Rating)
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.SetRating(request.UserID, request.Rating)
		return nil
	})
}

func (c *TrackController) GetRating(ctx context.Context, id int64) (*TrackRatingResponse, error) {
	track, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, avg := track.RatingSummary()
	return &TrackRatingResponse{Count: count, Average: avg}, nil
}

func (c *TrackController) GetUserRating(ctx context.Context, id, userID int64) (int64, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("GetUserRating")

	track, err := c.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	rating, ok := track.RatingOf(userID)
	if !ok {
		return 0, log.ErrorWithType(ErrNotFound, "user has not rated track", "trackID", id, "userID", userID)
	}

	return rating, nil
}

func (c *TrackController) AddTag(
	ctx context.Context,
	id int64,
	request *TagRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("AddTag")

	if request.Tag == "" {
		return nil, log.ErrorWithType(ErrValidation, "tag is required")
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.AddTag(request.Tag)
		return nil
	})
}

func (c *TrackController) RemoveTag(ctx context.Context, id int64, tag string) (*Track, error) {
	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.RemoveTag(tag)
		return nil
	})
}

func (c *TrackController) GetGenre(ctx context.Context, id int64) (string, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("GetGenre")

	track, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if track.Genre == nil {
		return "", log.ErrorWithType(ErrNotFound, "track has no genre", "trackID", id)
	}

	return *track.Genre, nil
}

func (c *TrackController) SetGenre(
	ctx context.Context,
	id int64,
	request *GenreRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("SetGenre")

	if request.Genre == "" {
		return nil, log.ErrorWithType(ErrValidation, "genre is required")
	}

	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Genre = &request.Genre
		return nil
	})
}

func (c *TrackController) AddComment(
	ctx context.Context,
	id int64,
	request *AddCommentRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("AddComment")

	if request.Text == "" {
		return nil, log.ErrorWithType(ErrValidation, "comment text is required")
	}

	track, err := c.mutateTrack(ctx, id, func(track *Track) error {
		track.Comments = append(track.Comments, Comment{
			Commenter: request.Commenter,
			Text:      request.Text,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logActivity(ctx, request.Commenter, ActionAddComment,
		fmt.Sprintf("Commented on track %d: %s", id, request.Text))

	return track, nil
}

func (c *TrackController) ListComments(ctx context.Context, id int64) ([]Comment, error) {
	track, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return append([]Comment{}, track.Comments...), nil
}

func (c *TrackController) IncrementPlayCount(ctx context.Context, id int64) (*Track, error) {
	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.PlayCount++
		return nil
	})
}

func (c *TrackController) SetDownloadable(
	ctx context.Context,
	id int64,
	request *DownloadableRequest,
) (*Track, error) {
	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Downloadable = request.Downloadable
		return nil
	})
}

// AddVersion advances the track's version counter by exactly one, overwrites
// the live title/description/contributors, and appends an immutable snapshot
// carrying the new version number.
func (c *TrackController) AddVersion(
	ctx context.Context,
	id int64,
	request *AddVersionRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("AddVersion")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var track *Track
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		track, err = c.trackRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if track == nil {
			return log.ErrorWithType(ErrNotFound, "track not found", "id", id)
		}

		track.Version++
		track.Title = request.Title
		track.Description = request.Description
		track.Contributors = datatypes.NewJSONSlice(request.Contributors)

		if err := c.trackRepo.Save(ctx, tx, track); err != nil {
			return err
		}

		return c.versionRepo.Create(ctx, tx, &TrackVersion{
			TrackID:      track.ID,
			Version:      track.Version,
			Title:        track.Title,
			Description:  track.Description,
			Contributors: track.Contributors,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info("Track version added", "trackID", id, "version", track.Version)

	return track, nil
}

// ListVersions returns the ordered ledger; unknown tracks yield an empty list.
func (c *TrackController) ListVersions(ctx context.Context, id int64) ([]TrackVersion, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.versionRepo.ListByTrack(ctx, id)
}

// SetSplits replaces the split list wholesale. The percentage sum is not
// validated; distribution applies each entry independently.
func (c *TrackController) SetSplits(
	ctx context.Context,
	id int64,
	request *SetSplitsRequest,
) (*Track, error) {
	return c.mutateTrack(ctx, id, func(track *Track) error {
		track.Splits = datatypes.NewJSONSlice(request.Splits)
		return nil
	})
}

func (c *TrackController) GetSplits(ctx context.Context, id int64) ([]Split, error) {
	track, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return append([]Split{}, track.Splits...), nil
}

// DistributePayment credits each split artist share = amount * pct / 100 with
// integer truncation; the remainder is retained by no one. Split entries that
// do not resolve to a known artist are skipped with a diagnostic, and the
// payment is recorded on the track either way.
func (c *TrackController) DistributePayment(
	ctx context.Context,
	id int64,
	request *DistributePaymentRequest,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("DistributePayment")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var track *Track
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		track, err = c.trackRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if track == nil {
			return log.ErrorWithType(ErrNotFound, "track not found", "id", id)
		}
		if len(track.Splits) == 0 {
			return log.ErrorWithType(ErrValidation, "track has no splits configured", "trackID", id)
		}
		if request.Amount <= 0 {
			return log.ErrorWithType(ErrValidation, "payment amount must be positive",
				"trackID", id, "amount", request.Amount)
		}

		for _, split := range track.Splits {
			share := request.Amount * split.Pct / 100

			artist, err := c.artistRepo.GetByIDTx(ctx, tx, split.ArtistID)
			if err != nil {
				return err
			}
			if artist == nil {
				log.Warn("split artist not found, skipping share",
					"trackID", id, "artistID", split.ArtistID, "share", share)
				continue
			}

			artist.RoyaltyBalance += share
			if err := c.artistRepo.Save(ctx, tx, artist); err != nil {
				return err
			}
		}

		track.Payments = append(track.Payments, Payment{
			Payer:     request.Payer,
			Amount:    request.Amount,
			Timestamp: request.Timestamp,
		})

		return c.trackRepo.Save(ctx, tx, track)
	})
	if err != nil {
		return nil, err
	}

	c.logActivity(ctx, request.Payer, ActionDistributePayment,
		fmt.Sprintf("Paid %d for track %d", request.Amount, id))

	log.Info("Payment distributed", "trackID", id, "payer", request.Payer, "amount", request.Amount)

	return track, nil
}

func (c *TrackController) PaymentHistory(ctx context.Context, id int64) ([]Payment, error) {
	track, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return append([]Payment{}, track.Payments...), nil
}

// Analytics serves the derived aggregate, cached briefly when a cache is
// configured. Cache failures fall through to the live computation.
func (c *TrackController) Analytics(ctx context.Context, id int64) (*TrackAnalytics, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("Analytics")

	cacheKey := fmt.Sprintf("track:analytics:%d", id)
	if c.db.Cache.General != nil {
		var cached TrackAnalytics
		found, err := database.NewCacheBuilder(c.db.Cache.General, cacheKey).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("analytics cache read failed", "trackID", id, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	track, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	analytics := track.Analytics()

	if c.db.Cache.General != nil {
		if err := database.NewCacheBuilder(c.db.Cache.General, cacheKey).
			WithContext(ctx).
			WithStruct(analytics).
			WithTTL(analyticsCacheTTL).
			Set(); err != nil {
			log.Warn("analytics cache write failed", "trackID", id, "error", err)
		}
	}

	return &analytics, nil
}

// mutateTrack loads the track, applies fn, and saves the whole row under the
// store gate. fn may reject the mutation by returning an error.
func (c *TrackController) mutateTrack(
	ctx context.Context,
	id int64,
	fn func(track *Track) error,
) (*Track, error) {
	log := logger.NewWithContext(ctx, "trackController").Function("mutateTrack")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var track *Track
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		track, err = c.trackRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if track == nil {
			return log.ErrorWithType(ErrNotFound, "track not found", "id", id)
		}

		if err := fn(track); err != nil {
			return err
		}

		return c.trackRepo.Save(ctx, tx, track)
	})
	if err != nil {
		return nil, err
	}

	return track, nil
}

// logActivity appends to the activity feed and broadcasts the entry. Failures
// are logged and swallowed; activity emission never fails the operation.
func (c *TrackController) logActivity(ctx context.Context, userID int64, action, details string) {
	log := logger.NewWithContext(ctx, "trackController").Function("logActivity")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		activity, err := c.activityRepo.Log(ctx, tx, userID, action, details)
		if err != nil {
			return err
		}

		if c.eventBus != nil {
			_ = c.eventBus.PublishActivity(userID, action, details, activity.Timestamp)
		}

		return nil
	})
	if err != nil {
		log.Er("failed to record activity", err, "userID", userID, "action", action)
	}
}
