package artistController

import (
	"context"
	"errors"
	"fmt"
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

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type ArtistController struct {
	artistRepo         repositories.ArtistRepository
	sequenceRepo       repositories.SequenceRepository
	activityRepo       repositories.ActivityRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
}

type RegisterArtistRequest struct {
	Name            string   `json:"name"`
	Bio             string   `json:"bio,omitempty"`
	Social          *string  `json:"social,omitempty"`
	ProfileImageURL *string  `json:"profileImageUrl,omitempty"`
	Links           []string `json:"links,omitempty"`
}

type UpdateArtistRequest struct {
	Name            string   `json:"name"`
	Bio             string   `json:"bio,omitempty"`
	Social          *string  `json:"social,omitempty"`
	ProfileImageURL *string  `json:"profileImageUrl,omitempty"`
	Links           []string `json:"links,omitempty"`
}

type WithdrawRequest struct {
	Amount int64 `json:"amount"`
}

type ArtistControllerInterface interface {
	Register(ctx context.Context, request *RegisterArtistRequest) (*Artist, error)
	Get(ctx context.Context, id int64) (*Artist, error)
	Update(ctx context.Context, id int64, request *UpdateArtistRequest) (*Artist, error)
	List(ctx context.Context) ([]Artist, error)
	GetRoyaltyBalance(ctx context.Context, id int64) (int64, error)
	Withdraw(ctx context.Context, id int64, request *WithdrawRequest) (*Artist, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
	eventBus *events.EventBus,
) ArtistControllerInterface {
	return &ArtistController{
		artistRepo:         repos.Artist,
		sequenceRepo:       repos.Sequence,
		activityRepo:       repos.Activity,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
	}
}

func (c *ArtistController) Register(
	ctx context.Context,
	request *RegisterArtistRequest,
) (*Artist, error) {
	log := logger.NewWithContext(ctx, "artistController").Function("Register")

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var artist *Artist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		id, err := c.sequenceRepo.Allocate(ctx, tx, SeqArtists)
		if err != nil {
			return err
		}

		artist = &Artist{
			ID:              id,
			Name:            request.Name,
			Bio:             request.Bio,
			Social:          request.Social,
			ProfileImageURL: request.ProfileImageURL,
			Links:           datatypes.NewJSONSlice(request.Links),
		}

		return c.artistRepo.Create(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Artist registered", "artistID", artist.ID)

	return artist, nil
}

func (c *ArtistController) Get(ctx context.Context, id int64) (*Artist, error) {
	log := logger.NewWithContext(ctx, "artistController").Function("Get")

	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	artist, err := c.artistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, log.ErrorWithType(ErrNotFound, "artist not found", "id", id)
	}

	return artist, nil
}

func (c *ArtistController) Update(
	ctx context.Context,
	id int64,
	request *UpdateArtistRequest,
) (*Artist, error) {
	log := logger.NewWithContext(ctx, "artistController").Function("Update")

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var artist *Artist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		artist, err = c.artistRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if artist == nil {
			return log.ErrorWithType(ErrNotFound, "artist not found", "id", id)
		}

		artist.Name = request.Name
		artist.Bio = request.Bio
		artist.Social = request.Social
		artist.ProfileImageURL = request.ProfileImageURL
		artist.Links = datatypes.NewJSONSlice(request.Links)

		return c.artistRepo.Save(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Artist updated", "artistID", id)

	return artist, nil
}

func (c *ArtistController) List(ctx context.Context) ([]Artist, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	return c.artistRepo.List(ctx)
}

// GetRoyaltyBalance reports 0 for unknown artists rather than failing.
func (c *ArtistController) GetRoyaltyBalance(ctx context.Context, id int64) (int64, error) {
	c.db.Gate.RLock()
	defer c.db.Gate.RUnlock()

	artist, err := c.artistRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if artist == nil {
		return 0, nil
	}

	return artist.RoyaltyBalance, nil
}

// Withdraw debits the artist's balance. The balance is untouched when the
// amount is zero or exceeds the current balance. Settlement against any real
// ledger is out of scope; this is a balance-sheet adjustment only.
func (c *ArtistController) Withdraw(
	ctx context.Context,
	id int64,
	request *WithdrawRequest,
) (*Artist, error) {
	log := logger.NewWithContext(ctx, "artistController").Function("Withdraw")

	c.db.Gate.Lock()
	defer c.db.Gate.Unlock()

	var artist *Artist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		artist, err = c.artistRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if artist == nil {
			return log.ErrorWithType(ErrNotFound, "artist not found", "id", id)
		}

		if request.Amount <= 0 {
			return log.ErrorWithType(ErrValidation, "withdrawal amount must be positive",
				"amount", request.Amount)
		}
		if request.Amount > artist.RoyaltyBalance {
			return log.ErrorWithType(
				ErrValidation,
				"withdrawal exceeds balance",
				"amount", request.Amount,
				"balance", artist.RoyaltyBalance,
			)
		}

		artist.RoyaltyBalance -= request.Amount

		return c.artistRepo.Save(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	c.logActivity(ctx, id, ActionWithdrawRoyalties, fmt.Sprintf("Withdrew %d tokens", request.Amount))

	log.Info("Royalties withdrawn", "artistID", id, "amount", request.Amount)

	return artist, nil
}

// logActivity appends to the activity feed and broadcasts the entry. Failures
// are logged and swallowed; activity emission never fails the operation.
func (c *ArtistController) logActivity(ctx context.Context, userID int64, action, details string) {
	log := logger.NewWithContext(ctx, "artistController").Function("logActivity")

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
