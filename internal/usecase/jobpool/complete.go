package jobpool

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/imaging"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
)

// PhotoStore keeps completion photos.
type PhotoStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

type CompleteInput struct {
	ServiceID uint
	// Photo is optional proof of work in any decodable format.
	Photo io.Reader
}

type CompleteService struct {
	Deps
	photos PhotoStore
}

// NewCompleteService accepts a nil store; photos are then refused.
func NewCompleteService(d Deps, photos PhotoStore) *CompleteService {
	return &CompleteService{Deps: d, photos: photos}
}

func (uc *CompleteService) Execute(
	ctx context.Context,
	userID string,
	in CompleteInput,
) (*models.Service, error) {

	// Fail fast before spending time on the photo.
	emp, svc, err := holdingEmployee(ctx, uc.Repo, userID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Validate(lifecycle.Status(svc.Status), lifecycle.StatusCompleted); err != nil {
		return nil, err
	}

	now := uc.now()
	if err := uc.Policy.AdmissibleWindow(svc.ScheduledDate).CheckWork(now); err != nil {
		return nil, err
	}

	var photoKey string
	if in.Photo != nil {
		if photoKey, err = uc.storePhoto(ctx, svc.ID, in.Photo); err != nil {
			return nil, err
		}
	}

	var completed *models.Service
	err = uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		ok, err := tx.ApplyChange(ctx, lifecycle.Complete(svc.ID, emp.ID, now, photoKey))
		if err != nil {
			return err
		}
		if !ok {
			return lostRace(ctx, tx, svc.ID, emp.ID, lifecycle.StatusCompleted)
		}

		if err := tx.CloseClaim(ctx, svc.ID, emp.ID, lifecycle.OutcomeCompleted, now); err != nil {
			return err
		}

		completed, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		if photoKey != "" {
			uc.discardPhoto(photoKey)
		}
		return nil, err
	}

	uc.record(audit.ActorUser, userID, "service_completed", completed, map[string]any{
		"photo_key": photoKey,
	})
	uc.publish(notify.ServiceCompleted, completed, now)

	return completed, nil
}

func (uc *CompleteService) storePhoto(ctx context.Context, serviceID uint, photo io.Reader) (string, error) {
	if uc.photos == nil {
		return "", httperr.InvalidInput("photo", "photo upload is not enabled")
	}

	body, err := imaging.ToWebP(photo, imaging.DefaultMaxEdge, imaging.DefaultQuality)
	if err != nil {
		return "", httperr.InvalidInput("photo", err.Error())
	}

	key := fmt.Sprintf("services/%d/completion-%s.webp", serviceID, uuid.NewString())
	if err := uc.photos.Put(ctx, key, body, imaging.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

// discardPhoto removes an upload whose completion did not commit. A failed
// delete only leaves an unreferenced object behind.
func (uc *CompleteService) discardPhoto(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uc.photos.Delete(ctx, key); err != nil {
		zap.L().Warn("failed to discard completion photo", zap.String("key", key), zap.Error(err))
	}
}
