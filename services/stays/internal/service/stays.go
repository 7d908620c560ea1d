package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roamstay/marketplace/pkg/events"
	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/services/stays/internal/models"
	"github.com/roamstay/marketplace/services/stays/internal/repo"
	"github.com/roamstay/marketplace/services/stays/internal/transport"
)

const stayEventsTopic = "stay_events"

var (
	ErrValidation      = errors.New("invalid stay data")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("stay belongs to another host")
)

// SearchIndex is the listing search backend. Indexing failures are logged
// and swallowed; the database remains authoritative.
type SearchIndex interface {
	IndexStay(ctx context.Context, stay *models.Stay) error
	DeleteStay(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Stay, error)
}

type StaysService struct {
	Repo     repo.GormRepo
	Index    SearchIndex
	Producer *events.Producer
}

func (s *StaysService) publish(ctx context.Context, eventType string, stay *models.Stay) {
	l := logging.FromContext(ctx)

	event := map[string]any{
		"type":    eventType,
		"stay_id": stay.ID.String(),
		"host_id": stay.HostID.String(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, stayEventsTopic, stay.ID.String(), event); err != nil {
		l.Error("event_publish_failed", "type", eventType, "error", err)
	}
}

func (s *StaysService) reindex(ctx context.Context, stay *models.Stay) {
	if s.Index == nil {
		return
	}
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Index.IndexStay(idxCtx, stay); err != nil {
		logging.FromContext(ctx).Error("stay_index_failed", "stay_id", stay.ID.String(), "error", err)
	}
}

func (s *StaysService) GetStay(ctx context.Context, id uuid.UUID) (*models.Stay, error) {
	return s.Repo.GetStay(ctx, id)
}

func (s *StaysService) ListStays(ctx context.Context, offset, limit int) (int64, []models.Stay, error) {
	return s.Repo.ListStays(ctx, offset, limit)
}

func (s *StaysService) SearchStays(ctx context.Context, query string, from, size int) (int64, []models.Stay, error) {
	query = strings.TrimSpace(query)
	if query == "" || s.Index == nil {
		return 0, []models.Stay{}, nil
	}
	return s.Index.Search(ctx, query, from, size)
}

func (s *StaysService) CreateStay(ctx context.Context, hostID string, req transport.CreateStayRequest) (*models.Stay, error) {
	l := logging.FromContext(ctx).With("svc", "stays.create")

	host, err := uuid.Parse(hostID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" || req.PricePerNight <= 0 {
		return nil, ErrValidation
	}
	if req.MaxGuests <= 0 {
		req.MaxGuests = 1
	}

	stay := models.Stay{
		HostID:        host,
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		Country:       req.Country,
		Address:       req.Address,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
	}

	if err := s.Repo.CreateStay(ctx, &stay); err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return nil, err
	}

	s.reindex(ctx, &stay)
	s.publish(ctx, "stay_created", &stay)
	l.Info("create_successful", "stay_id", stay.ID.String())

	return &stay, nil
}

func (s *StaysService) PatchStay(ctx context.Context, hostID string, id uuid.UUID, req transport.PatchStayRequest) (*models.Stay, error) {
	l := logging.FromContext(ctx).With("svc", "stays.patch")

	stay, err := s.Repo.GetStay(ctx, id)
	if err != nil {
		return nil, err
	}
	if stay.HostID.String() != hostID {
		l.Warn("patch_denied", "status", 403, "stay_id", id.String())
		return nil, ErrForbidden
	}
	if req.PricePerNight != nil && *req.PricePerNight <= 0 {
		return nil, ErrValidation
	}

	if err := s.Repo.PatchStay(ctx, stay, req); err != nil {
		l.Error("patch_failed", "status", 500, "error", err)
		return nil, err
	}

	s.reindex(ctx, stay)
	l.Info("patch_successful", "stay_id", stay.ID.String())

	return stay, nil
}

func (s *StaysService) DeleteStay(ctx context.Context, hostID string, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "stays.delete")

	stay, err := s.Repo.GetStay(ctx, id)
	if err != nil {
		return err
	}
	if stay.HostID.String() != hostID {
		l.Warn("delete_denied", "status", 403, "stay_id", id.String())
		return ErrForbidden
	}

	if err := s.Repo.DeleteStay(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Index.DeleteStay(idxCtx, id); err != nil {
			l.Error("stay_deindex_failed", "stay_id", id.String(), "error", err)
		}
	}

	s.publish(ctx, "stay_deleted", stay)
	l.Info("delete_successful", "stay_id", id.String())

	return nil
}
