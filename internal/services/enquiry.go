package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/database"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
	"github.com/nithinv16/DukaaOnWebsite/internal/telemetry"
)

const notifyTimeout = 15 * time.Second

type EnquiryStore interface {
	Create(ctx context.Context, enquiry *models.EnquiryMessage) error
	List(ctx context.Context, filter database.EnquiryFilter) ([]models.EnquiryMessage, int64, error)
}

// EnquiryNotifier tells someone about a stored enquiry. Failures are logged, never returned to the visitor.
type EnquiryNotifier interface {
	Name() string
	NotifyEnquiry(ctx context.Context, enquiry *models.EnquiryMessage) error
}

type EnquiryService struct {
	store     EnquiryStore
	notifiers []EnquiryNotifier
	log       *zap.SugaredLogger
	wg        sync.WaitGroup
}

func NewEnquiryService(store EnquiryStore, log *zap.SugaredLogger, notifiers ...EnquiryNotifier) *EnquiryService {
	return &EnquiryService{store: store, notifiers: notifiers, log: log}
}

// Submit validates, sanitizes and stores an enquiry and returns its id
func (s *EnquiryService) Submit(ctx context.Context, req EnquiryRequest) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "enquiry.Submit")
	defer span.End()

	if result := ValidateEnquiry(req); !result.IsValid {
		return "", &ValidationError{Message: "Validation failed", Fields: result.Errors}
	}

	enquiry := &models.EnquiryMessage{
		VisitorName:     SanitizeInput(req.VisitorName),
		VisitorEmail:    SanitizeInput(req.Email),
		VisitorPhone:    SanitizeInput(req.Phone),
		VisitorLocation: SanitizeInput(req.Location),
		Message:         SanitizeInput(req.Message),
		EnquiryType:     req.EnquiryType,
		Status:          models.EnquiryStatusNew,
	}
	enquiry.ID = uuid.New()
	if enquiry.EnquiryType == "" {
		enquiry.EnquiryType = models.EnquiryTypeSeller
	}
	if req.SellerID != "" {
		enquiry.SellerID = &req.SellerID
	}
	if req.StakeholderType != "" {
		enquiry.StakeholderType = &req.StakeholderType
	}

	if err := s.store.Create(ctx, enquiry); err != nil {
		span.RecordError(err)
		return "", &StoreError{Message: "Failed to submit enquiry. Please try again.", Err: err}
	}

	telemetry.RecordEnquiry(ctx, enquiry.EnquiryType)
	span.SetAttributes(
		attribute.String("enquiry.id", enquiry.ID.String()),
		attribute.String("enquiry.type", enquiry.EnquiryType),
	)

	s.dispatch(context.WithoutCancel(ctx), enquiry)
	return enquiry.ID.String(), nil
}

// dispatch runs every notifier in the background
func (s *EnquiryService) dispatch(ctx context.Context, enquiry *models.EnquiryMessage) {
	for _, n := range s.notifiers {
		s.wg.Add(1)
		go func(n EnquiryNotifier) {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Errorf("Enquiry notifier %s panic: %v", n.Name(), r)
				}
			}()

			nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			defer cancel()

			if err := n.NotifyEnquiry(nctx, enquiry); err != nil {
				s.log.Warnf("Enquiry notifier %s failed for %s: %v", n.Name(), enquiry.ID, err)
				return
			}
			s.log.Debugf("Enquiry %s sent via %s", enquiry.ID, n.Name())
		}(n)
	}
}

// Wait blocks until in-flight notifications finish
func (s *EnquiryService) Wait() {
	s.wg.Wait()
}

// EnquiryListParams 관리자 목록 필터
type EnquiryListParams struct {
	Status      string
	EnquiryType string
	SellerID    string
	Page        int
	Limit       int
}

type EnquiryListResponse struct {
	Enquiries  []models.EnquiryMessage `json:"enquiries"`
	Count      int                     `json:"count"`
	TotalCount int                     `json:"totalCount"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"totalPages"`
}

// List returns stored enquiries newest first
func (s *EnquiryService) List(ctx context.Context, params EnquiryListParams) (*EnquiryListResponse, error) {
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	enquiries, total, err := s.store.List(ctx, database.EnquiryFilter{
		Status:      params.Status,
		EnquiryType: params.EnquiryType,
		SellerID:    params.SellerID,
		Offset:      (params.Page - 1) * params.Limit,
		Limit:       params.Limit,
	})
	if err != nil {
		return nil, &StoreError{Message: "Failed to fetch enquiries", Err: err}
	}
	if enquiries == nil {
		enquiries = []models.EnquiryMessage{}
	}

	return &EnquiryListResponse{
		Enquiries:  enquiries,
		Count:      len(enquiries),
		TotalCount: int(total),
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: (int(total) + params.Limit - 1) / params.Limit,
	}, nil
}
