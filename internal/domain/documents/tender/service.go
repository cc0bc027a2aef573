package tender

import (
	"context"
	"fmt"
	"time"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/events"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/core/tx"
	"tenderdesk/internal/domain"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/pkg/logger"
	"tenderdesk/pkg/numerator"
)

// BlobStore is the contract for attachment byte storage.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, path string) error
}

// RefreshMetrics records bulk refresh outcome counts.
type RefreshMetrics interface {
	ObserveRefresh(updated, skipped, failed int)
}

// Config wires the tender service dependencies. Bus, Outbox, Blobs, and
// Metrics are optional.
type Config struct {
	Repo      Repository
	Registry  *material.Registry
	TxManager tx.Manager
	Numerator numerator.Generator
	Bus       *events.Bus
	Outbox    events.Outbox
	Blobs     BlobStore
	Metrics   RefreshMetrics
}

// Service provides business operations for tender documents and hosts the
// line-item reconciliation engine (see reconcile.go).
type Service struct {
	repo      Repository
	registry  *material.Registry
	txManager tx.Manager
	numerator numerator.Generator
	bus       *events.Bus
	outbox    events.Outbox
	blobs     BlobStore
	metrics   RefreshMetrics
	hooks     *domain.HookRegistry[*Tender]
}

// NewService creates a new tender service.
func NewService(cfg Config) *Service {
	return &Service{
		repo:      cfg.Repo,
		registry:  cfg.Registry,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		bus:       cfg.Bus,
		outbox:    cfg.Outbox,
		blobs:     cfg.Blobs,
		metrics:   cfg.Metrics,
		hooks:     domain.NewHookRegistry[*Tender](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Tender] {
	return s.hooks
}

// Create creates a new tender document.
func (s *Service) Create(ctx context.Context, doc *Tender) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("TN"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create tender: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "tender created",
		"refId", doc.RefID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves a tender with its items in position order.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Tender, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// GetByRefID retrieves a tender by reference identifier, with items.
func (s *Service) GetByRefID(ctx context.Context, refID string) (*Tender, error) {
	doc, err := s.repo.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// Update updates the tender header. Items are managed through the
// reconciliation operations, not here.
func (s *Service) Update(ctx context.Context, doc *Tender) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update tender: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// SetStatus transitions the tender lifecycle state.
func (s *Service) SetStatus(ctx context.Context, refID string, status Status) (*Tender, error) {
	doc, err := s.repo.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}

	switch status {
	case StatusDraft, StatusPublished, StatusClosed:
	default:
		return nil, apperror.NewValidation("invalid tender status").
			WithDetail("value", string(status))
	}

	doc.Status = status
	doc.Touch()

	if err := s.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a tender and cascades to its line items.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete tender: %w", err)
		}
		return s.enqueueItemsChanged(ctx, doc.RefID, nil)
	})
	if err != nil {
		return err
	}

	s.publishItemsChanged(ctx, doc.RefID, nil)
	return nil
}

// List retrieves tenders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Tender], error) {
	return s.repo.List(ctx, filter)
}

// AttachFile uploads file bytes to the blob store and records the metadata on
// the tender. Attachments never interact with pricing.
func (s *Service) AttachFile(ctx context.Context, refID, fileName, contentType string, data []byte) (*Attachment, error) {
	if s.blobs == nil {
		return nil, apperror.NewInternal(fmt.Errorf("blob store not configured"))
	}

	doc, err := s.repo.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("tenders/%s/%s-%s", doc.RefID, id.New().String(), fileName)
	url, err := s.blobs.Upload(ctx, path, data, contentType)
	if err != nil {
		return nil, apperror.NewStoreUnavailable(err).WithDetail("path", path)
	}

	att := Attachment{
		FileName:   fileName,
		Path:       path,
		URL:        url,
		Size:       int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}
	doc.Attachments = append(doc.Attachments, att)
	doc.Touch()

	if err := s.Update(ctx, doc); err != nil {
		return nil, err
	}
	return &att, nil
}

// RemoveAttachment deletes an attachment's bytes and metadata. Removing an
// unknown path is a no-op.
func (s *Service) RemoveAttachment(ctx context.Context, refID, path string) error {
	doc, err := s.repo.GetByRefID(ctx, refID)
	if err != nil {
		return err
	}

	kept := doc.Attachments[:0]
	found := false
	for _, att := range doc.Attachments {
		if att.Path == path {
			found = true
			continue
		}
		kept = append(kept, att)
	}
	if !found {
		return nil
	}
	doc.Attachments = kept
	doc.Touch()

	if err := s.Update(ctx, doc); err != nil {
		return err
	}

	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, path); err != nil {
			// Metadata is already gone; orphaned bytes are cleaned up later.
			logger.Warn(ctx, "blob delete failed", "path", path, "error", err)
		}
	}
	return nil
}

// enqueueItemsChanged writes the change event to the outbox inside the
// current transaction.
func (s *Service) enqueueItemsChanged(ctx context.Context, tenderRef string, itemRefs []string) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.Enqueue(ctx, events.TopicTenderItemsChanged, events.TenderItemsChanged{
		TenderRef: tenderRef,
		ItemRefs:  itemRefs,
	})
}

// publishItemsChanged notifies in-process subscribers after commit.
func (s *Service) publishItemsChanged(ctx context.Context, tenderRef string, itemRefs []string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.TopicTenderItemsChanged, events.TenderItemsChanged{
		TenderRef: tenderRef,
		ItemRefs:  itemRefs,
	})
}
