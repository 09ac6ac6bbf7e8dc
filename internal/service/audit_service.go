package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
)

type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, userID string, limit int, from, to *time.Time) ([]*model.AuditLog, error)
}

// AuditService writes request audit records off the hot path. Records are
// queued onto a channel and flushed by a single writer goroutine; a full
// queue drops the record rather than stalling a request.
type AuditService struct {
	repo  AuditRepo
	queue chan *model.AuditLog
	done  chan struct{}
}

func NewAuditService(repo AuditRepo) *AuditService {
	s := &AuditService{
		repo:  repo,
		queue: make(chan *model.AuditLog, 1024),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AuditService) Record(entry *model.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	select {
	case s.queue <- entry:
	default:
		logger.Warn("audit queue full, dropping record", "path", entry.Path)
	}
}

func (s *AuditService) List(ctx context.Context, userID string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, userID, limit, from, to)
}

func (s *AuditService) run() {
	defer close(s.done)
	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, entry); err != nil {
			logger.Error("failed to write audit record", "error", err)
		}
		cancel()
	}
}

// Close drains the queue and stops the writer
func (s *AuditService) Close() {
	close(s.queue)
	<-s.done
}
