package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eChanneling-Revamp/payment-service/internal/adapter/repository"
	domainRepo "github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment  domainRepo.PaymentRepository
	Event    domainRepo.EventRepository
	AuditLog domainRepo.AuditLogRepository
	Tx       domainRepo.TxManager
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment:  repository.NewPaymentRepository(db, logger),
		Event:    repository.NewEventRepository(db, logger),
		AuditLog: repository.NewAuditLogRepository(db, logger),
		Tx:       repository.NewTxManager(db),
	}
}
