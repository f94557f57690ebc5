package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arul-selvam/steel-quotes/internal/common"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// QuotationRepository persists finalized quotations.
type QuotationRepository interface {
	SaveFromPayload(ctx context.Context, payload *entity.DocumentPayload) (*entity.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	List(ctx context.Context, from, to *time.Time) ([]entity.Quotation, error)
}

type quotationRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewQuotationRepository(db *gorm.DB, logger *slog.Logger) QuotationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &quotationRepository{db: db, logger: logger}
}

// SaveFromPayload stores one generated quotation together with its line
// items and upserts the customer book entry.
func (r *quotationRepository) SaveFromPayload(ctx context.Context, payload *entity.DocumentPayload) (*entity.Quotation, error) {
	if payload == nil || payload.CustomerName == "" {
		return nil, common.NewAppError("QUOTATION_INVALID", "payload missing customer name", common.ErrInvalidInput)
	}

	q := &entity.Quotation{
		ID:              uuid.New(),
		QuotationNumber: nextQuotationNumber(),

		CustomerName:    payload.CustomerName,
		CustomerAddress: payload.CustomerAddress,
		CustomerTaxID:   payload.CustomerTaxID,
		CustomerEmail:   payload.CustomerEmail,

		Subtotal:   payload.Subtotal,
		TaxAmount:  payload.TaxAmount,
		GrandTotal: payload.GrandTotal,

		LoadingCharges:   payload.LoadingCharges,
		TransportCharges: payload.TransportCharges,
		PaymentTerms:     payload.PaymentTerms,
	}
	for i, it := range payload.Items {
		q.Items = append(q.Items, entity.QuotationItem{
			QuotationID: q.ID,
			Position:    i,
			Description: it.Description,
			QuantityKg:  it.Quantity,
			RatePerKg:   it.Rate,
			Amount:      it.Amount,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertCustomer(tx, payload); err != nil {
			return err
		}
		return tx.Create(q).Error
	})
	if err != nil {
		r.logger.Error("quotation save failed", "customer", payload.CustomerName, "error", err)
		return nil, common.WrapError(err, "save quotation")
	}

	r.logger.Info("quotation saved",
		"quotation_id", q.ID,
		"quotation_number", q.QuotationNumber,
		"customer", q.CustomerName,
		"grand_total", q.GrandTotal,
	)
	return q, nil
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var q entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&q, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, common.NewAppError("QUOTATION_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "load quotation")
	}
	return &q, nil
}

// List returns quotations created in [from, to], newest first. Nil bounds are
// open-ended.
func (r *quotationRepository) List(ctx context.Context, from, to *time.Time) ([]entity.Quotation, error) {
	tx := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC")
	if from != nil {
		tx = tx.Where("created_at >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("created_at <= ?", *to)
	}
	var out []entity.Quotation
	if err := tx.Find(&out).Error; err != nil {
		return nil, common.WrapError(err, "list quotations")
	}
	return out, nil
}

func upsertCustomer(tx *gorm.DB, payload *entity.DocumentPayload) error {
	var c entity.Customer
	err := tx.Where("name = ?", payload.CustomerName).First(&c).Error
	switch err {
	case nil:
		// fill-forward: never blank out a known detail
		if payload.CustomerAddress != "" {
			c.Address = payload.CustomerAddress
		}
		if payload.CustomerTaxID != "" {
			c.TaxID = payload.CustomerTaxID
		}
		if payload.CustomerEmail != "" {
			c.Email = payload.CustomerEmail
		}
		return tx.Save(&c).Error
	case gorm.ErrRecordNotFound:
		c = entity.Customer{
			ID:      uuid.New(),
			Name:    payload.CustomerName,
			Address: payload.CustomerAddress,
			TaxID:   payload.CustomerTaxID,
			Email:   payload.CustomerEmail,
		}
		return tx.Create(&c).Error
	default:
		return err
	}
}

// nextQuotationNumber derives a readable, unique quotation number. The date
// keys it for humans; the uuid fragment makes it collision-safe without a
// database sequence.
func nextQuotationNumber() string {
	return fmt.Sprintf("Q-%s-%s",
		time.Now().UTC().Format("20060102"),
		uuid.New().String()[:8],
	)
}
