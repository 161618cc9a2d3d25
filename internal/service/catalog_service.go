package service

import (
	"errors"
	"math"

	"go-vendsync/internal/apperr"
	"go-vendsync/internal/gateway"
	"go-vendsync/internal/model"
	"go-vendsync/internal/repository"
	"go-vendsync/pkg/validator"

	"gorm.io/gorm"
)

// DefaultMachineID is assumed when a request does not name a machine.
const DefaultMachineID = 219

// UpdateSlotRequest is the partial-update body. Only fields actually
// present are applied; price arrives in major units and is stored in cents.
type UpdateSlotRequest struct {
	SlotID    gateway.FlexString `json:"slotId" validate:"required"`
	MachineID *int               `json:"machineId"`
	Name      *string            `json:"name"`
	Price     *float64           `json:"price" validate:"omitempty,gte=0"`
	Stock     *int               `json:"stock" validate:"omitempty,gte=0"`
	MaxStock  *int               `json:"maxStock" validate:"omitempty,gte=0"`
	Status    *string            `json:"status"`
	Enable    *bool              `json:"enable"`
}

type CatalogService interface {
	GetProducts() ([]model.Product, Stats, error)
	UpdateSlot(req *UpdateSlotRequest) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	slotRepo    repository.SlotRepository
	db          *gorm.DB
}

func NewCatalogService(pRepo repository.ProductRepository, sRepo repository.SlotRepository, db *gorm.DB) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		slotRepo:    sRepo,
		db:          db,
	}
}

func (s *catalogService) GetProducts() ([]model.Product, Stats, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, Stats{}, apperr.Store(err)
	}

	lowStock, err := s.slotRepo.LowStockCount(LowStockThreshold)
	if err != nil {
		return nil, Stats{}, apperr.Store(err)
	}

	return products, ComputeStats(products, lowStock), nil
}

func (s *catalogService) UpdateSlot(req *UpdateSlotRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation(validator.FirstError(errs))
	}

	machineID := DefaultMachineID
	if req.MachineID != nil {
		machineID = *req.MachineID
	}
	slotID := req.SlotID.String()

	slot, err := s.slotRepo.FindByKey(machineID, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("slot")
		}
		return apperr.Store(err)
	}

	slotFields := map[string]interface{}{}
	stockFields := map[string]interface{}{}
	productFields := map[string]interface{}{}

	if req.Status != nil {
		slotFields["status"] = *req.Status
	}
	if req.Enable != nil {
		enable := 0
		if *req.Enable {
			enable = 1
		}
		slotFields["enable"] = enable
	}
	if req.Stock != nil {
		stockFields["qty"] = *req.Stock
	}
	if req.MaxStock != nil {
		stockFields["max_qty"] = *req.MaxStock
	}
	if req.Name != nil {
		productFields["name"] = *req.Name
	}
	if req.Price != nil {
		productFields["cost"] = int64(math.Round(*req.Price * 100))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.slotRepo.UpdateSlotFields(tx, machineID, slotID, slotFields); err != nil {
			return err
		}
		if err := s.slotRepo.UpdateStockFields(tx, machineID, slotID, stockFields); err != nil {
			return err
		}
		// Product fields only apply when the slot has a product assigned.
		if len(productFields) > 0 && slot.ProductID != nil {
			return s.productRepo.UpdateFields(tx, *slot.ProductID, productFields)
		}
		return nil
	})
	if err != nil {
		return apperr.Store(err)
	}
	return nil
}
