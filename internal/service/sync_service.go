package service

import (
	"context"

	"go-vendsync/internal/apperr"
	"go-vendsync/internal/gateway"
	"go-vendsync/internal/model"
	"go-vendsync/internal/normalize"
	"go-vendsync/internal/repository"
	"go-vendsync/internal/ws"
	"go-vendsync/pkg/keylock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SyncService runs one pull-normalize-replace-read pass per call. The
// response is always read back from the store, never built from the
// transient normalized objects, so it reflects exactly what was persisted.
type SyncService interface {
	SyncSlots(ctx context.Context, machineID int) ([]repository.EnrichedSlot, error)
	SyncSales(ctx context.Context, machineID int) ([]model.Transaction, error)
}

type syncService struct {
	gw          gateway.Client
	productRepo repository.ProductRepository
	slotRepo    repository.SlotRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	locks       *keylock.KeyedMutex
	hub         *ws.Hub
	log         *logrus.Logger
}

func NewSyncService(
	gw gateway.Client,
	pRepo repository.ProductRepository,
	sRepo repository.SlotRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	locks *keylock.KeyedMutex,
	hub *ws.Hub,
	log *logrus.Logger,
) SyncService {
	return &syncService{
		gw:          gw,
		productRepo: pRepo,
		slotRepo:    sRepo,
		txRepo:      tRepo,
		db:          db,
		locks:       locks,
		hub:         hub,
		log:         log,
	}
}

func (s *syncService) SyncSlots(ctx context.Context, machineID int) ([]repository.EnrichedSlot, error) {
	passID := uuid.New().String()
	logger := s.log.WithFields(logrus.Fields{
		"pass_id":    passID,
		"machine_id": machineID,
		"kind":       "slots",
	})

	payload, err := s.gw.FetchSlotDetails(ctx, machineID)
	if err != nil {
		logger.WithError(err).Error("fetch failed")
		return nil, err
	}

	// Normalize. Duplicate ids in one payload collapse to the last entry;
	// a bulk insert must not carry the same key twice.
	productsByID := make(map[string]model.Product)
	slotsByID := make(map[string]model.Slot)
	stocksByID := make(map[string]model.Stock)
	order := make([]string, 0, len(payload.Data))
	for _, raw := range payload.Data {
		product, slot, stock := normalize.SlotEntry(machineID, raw)
		if _, seen := slotsByID[slot.SlotID]; !seen {
			order = append(order, slot.SlotID)
		}
		slotsByID[slot.SlotID] = slot
		stocksByID[stock.SlotID] = stock
		if product != nil {
			productsByID[product.ProductID] = *product
		}
	}

	slots := make([]model.Slot, 0, len(order))
	stocks := make([]model.Stock, 0, len(order))
	for _, id := range order {
		slots = append(slots, slotsByID[id])
		stocks = append(stocks, stocksByID[id])
	}
	products := make([]model.Product, 0, len(productsByID))
	for _, p := range productsByID {
		products = append(products, p)
	}

	// Hold the machine lock across replace and read-back so a concurrent
	// pass for the same machine cannot interleave its delete window.
	s.locks.Lock(machineID)
	defer s.locks.Unlock(machineID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.slotRepo.ReplaceForMachine(tx, machineID, slots, stocks); err != nil {
			return err
		}
		return s.productRepo.UpsertAll(tx, products)
	})
	if err != nil {
		logger.WithError(err).Error("replace failed")
		return nil, apperr.Store(err)
	}

	enriched, err := s.slotRepo.FindEnrichedByMachine(machineID)
	if err != nil {
		logger.WithError(err).Error("read-back failed")
		return nil, apperr.Store(err)
	}

	if s.hub != nil {
		s.hub.Publish(ws.SyncEvent{Kind: "slots", MachineID: machineID, Records: len(enriched), PassID: passID})
	}
	logger.WithField("records", len(enriched)).Info("slot sync complete")
	return enriched, nil
}

func (s *syncService) SyncSales(ctx context.Context, machineID int) ([]model.Transaction, error) {
	passID := uuid.New().String()
	logger := s.log.WithFields(logrus.Fields{
		"pass_id":    passID,
		"machine_id": machineID,
		"kind":       "sales",
	})

	payload, err := s.gw.FetchSales(ctx, machineID)
	if err != nil {
		logger.WithError(err).Error("fetch failed")
		return nil, err
	}

	byID := make(map[string]model.Transaction)
	order := make([]string, 0, len(payload.Data))
	for _, raw := range payload.Data {
		tx := normalize.Transaction(machineID, raw)
		if _, seen := byID[tx.TransactionID]; !seen {
			order = append(order, tx.TransactionID)
		}
		byID[tx.TransactionID] = tx
	}
	transactions := make([]model.Transaction, 0, len(order))
	for _, id := range order {
		transactions = append(transactions, byID[id])
	}

	s.locks.Lock(machineID)
	defer s.locks.Unlock(machineID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.txRepo.ReplaceForMachine(tx, machineID, transactions)
	})
	if err != nil {
		logger.WithError(err).Error("replace failed")
		return nil, apperr.Store(err)
	}

	stored, err := s.txRepo.FindByMachine(machineID)
	if err != nil {
		logger.WithError(err).Error("read-back failed")
		return nil, apperr.Store(err)
	}

	if s.hub != nil {
		s.hub.Publish(ws.SyncEvent{Kind: "sales", MachineID: machineID, Records: len(stored), PassID: passID})
	}
	logger.WithField("records", len(stored)).Info("sales sync complete")
	return stored, nil
}
