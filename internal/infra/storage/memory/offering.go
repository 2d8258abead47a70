package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	offeringRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/offering"
	"github.com/m04kA/SMC-PetBookingService/pkg/txmanager"
)

// OfferingRepository in-memory аналог offering.Repository
type OfferingRepository struct {
	store *Store
}

// NewOfferingRepository создает репозиторий офферов поверх хранилища
func NewOfferingRepository(store *Store) *OfferingRepository {
	return &OfferingRepository{store: store}
}

// Create создает оффер с пустым журналом
func (r *OfferingRepository) Create(ctx context.Context, o *domain.Offering) (*domain.Offering, error) {
	defer r.store.acquire(ctx)()

	r.store.nextOfferingID++
	now := r.store.now()

	o.ID = r.store.nextOfferingID
	o.LedgerVersion = 0
	o.Ledger = make([]domain.BookingUnit, 0)
	o.CreatedAt = now
	o.UpdatedAt = now

	r.store.offerings[o.ID] = cloneOffering(o)
	return o, nil
}

// GetByID возвращает копию оффера вместе с журналом
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*domain.Offering, error) {
	defer r.store.acquire(ctx)()

	o, ok := r.store.offerings[id]
	if !ok {
		return nil, offeringRepo.ErrOfferingNotFound
	}
	return cloneOffering(o), nil
}

// ListByProvider возвращает офферы провайдера по возрастанию ID
func (r *OfferingRepository) ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Offering, error) {
	defer r.store.acquire(ctx)()

	offerings := make([]*domain.Offering, 0)
	for _, o := range r.store.offerings {
		if o.ProviderID != providerID {
			continue
		}
		if activeOnly && !o.IsActive() {
			continue
		}
		c := cloneOffering(o)
		c.Ledger = nil
		offerings = append(offerings, c)
	}
	sort.Slice(offerings, func(i, j int) bool { return offerings[i].ID < offerings[j].ID })
	return offerings, nil
}

// UpdateStatus меняет статус оффера
func (r *OfferingRepository) UpdateStatus(ctx context.Context, id int64, status domain.OfferingStatus) error {
	defer r.store.acquire(ctx)()

	o, ok := r.store.offerings[id]
	if !ok {
		return offeringRepo.ErrOfferingNotFound
	}
	o.Status = status
	o.UpdatedAt = r.store.now()
	return nil
}

// SaveLedger перезаписывает журнал с проверкой версии
func (r *OfferingRepository) SaveLedger(ctx context.Context, o *domain.Offering) error {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.offerings[o.ID]
	if !ok {
		return offeringRepo.ErrOfferingNotFound
	}
	if stored.LedgerVersion != o.LedgerVersion {
		return fmt.Errorf("%w: offering id=%d version=%d: %w",
			offeringRepo.ErrLedgerVersionMismatch, o.ID, o.LedgerVersion, txmanager.ErrConcurrentUpdate)
	}

	o.LedgerVersion++
	stored.Ledger = append(make([]domain.BookingUnit, 0, len(o.Ledger)), o.Ledger...)
	stored.LedgerVersion = o.LedgerVersion
	stored.UpdatedAt = r.store.now()
	return nil
}
