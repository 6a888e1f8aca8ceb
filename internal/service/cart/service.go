package cart

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cache"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const displayNameTTL = 10 * time.Minute

// Service управляет серверной корзиной: добавление-или-инкремент,
// чтение и удаление позиций строго в пределах владельца.
type Service struct {
	repo     domain.CartRepository
	profiles domain.ProfileDirectory
	cache    cache.Cache
	metrics  *metrics.CheckoutMetrics
	logger   *log.Entry
}

// NewService создаёт сервис корзины. cache и checkoutMetrics опциональны.
func NewService(repo domain.CartRepository, profiles domain.ProfileDirectory, displayNames cache.Cache, checkoutMetrics *metrics.CheckoutMetrics) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		cache:    displayNames,
		metrics:  checkoutMetrics,
		logger:   log.WithField("component", "cart-service"),
	}
}

// Add добавляет позицию в корзину владельца или инкрементирует
// количество существующей пары (владелец, товар) ровно на единицу.
// Возвращает сохранённую позицию и признак вставки новой строки.
func (s *Service) Add(ownerID, productName string, unitPrice float64, quantity int32) (domain.CartLine, bool, error) {
	if quantity <= 0 {
		quantity = 1
	}

	line := domain.CartLine{
		OwnerID:     ownerID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		OwnerName:   s.displayName(ownerID),
	}
	if errs := line.Validate(); len(errs) > 0 {
		return domain.CartLine{}, false, errors.Join(errs...)
	}

	stored, inserted, err := s.repo.Upsert(line)
	if err != nil {
		return domain.CartLine{}, false, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartLineAdded()
	}

	return stored, inserted, nil
}

// List возвращает все позиции корзины владельца.
func (s *Service) List(ownerID string) ([]domain.CartLine, error) {
	if ownerID == "" {
		return nil, domain.ErrOwnerRequired
	}
	return s.repo.List(ownerID)
}

// Remove удаляет одну позицию корзины владельца.
func (s *Service) Remove(ownerID, lineID string) error {
	return s.repo.Remove(ownerID, lineID)
}

// Clear удаляет все позиции владельца и возвращает их количество.
func (s *Service) Clear(ownerID string) (int, error) {
	return s.repo.Clear(ownerID)
}

// displayName возвращает отображаемое имя владельца для денормализации.
// Справочник профилей опционален и может деградировать; корзина при этом
// продолжает работать с именем "Unknown".
func (s *Service) displayName(ownerID string) string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.GenerateKey("display-name", ownerID)
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached
		}
	}

	if s.profiles == nil {
		return "Unknown"
	}

	profile, err := s.profiles.Get(ownerID)
	if err != nil {
		s.logger.WithError(err).WithField("owner_id", ownerID).Debug("profile lookup failed")
		return "Unknown"
	}

	name := profile.DisplayName()
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, name, displayNameTTL); err != nil {
			s.logger.WithError(err).Debug("failed to cache display name")
		}
	}

	return name
}
