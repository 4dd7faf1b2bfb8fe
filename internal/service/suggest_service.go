package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/llm"
	"github.com/mobmart/storefront/internal/redis"

	goredis "github.com/redis/go-redis/v9"
)

// ProductFinder — поиск товара по точному имени, для сопоставления подсказок.
type ProductFinder interface {
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
}

const (
	suggestWant        = 3  // сколько совпавших товаров хотим вернуть
	suggestMaxExcluded = 25 // предохранитель от бесконечного диалога с моделью
)

type SuggestService struct {
	catalog  ProductFinder
	llm      llm.Client
	cache    *redis.Client // nil — кэш отключён
	cacheTTL time.Duration
}

func NewSuggestService(catalog ProductFinder, llmClient llm.Client, cache *redis.Client) *SuggestService {
	return &SuggestService{
		catalog:  catalog,
		llm:      llmClient,
		cache:    cache,
		cacheTTL: 10 * time.Minute,
	}
}

// ForProduct спрашивает у модели дополнения к товару и возвращает те из них,
// что нашлись в каталоге по точному имени. Уже предложенное исключается из
// следующего запроса, чтобы модель не повторялась.
func (s *SuggestService) ForProduct(ctx context.Context, seed *domain.Product) ([]domain.Product, error) {
	cacheKey := fmt.Sprintf("suggest:%d", seed.ID)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	var (
		found    []domain.Product
		seen     = make(map[string]struct{})
		excluded []string
	)

	for len(found) < suggestWant {
		names, err := s.llm.Suggest(ctx, seed.Name, seed.Price, excluded)
		if err != nil {
			if len(found) > 0 {
				slog.Warn("llm suggest failed, returning partial result", "err", err, "found", len(found))
				break
			}
			return nil, fmt.Errorf("llm.Suggest: %w", err)
		}
		if len(names) == 0 {
			break
		}

		for _, name := range names {
			if len(found) >= suggestWant {
				break
			}
			if _, dup := seen[name]; dup {
				continue
			}
			p, err := s.catalog.GetProductByName(ctx, name)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					continue
				}
				return nil, fmt.Errorf("catalog.GetProductByName: %w", err)
			}
			seen[p.Name] = struct{}{}
			found = append(found, *p)
		}

		excluded = append(excluded, names...)
		if len(excluded) > suggestMaxExcluded {
			slog.Warn("too many suggestion retries, returning what we have", "found", len(found))
			break
		}
	}

	s.toCache(ctx, cacheKey, found)

	return found, nil
}

func (s *SuggestService) fromCache(ctx context.Context, key string) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Debug("suggest cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	var out []domain.Product
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *SuggestService) toCache(ctx context.Context, key string, products []domain.Product) {
	if s.cache == nil || len(products) == 0 {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		slog.Debug("suggest cache set failed", "key", key, "err", err)
	}
}
