// Package recommend ranks catalog products for storefront suggestion rails.
// All rankings are computed from the live record store; an empty result is
// the normal answer when there is nothing sensible to suggest, never an
// error.
package recommend

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

// DefaultLimit is the rail size used when the caller passes limit <= 0.
const DefaultLimit = 4

// trendingWindow is the trailing period considered for recent-sales ranking.
const trendingWindow = 30 * 24 * time.Hour

type Service struct {
	store *store.Store
	now   func() time.Time
}

func New(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// SetClock overrides the ranking clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Personalized suggests in-stock products the user has not bought yet,
// preferring the categories they have bought from most. Products from
// categories the user never purchased rank after every preferred category;
// within equal category rank, cheaper products come first.
func (s *Service) Personalized(userID int64, limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}

	products := s.store.ListProducts()
	orders := s.store.ListOrdersByUser(userID)

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	purchased := make(map[int64]bool)
	weight := make(map[string]int)
	var seen []string
	for _, o := range orders {
		for _, item := range o.Items {
			purchased[item.ProductID] = true
			product, ok := byID[item.ProductID]
			if !ok {
				continue
			}
			if _, ok := weight[product.Category]; !ok {
				seen = append(seen, product.Category)
			}
			weight[product.Category] += item.Quantity
		}
	}

	// Categories ranked by descending purchase weight; first-purchased wins
	// ties so repeated calls rank identically.
	sort.SliceStable(seen, func(i, j int) bool {
		return weight[seen[i]] > weight[seen[j]]
	})
	rank := make(map[string]int, len(seen))
	for i, category := range seen {
		rank[category] = i
	}

	var candidates []models.Product
	for _, p := range products {
		if p.Stock > 0 && !purchased[p.ID] {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := categoryRank(rank, candidates[i].Category), categoryRank(rank, candidates[j].Category)
		if ri != rj {
			return ri < rj
		}
		return candidates[i].Price.LessThan(candidates[j].Price)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// categoryRank places categories absent from the preference histogram after
// every preferred one, all sharing the same rank.
func categoryRank(rank map[string]int, category string) int {
	if r, ok := rank[category]; ok {
		return r
	}
	return len(rank)
}

// Trending ranks products by units sold over the trailing 30 days.
// Products deleted since, or currently out of stock, are dropped before the
// limit is applied.
func (s *Service) Trending(limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}

	products := s.store.ListProducts()
	orders := s.store.ListOrders()
	cutoff := s.now().Add(-trendingWindow)

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sold := make(map[int64]int)
	var seen []int64
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range o.Items {
			if _, ok := sold[item.ProductID]; !ok {
				seen = append(seen, item.ProductID)
			}
			sold[item.ProductID] += item.Quantity
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return sold[seen[i]] > sold[seen[j]]
	})

	var out []models.Product
	for _, id := range seen {
		product, ok := byID[id]
		if !ok || product.Stock == 0 {
			continue
		}
		out = append(out, product)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Similar suggests in-stock products in the target's category priced within
// 30% of it, nearest price first. An unknown target yields an empty list.
func (s *Service) Similar(productID int64, limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}

	target, err := s.store.GetProduct(productID)
	if err != nil {
		return nil
	}
	band := target.Price.Mul(decimal.NewFromFloat(0.3))

	type candidate struct {
		product  models.Product
		distance decimal.Decimal
	}
	var candidates []candidate
	for _, p := range s.store.ListProducts() {
		if p.ID == productID || p.Stock == 0 || p.Category != target.Category {
			continue
		}
		distance := p.Price.Sub(target.Price).Abs()
		if distance.GreaterThan(band) {
			continue
		}
		candidates = append(candidates, candidate{product: p, distance: distance})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance.LessThan(candidates[j].distance)
	})

	var out []models.Product
	for _, c := range candidates {
		out = append(out, c.product)
		if len(out) == limit {
			break
		}
	}
	return out
}
