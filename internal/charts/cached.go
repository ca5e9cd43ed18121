package charts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"nobudget/internal/cache"
	"nobudget/internal/report"
)

// Renderer memoizes rendered charts by a hash of their input, so a chart is
// only redrawn when the data behind it changes.
type Renderer struct {
	cache *cache.LRUCache[[]byte]
}

func NewRenderer(size int, ttl time.Duration) *Renderer {
	return &Renderer{cache: cache.NewLRUCache[[]byte](size, ttl)}
}

func (r *Renderer) CategoryPie(totals map[string]float64) ([]byte, error) {
	return r.render("pie", totals, func() ([]byte, error) { return CategoryPie(totals) })
}

func (r *Renderer) DailySeries(points []report.DailyPoint) ([]byte, error) {
	return r.render("daily", points, func() ([]byte, error) { return DailySeries(points) })
}

// Stats reports cache hits and misses.
func (r *Renderer) Stats() (hits, misses int64) {
	return r.cache.Stats()
}

func (r *Renderer) render(name string, input any, draw func() ([]byte, error)) ([]byte, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return draw()
	}
	sum := sha256.Sum256(raw)
	key := name + ":" + hex.EncodeToString(sum[:])

	if img, ok := r.cache.Get(key); ok {
		return img, nil
	}
	img, err := draw()
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, img)
	return img, nil
}
