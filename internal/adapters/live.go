package adapters

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

const liveItemTimeout = 10 * time.Second

// selectors locates the first product card on a platform's search result
// page. Selector details are per-platform markup knowledge and nothing more;
// the rest of the fetch flow is shared.
type selectors struct {
	urlFormat string // fmt pattern with one %s for the escaped query
	card      string
	name      string
	price     string
}

// LiveAdapter fetches real prices by rendering a platform's search page in
// a headless browser and reading the first matching product card. Items are
// fetched sequentially under a shared rate limiter; each item failure
// degrades that item only, and a browser that cannot launch at all degrades
// the whole platform to unavailable for this cycle.
type LiveAdapter struct {
	platform models.Platform
	feeRule  models.FeeRule
	sel      selectors
	limiter  *rate.Limiter
}

// NewZeptoAdapter returns the live Zepto price source.
func NewZeptoAdapter(feeRule models.FeeRule, perSecond float64) *LiveAdapter {
	return &LiveAdapter{
		platform: models.PlatformZepto,
		feeRule:  feeRule,
		sel: selectors{
			urlFormat: "https://www.zepto.com/search?query=%s",
			card:      `[data-testid="product-card"]`,
			name:      `h4`,
			price:     `[data-testid="product-card"] span`,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// NewBlinkitAdapter returns the live Blinkit price source.
func NewBlinkitAdapter(feeRule models.FeeRule, perSecond float64) *LiveAdapter {
	return &LiveAdapter{
		platform: models.PlatformBlinkit,
		feeRule:  feeRule,
		sel: selectors{
			urlFormat: "https://blinkit.com/s/?q=%s",
			card:      `.Product__UpdatedC`,
			name:      `.Product__UpdatedTitle`,
			price:     `.Product__UpdatedPrice`,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (a *LiveAdapter) Platform() models.Platform { return a.platform }

func (a *LiveAdapter) Simulated() bool { return false }

func (a *LiveAdapter) Fetch(ctx context.Context, queries []string, locality string) ([]models.Observation, models.FeeRule) {
	browser, cleanup, err := a.connect(ctx)
	if err != nil {
		log.Printf("%s adapter: browser launch failed, degrading to unavailable: %v", a.platform, err)
		return AllUnavailable(queries), a.feeRule
	}
	defer cleanup()

	results := make([]models.Observation, 0, len(queries))
	for _, query := range queries {
		obs, err := a.fetchItem(ctx, browser, query)
		if err != nil {
			log.Printf("%s adapter: %q: %v", a.platform, query, err)
			obs = Unavailable(query, a.searchURL(query))
		}
		results = append(results, obs)
	}

	return results, a.feeRule
}

// connect launches a headless browser bound to ctx. The cleanup closes the
// browser and reaps the launched process on every exit path.
func (a *LiveAdapter) connect(ctx context.Context) (*rod.Browser, func(), error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}

	cleanup := func() {
		_ = browser.Close()
		l.Cleanup()
	}
	return browser, cleanup, nil
}

func (a *LiveAdapter) fetchItem(ctx context.Context, browser *rod.Browser, query string) (models.Observation, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return models.Observation{}, fmt.Errorf("rate limit wait: %w", err)
	}

	searchURL := a.searchURL(query)

	page, err := browser.Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		return models.Observation{}, fmt.Errorf("open search page: %w", err)
	}
	defer page.Close()

	timed := page.Timeout(liveItemTimeout)

	card, err := timed.Element(a.sel.card)
	if err != nil {
		// No product card rendered for this query
		return Unavailable(query, searchURL), nil
	}

	name := query
	if nameEl, err := card.Element(a.sel.name); err == nil {
		if text, err := nameEl.Text(); err == nil && text != "" {
			name = text
		}
	}

	priceEl, err := timed.Element(a.sel.price)
	if err != nil {
		return Unavailable(query, searchURL), nil
	}
	priceText, err := priceEl.Text()
	if err != nil {
		return models.Observation{}, fmt.Errorf("read price text: %w", err)
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return models.Observation{}, fmt.Errorf("parse price %q: %w", priceText, err)
	}

	return models.Observation{
		Query:     query,
		Name:      name,
		Price:     price,
		Available: true,
		URL:       searchURL,
	}, nil
}

func (a *LiveAdapter) searchURL(query string) string {
	return fmt.Sprintf(a.sel.urlFormat, url.QueryEscape(query))
}
