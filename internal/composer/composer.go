// Package composer assembles the homepage document from independent zone
// fetches. Zones that come back empty or fail are omitted entirely; the
// page never shows empty chrome or error banners for a single zone.
package composer

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/traviworld/editorial/internal/cards"
	"github.com/traviworld/editorial/internal/feed"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
)

// Feed is the slice of the editorial API the composer consumes.
// Implemented by feed.Client.
type Feed interface {
	GetZone(ctx context.Context, zone string) ([]models.PublicPlacement, error)
	Subscribe(ctx context.Context, email string) (*feed.SubscribeResult, error)
}

// Section is one rendered homepage zone.
type Section struct {
	Zone  string       `json:"zone"`
	Cards []cards.Card `json:"cards"`
}

// Homepage is the composed document served to the frontend.
type Homepage struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Sections    []Section `json:"sections"`
}

// Composer fans out zone fetches and assembles the homepage.
type Composer struct {
	feed   Feed
	logger logger.Logger
}

func NewComposer(feedClient Feed, log logger.Logger) *Composer {
	return &Composer{
		feed:   feedClient,
		logger: log,
	}
}

// Compose fetches every zone concurrently and returns the homepage with
// sections in fixed display order. A zone that errors or is empty
// contributes no section; Compose itself never fails.
func (c *Composer) Compose(ctx context.Context) *Homepage {
	results := make([][]models.PublicPlacement, len(models.Zones))

	g, gCtx := errgroup.WithContext(ctx)
	for i, zone := range models.Zones {
		g.Go(func() error {
			placements, err := c.feed.GetZone(gCtx, zone)
			if err != nil {
				// Failed zones render as absent sections
				c.logger.Warn("Zone fetch failed, omitting section",
					logger.String("zone", zone),
					logger.Error(err),
				)
				return nil
			}
			results[i] = placements
			return nil
		})
	}
	// Goroutines only ever return nil
	_ = g.Wait()

	sections := make([]Section, 0, len(models.Zones))
	for i, zone := range models.Zones {
		if len(results[i]) == 0 {
			continue
		}
		sections = append(sections, Section{
			Zone:  zone,
			Cards: cards.BuildAll(results[i]),
		})
	}

	return &Homepage{
		GeneratedAt: time.Now().UTC(),
		Sections:    sections,
	}
}
