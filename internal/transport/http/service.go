package http

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/files"
	api "github.com/Jtofah/pdsnd-github/pkg/contracts/api/v1"
)

// StatsService loads selections for the HTTP handlers. Identical loads that
// are in flight at the same time share one read of the dataset; nothing is
// kept once they complete.
type StatsService struct {
	loader    *dataprocessing.Loader
	discovery *files.Discovery
	group     singleflight.Group
}

// NewStatsService creates a service over loader
func NewStatsService(loader *dataprocessing.Loader) *StatsService {
	return &StatsService{
		loader:    loader,
		discovery: files.NewDiscovery(loader.DataDir()),
	}
}

// Cities returns the catalog city names
func (s *StatsService) Cities() []string {
	return s.loader.Catalog().Cities()
}

// Datasets reports whether each city's dataset file is present
func (s *StatsService) Datasets() []files.Dataset {
	return s.discovery.Datasets(s.loader.Catalog())
}

// Load parses the selection and loads the filtered table. The caller's
// context only bounds its own wait, so a cancelled request does not fail
// others sharing the same load.
func (s *StatsService) Load(ctx context.Context, sel api.SelectionRequest) (*dataprocessing.LoadResult, error) {
	criteria, err := dataprocessing.ParseCriteria(sel.Month, sel.Day)
	if err != nil {
		return nil, err
	}

	key := strings.Join([]string{sel.City, criteria.String()}, "|")
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.loader.Load(context.WithoutCancel(ctx), sel.City, criteria)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dataprocessing.LoadResult), nil
	}
}
