package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// ProbeService checks whether a stored statistics server's endpoint answers.
type ProbeService struct {
	store  driven.ServerStore
	prober driven.ServerProber
}

// NewProbeService creates a new ProbeService with the required dependencies.
func NewProbeService(store driven.ServerStore, prober driven.ServerProber) *ProbeService {
	return &ProbeService{store: store, prober: prober}
}

// ProbeAt probes the web URL of the server at index.
func (s *ProbeService) ProbeAt(ctx context.Context, index int) (model.ProbeResult, error) {
	server, err := s.store.SelectAt(ctx, index)
	if err != nil {
		return model.ProbeResult{}, err
	}

	result, err := s.prober.Probe(ctx, server.WebURL)
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("probe %q: %w", server.Name, err)
	}
	return result, nil
}
