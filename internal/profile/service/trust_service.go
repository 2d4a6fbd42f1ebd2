package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"rentwise/internal/profile/cache"
	"rentwise/internal/profile/events"
	"rentwise/internal/profile/models"
	"rentwise/internal/profile/trustscore"
	dErrors "rentwise/pkg/domain-errors"
)

// GetTrustScore returns the trust score of the owner's primary profile,
// served from the trustScore cache view when fresh.
func (s *Service) GetTrustScore(ctx context.Context, ownerID string) (_ *models.TrustScore, err error) {
	ctx, end := s.startOp(ctx, "get_trust_score", attribute.String("owner_id", ownerID))
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var cached models.TrustScore
	if s.readCache(ctx, ownerID, cache.ViewTrustScore, &cached) {
		return &cached, nil
	}

	p, err := s.loadPrimary(ownerID)(ctx)
	if err != nil {
		return nil, err
	}
	personal, err := personalOf(p)
	if err != nil {
		return nil, err
	}
	score := personal.TrustScore.Clone()
	s.writeCache(ctx, ownerID, cache.ViewTrustScore, score)
	return &score, nil
}

// UpdateTrustScore upserts one factor on the primary profile's score.
// Repeating the call with the same arguments leaves the score unchanged.
func (s *Service) UpdateTrustScore(ctx context.Context, ownerID, factor string, value int) (_ *models.TrustScore, err error) {
	ctx, end := s.startOp(ctx, "update_trust_score",
		attribute.String("owner_id", ownerID),
		attribute.String("factor", factor),
	)
	defer func() { end(err) }()

	return s.rescore(ctx, ownerID, "factor", func(p *models.PersonalPayload) error {
		next, err := trustscore.Upsert(p.TrustScore, factor, value)
		if err != nil {
			return err
		}
		p.TrustScore = next
		return nil
	})
}

// RecalculateTrustScore recomputes every computed factor from the primary
// profile's content.
func (s *Service) RecalculateTrustScore(ctx context.Context, ownerID string) (_ *models.TrustScore, err error) {
	ctx, end := s.startOp(ctx, "recalculate_trust_score", attribute.String("owner_id", ownerID))
	defer func() { end(err) }()

	return s.rescore(ctx, ownerID, "recalculate", func(p *models.PersonalPayload) error {
		p.TrustScore = trustscore.Calculate(p)
		return nil
	})
}

func (s *Service) rescore(ctx context.Context, ownerID, source string, change func(*models.PersonalPayload) error) (*models.TrustScore, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	updated, err := s.mutate(ctx, s.loadPrimary(ownerID), func(p *models.Profile) error {
		personal, err := personalOf(p)
		if err != nil {
			return err
		}
		return change(personal)
	})
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, ownerID); err != nil {
		return nil, err
	}

	personal, _ := updated.Personal()
	score := personal.TrustScore.Clone()
	s.metrics.ObserveTrustScore(source, score.Score)
	s.logger.InfoContext(ctx, "trust score updated",
		"owner_id", ownerID,
		"profile_id", updated.ID.String(),
		"source", source,
		"score", score.Score,
	)
	s.publish(ctx, events.TypeTrustScoreUpdated, updated, map[string]any{
		"score":   score.Score,
		"source":  source,
		"factors": score.Factors,
	})
	return &score, nil
}

func personalOf(p *models.Profile) (*models.PersonalPayload, error) {
	personal, ok := p.Personal()
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidProfileType, "trust scores exist only on personal profiles")
	}
	return personal, nil
}
