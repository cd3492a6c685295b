package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blitzfun/blitz-api/pkg/coins"
)

type logService struct {
	service Service
	logger  *zap.Logger
}

// NewLog wraps service with request logging.
func NewLog(service Service, logger *zap.Logger) Service {
	return &logService{
		service: service,
		logger:  logger,
	}
}

func (s *logService) Compare(ctx context.Context, coin1, coin2 string, startTime time.Time, chainID int) (*coins.ComparisonResult, error) {
	start := time.Now()
	s.logger.Info("Comparing coins",
		zap.String("coin1", coin1),
		zap.String("coin2", coin2),
		zap.Time("startTime", startTime),
		zap.Int("chainId", chainID),
	)

	result, err := s.service.Compare(ctx, coin1, coin2, startTime, chainID)
	if err != nil {
		s.logger.Error("Coin comparison failed",
			zap.String("coin1", coin1),
			zap.String("coin2", coin2),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Coin comparison complete",
		zap.String("winner", string(result.Winner)),
		zap.Float64("score", float64(result.ComparisonScore)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *logService) CreatorProfile(ctx context.Context, identifier string) (*coins.Profile, error) {
	s.logger.Debug("Fetching creator profile", zap.String("identifier", identifier))

	profile, err := s.service.CreatorProfile(ctx, identifier)
	if err != nil {
		s.logger.Warn("Creator profile fetch failed",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil, err
	}
	return profile, nil
}

func (s *logService) CreatorCoins(ctx context.Context, identifier string, count int) ([]coins.CreatorCoin, error) {
	s.logger.Debug("Fetching creator coins",
		zap.String("identifier", identifier),
		zap.Int("count", count),
	)

	creatorCoins, err := s.service.CreatorCoins(ctx, identifier, count)
	if err != nil {
		s.logger.Warn("Creator coins fetch failed",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil, err
	}
	return creatorCoins, nil
}
