package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

const serviceName = "WaitlistService"

const signatureDisplaySize = 16

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the waitlist Service.
// It logs method entry/exit, duration, errors, and sanitized request data.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// Admit wraps the service method with logging
func (ls *logService) Admit(
	ctx context.Context,
	sub *waitlist.Submission,
) (res *waitlist.AdmissionResult, err error) {
	start := time.Now()

	ls.logger.Info("Admit started",
		zap.String("service", serviceName),
		zap.String("method", "Admit"),
		zap.String("fid", sub.Fid),
		zap.String("username", sub.Username),
		zap.String("signature", redactSignature(sub.Signature)),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Admit failed",
				zap.String("service", serviceName),
				zap.String("method", "Admit"),
				zap.String("fid", sub.Fid),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Admit completed",
				zap.String("service", serviceName),
				zap.String("method", "Admit"),
				zap.String("fid", sub.Fid),
				zap.String("id", res.ID),
				zap.Int("card_number", res.CardNumber),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Admit(ctx, sub)
}

// Lookup wraps the service method with logging
func (ls *logService) Lookup(ctx context.Context, fid string) (entry *waitlist.Entry, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Warn("Lookup failed",
				zap.String("service", serviceName),
				zap.String("method", "Lookup"),
				zap.String("fid", fid),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Debug("Lookup completed",
				zap.String("service", serviceName),
				zap.String("method", "Lookup"),
				zap.String("fid", fid),
				zap.Int("card_number", entry.CardNumber),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Lookup(ctx, fid)
}

// Stats wraps the service method with logging
func (ls *logService) Stats(ctx context.Context) (stats *waitlist.Stats, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Stats failed",
				zap.String("service", serviceName),
				zap.String("method", "Stats"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Debug("Stats completed",
				zap.String("service", serviceName),
				zap.String("method", "Stats"),
				zap.Int("total", stats.Total),
				zap.Int("active", stats.Active),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Stats(ctx)
}

// redactSignature redacts signature data to show only metadata
// Signatures are sensitive and should not be logged in full
func redactSignature(sig string) string {
	if sig == "" {
		return "<empty>"
	}
	sigLen := len(sig)
	if sigLen > signatureDisplaySize {
		// Show first 8 and last 4 characters with length
		return fmt.Sprintf("%s...%s (%d bytes)", sig[:8], sig[sigLen-4:], sigLen)
	}
	// For very short signatures, just show length
	return fmt.Sprintf("<%d bytes>", sigLen)
}
