package paye

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	outcomeOK           = "ok"
	outcomeInvalidInput = "invalid_input"
)

// Metrics は計算結果の記録先です。
type Metrics interface {
	ObservePAYE(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObservePAYE(string) {}

// UseCase は PAYE 計算ユースケースの公開インターフェースです。
type UseCase interface {
	CalculatePAYE(ctx context.Context, in CalculatePAYEInput) (*Result, error)
	GetSchedule(ctx context.Context) (*Schedule, error)
}

// CalculatePAYEInput は PAYE 計算時の入力です。
type CalculatePAYEInput struct {
	GrossSalary float64
}

// Service は設定済みの税率表で PAYE を計算します。
type Service struct {
	schedule *Schedule
	logger   *zap.Logger
	metrics  Metrics
}

// NewService は Service を生成します。schedule が nil の場合は既定の税率表を使います。
func NewService(schedule *Schedule, logger *zap.Logger, metrics Metrics) *Service {
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{schedule: schedule, logger: logger, metrics: metrics}
}

// CalculatePAYE は総支給額から PAYE の内訳を計算します。
func (s *Service) CalculatePAYE(ctx context.Context, in CalculatePAYEInput) (*Result, error) {
	result, err := s.schedule.Calculate(in.GrossSalary)
	if err != nil {
		if errors.Is(err, ErrInvalidGrossSalary) {
			s.metrics.ObservePAYE(outcomeInvalidInput)
		}
		return nil, err
	}

	s.metrics.ObservePAYE(outcomeOK)
	s.logger.Debug("paye calculated",
		zap.Float64("gross_salary", result.GrossSalary),
		zap.Float64("total_tax", result.TotalTax),
		zap.Int("bands", len(result.Bands)),
	)

	return &result, nil
}

// GetSchedule は計算に使われている税率表を返します。
func (s *Service) GetSchedule(ctx context.Context) (*Schedule, error) {
	return s.schedule, nil
}
