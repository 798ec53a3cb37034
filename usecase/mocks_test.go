package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"visitboard/domain"
)

// MockHitCounterPort is a mock implementation of port.HitCounterPort.
type MockHitCounterPort struct {
	mock.Mock
}

func (m *MockHitCounterPort) IncrementAndFetch(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHitCounterPort) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHitCounterPort) Backend() domain.CounterBackend {
	args := m.Called()
	return args.Get(0).(domain.CounterBackend)
}

// MockDatasetPort is a mock implementation of port.DatasetPort.
type MockDatasetPort struct {
	mock.Mock
}

func (m *MockDatasetPort) Load(ctx context.Context) (domain.Dataset, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Dataset), args.Error(1)
}

// MockChartPort is a mock implementation of port.ChartPort.
type MockChartPort struct {
	mock.Mock
}

func (m *MockChartPort) Render(ctx context.Context, summary domain.GroupSummary) (*domain.ChartImage, error) {
	args := m.Called(ctx, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartImage), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
