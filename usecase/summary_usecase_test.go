package usecase

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"visitboard/domain"
)

func sampleDataset(n int) domain.Dataset {
	ds := domain.Dataset{Columns: []string{"PassengerId", "Survived", "Sex"}}
	for i := 0; i < n; i++ {
		sex := "male"
		outcome := domain.OutcomeDied
		if i%2 == 0 {
			sex = "female"
			outcome = domain.OutcomeSurvived
		}
		ds.Rows = append(ds.Rows, domain.Passenger{
			Sex:      sex,
			Survived: outcome,
			Record:   []string{strconv.Itoa(i + 1), strconv.Itoa(int(outcome)), sex},
		})
	}
	return ds
}

func TestSummaryUsecase_BuildSummary(t *testing.T) {
	t.Run("builds preview statistics and chart", func(t *testing.T) {
		ds := sampleDataset(8)
		img := &domain.ChartImage{PNG: []byte{0x89, 'P', 'N', 'G'}, Width: 1000, Height: 600}

		dataset := new(MockDatasetPort)
		dataset.On("Load", mock.Anything).Return(ds, nil)
		chart := new(MockChartPort)
		chart.On("Render", mock.Anything, domain.GroupBySurvival(ds.Rows)).Return(img, nil)

		uc := NewSummaryUsecase(dataset, chart, 0, discardLogger())

		summary := uc.BuildSummary(context.Background())

		require.False(t, summary.Unavailable())
		assert.Len(t, summary.Preview.Rows, domain.DefaultPreviewRows)
		assert.Equal(t, ds.Columns, summary.Preview.Columns)
		assert.Equal(t, 8, summary.Stats.Total)
		assert.Equal(t, 4, summary.Stats.Survived)
		assert.InDelta(t, 50.0, summary.Stats.Rate, 1e-9)
		assert.Same(t, img, summary.Chart)
		assert.Equal(t, 8, summary.Groups.Total())
		assert.Equal(t, 4, summary.Groups.Count("female", domain.OutcomeSurvived))
		dataset.AssertExpectations(t)
		chart.AssertExpectations(t)
	})

	t.Run("preview is shorter than the limit for small files", func(t *testing.T) {
		dataset := new(MockDatasetPort)
		dataset.On("Load", mock.Anything).Return(sampleDataset(3), nil)
		chart := new(MockChartPort)
		chart.On("Render", mock.Anything, mock.Anything).Return(&domain.ChartImage{}, nil)

		uc := NewSummaryUsecase(dataset, chart, 5, discardLogger())

		summary := uc.BuildSummary(context.Background())

		assert.Len(t, summary.Preview.Rows, 3)
	})

	t.Run("omits the chart when rendering fails", func(t *testing.T) {
		dataset := new(MockDatasetPort)
		dataset.On("Load", mock.Anything).Return(sampleDataset(4), nil)
		chart := new(MockChartPort)
		chart.On("Render", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: font unavailable", domain.ErrRenderFailure))

		uc := NewSummaryUsecase(dataset, chart, 5, discardLogger())

		summary := uc.BuildSummary(context.Background())

		assert.False(t, summary.Unavailable())
		assert.Nil(t, summary.Chart)
		assert.Equal(t, 4, summary.Stats.Total)
		assert.Len(t, summary.Preview.Rows, 4)
	})

	t.Run("missing dataset degrades to a message", func(t *testing.T) {
		dataset := new(MockDatasetPort)
		dataset.On("Load", mock.Anything).
			Return(domain.Dataset{}, fmt.Errorf("%w: file not found: static/data/titanic.csv", domain.ErrDataUnavailable))
		chart := new(MockChartPort)

		uc := NewSummaryUsecase(dataset, chart, 5, discardLogger())

		summary := uc.BuildSummary(context.Background())

		require.True(t, summary.Unavailable())
		assert.ErrorIs(t, summary.Err, domain.ErrDataUnavailable)
		assert.True(t, summary.Preview.IsEmpty())
		assert.Nil(t, summary.Chart)
		assert.Contains(t, summary.ErrorMessage(), "Error loading Titanic data: ")
		chart.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})

	t.Run("empty dataset degrades to a message", func(t *testing.T) {
		dataset := new(MockDatasetPort)
		dataset.On("Load", mock.Anything).Return(domain.Dataset{Columns: []string{"Sex", "Survived"}}, nil)
		chart := new(MockChartPort)

		uc := NewSummaryUsecase(dataset, chart, 5, discardLogger())

		summary := uc.BuildSummary(context.Background())

		assert.ErrorIs(t, summary.Err, domain.ErrDataUnavailable)
		assert.Contains(t, summary.ErrorMessage(), "dataset is empty")
		chart.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})
}
