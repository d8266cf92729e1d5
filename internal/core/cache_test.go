package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/domain/model"
	"github.com/target/doctrack-api/internal/mocks"
	"go.uber.org/mock/gomock"
)

func TestJobCatalogCache_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*mocks.MockCacheRepository)
		want    []*model.Job
		wantHit bool
		wantErr bool
	}{
		{
			name: "miss",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "doctrack:jobs:catalog").Return(nil, nil)
			},
		},
		{
			name: "hit",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "doctrack:jobs:catalog").
					Return([]byte(`[{"id":1,"title":"Audit","description":"Q3"}]`), nil)
			},
			want:    []*model.Job{{ID: 1, Title: "Audit", Description: "Q3"}},
			wantHit: true,
		},
		{
			name: "corrupt entry is a miss",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "doctrack:jobs:catalog").Return([]byte(`{not json`), nil)
			},
		},
		{
			name: "backend error",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "doctrack:jobs:catalog").Return(nil, errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockCacheRepository(ctrl)
			tt.setup(repo)

			cache := core.NewJobCatalogCache(repo, core.DefaultJobCatalogCacheConfig())
			got, hit, err := cache.Get(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobCatalogCache_StoreAndInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewJobCatalogCache(repo, core.JobCatalogCacheConfig{TTL: time.Minute, KeyPrefix: "t:"})

	repo.EXPECT().Set(gomock.Any(), "t:jobs:catalog", []byte(`[]`), time.Minute).Return(nil)
	require.NoError(t, cache.Store(context.Background(), nil))

	repo.EXPECT().Delete(gomock.Any(), "t:jobs:catalog").Return(true, nil)
	require.NoError(t, cache.Invalidate(context.Background()))
}

func TestNewJobCatalogCache_DefaultsTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCacheRepository(ctrl)
	cache := core.NewJobCatalogCache(repo, core.JobCatalogCacheConfig{})

	repo.EXPECT().Set(gomock.Any(), "jobs:catalog", gomock.Any(), 5*time.Minute).Return(nil)
	require.NoError(t, cache.Store(context.Background(), []*model.Job{{ID: 1}}))
}
