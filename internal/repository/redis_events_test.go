package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paynotify/internal/mocks"
)

func TestSeen(t *testing.T) {
	tests := []struct {
		name      string
		existsN   int64
		existsErr error
		want      bool
		wantErr   bool
	}{
		{name: "unseen event", existsN: 0, want: false},
		{name: "seen event", existsN: 1, want: true},
		{name: "redis failure", existsErr: fmt.Errorf("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockRedisClient)
			client.On("Exists", mock.Anything, []string{"webhook:event:evt_123"}).
				Return(redis.NewIntResult(tt.existsN, tt.existsErr)).Once()

			repo := NewRedisEventRepository(client)
			seen, err := repo.Seen(context.Background(), "evt_123")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, seen)
			}

			client.AssertExpectations(t)
		})
	}
}

func TestMark(t *testing.T) {
	client := new(mocks.MockRedisClient)
	client.On("SetNX", mock.Anything, "webhook:event:evt_123", 1, 24*time.Hour).
		Return(redis.NewBoolResult(true, nil)).Once()

	repo := NewRedisEventRepository(client)
	err := repo.Mark(context.Background(), "evt_123")

	require.NoError(t, err)
	client.AssertExpectations(t)
}
