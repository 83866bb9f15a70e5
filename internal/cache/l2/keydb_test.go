package l2

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"gql-proxy-cache/internal/config"
	"gql-proxy-cache/internal/interfaces/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		L2: config.L2Config{
			Connection: config.ConnectionConfig{
				ConnectTimeout: 1000,
				SendTimeout:    1000,
				ReadTimeout:    1000,
			},
			Keepalive: config.KeepaliveConfig{
				PoolSize:       5,
				MaxIdleTimeout: 10000,
			},
		},
	}
}

func TestNewKeyDBCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cfg := testConfig()
	logger := zap.NewNop()

	cache := NewKeyDBCache(cfg, mockClient, logger)

	assert.NotNil(t, cache)
	assert.Equal(t, mockClient, cache.client)
	assert.Equal(t, cfg, cache.config)
	assert.Equal(t, logger, cache.logger)
}

func TestKeyDBCache_Get_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	payload := `{"data":{"Media":{"id":1}}}`
	mockClient.EXPECT().
		Get(gomock.Any(), "anilist:abc").
		Return(redis.NewStringResult(payload, nil))

	data, found := cache.Get("anilist:abc")

	assert.True(t, found)
	assert.Equal(t, []byte(payload), data)
}

func TestKeyDBCache_Get_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().
		Get(gomock.Any(), "anilist:missing").
		Return(redis.NewStringResult("", redis.Nil))

	data, found := cache.Get("anilist:missing")

	assert.False(t, found)
	assert.Nil(t, data)
}

func TestKeyDBCache_Get_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().
		Get(gomock.Any(), "anilist:key").
		Return(redis.NewStringResult("", errors.New("connection refused")))

	data, found := cache.Get("anilist:key")

	assert.False(t, found)
	assert.Nil(t, data)
}

func TestKeyDBCache_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	payload := []byte(`{"data":{}}`)
	mockClient.EXPECT().
		Set(gomock.Any(), "anilist:key", payload, 86400*time.Second).
		Return(redis.NewStatusResult("OK", nil))

	cache.Set("anilist:key", payload, 86400*time.Second)
}

func TestKeyDBCache_Set_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().
		Set(gomock.Any(), "anilist:key", gomock.Any(), 300*time.Second).
		Return(redis.NewStatusResult("", errors.New("READONLY")))

	// Write failures are swallowed
	cache.Set("anilist:key", []byte(`{}`), 300*time.Second)
}

func TestKeyDBCache_Set_ZeroTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	cache.Set("anilist:key", []byte(`{}`), 0)
}

func TestKeyDBCache_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().
		Del(gomock.Any(), "anilist:key").
		Return(redis.NewIntResult(1, nil))

	cache.Delete("anilist:key")
}

func TestKeyDBCache_UpdateMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().DBSize(gomock.Any()).Return(redis.NewIntResult(42, nil))
	cache.UpdateMetrics()

	mockClient.EXPECT().DBSize(gomock.Any()).Return(redis.NewIntResult(0, errors.New("timeout")))
	cache.UpdateMetrics()
}

func TestKeyDBCache_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cache := NewKeyDBCache(testConfig(), mockClient, zaptest.NewLogger(t))

	mockClient.EXPECT().Close().Return(nil)

	assert.NoError(t, cache.Close())
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		tls        bool
		wantAddr   string
		wantDB     int
		wantPass   string
		wantTLS    bool
		wantServer string
	}{
		{
			name:     "plain url",
			url:      "redis://keydb:6379",
			wantAddr: "keydb:6379",
		},
		{
			name:     "password and db",
			url:      "redis://:secret@keydb:6380/2",
			wantAddr: "keydb:6380",
			wantDB:   2,
			wantPass: "secret",
		},
		{
			name:       "rediss scheme",
			url:        "rediss://cache.example.com:6379",
			wantAddr:   "cache.example.com:6379",
			wantTLS:    true,
			wantServer: "cache.example.com",
		},
		{
			name:       "tls flag",
			url:        "redis://cache.example.com:6379",
			tls:        true,
			wantAddr:   "cache.example.com:6379",
			wantTLS:    true,
			wantServer: "cache.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.L2.TLS = tt.tls

			opts, err := buildOptions(cfg, tt.url)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantDB, opts.DB)
			assert.Equal(t, tt.wantPass, opts.Password)
			assert.Equal(t, tt.wantTLS, opts.TLSConfig != nil)
			if tt.wantTLS {
				assert.Equal(t, tt.wantServer, opts.TLSConfig.ServerName)
			}
			assert.Equal(t, time.Second, opts.DialTimeout)
			assert.Equal(t, 5, opts.PoolSize)
			assert.Equal(t, 10*time.Second, opts.IdleTimeout)
		})
	}
}

func TestBuildOptions_InvalidURL(t *testing.T) {
	_, err := buildOptions(testConfig(), "http://keydb:6379")
	assert.Error(t, err)
}

func TestNewRedisKeyDbClient_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.L2.Connection.ConnectTimeout = 200
	cfg.L2.Connection.ReadTimeout = 200
	cfg.L2.Connection.SendTimeout = 200

	client, err := NewRedisKeyDbClient(cfg, "redis://127.0.0.1:1", zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, client.Ping(ctx).Err())

	cache := NewKeyDBCache(cfg, client, zaptest.NewLogger(t))
	cache.Set("key", []byte(`{"a":1}`), time.Minute)
	data, found := cache.Get("key")
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestNewRedisKeyDbClient_InvalidURL(t *testing.T) {
	client, err := NewRedisKeyDbClient(testConfig(), "http://host:6379", zaptest.NewLogger(t))

	assert.Error(t, err)
	assert.Nil(t, client)
}
