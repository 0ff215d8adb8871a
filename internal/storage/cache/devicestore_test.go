package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cartloop/go-push-service/internal/storage/cache"
	"github.com/cartloop/go-push-service/pkg/notification"
)

// --- Mocks ---

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}
func (m *MockCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockRealStore struct {
	mock.Mock
}

func (m *MockRealStore) RegisterDevice(ctx context.Context, customerID string, reg notification.DeviceRegistration) (*notification.DeviceToken, error) {
	args := m.Called(ctx, customerID, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.DeviceToken), args.Error(1)
}
func (m *MockRealStore) UpdateDevice(ctx context.Context, id string, upd notification.DeviceUpdate) (*notification.DeviceToken, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.DeviceToken), args.Error(1)
}
func (m *MockRealStore) DeactivateDevice(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockRealStore) DeactivateCustomerDevices(ctx context.Context, customerID string) (int, error) {
	args := m.Called(ctx, customerID)
	return args.Int(0), args.Error(1)
}
func (m *MockRealStore) GetCustomerDevices(ctx context.Context, customerID string) ([]notification.DeviceToken, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.DeviceToken), args.Error(1)
}
func (m *MockRealStore) GetDeviceByToken(ctx context.Context, token string) (*notification.DeviceToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.DeviceToken), args.Error(1)
}
func (m *MockRealStore) TouchDevice(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockRealStore) CleanupInactiveTokens(ctx context.Context, daysThreshold int) (int, error) {
	args := m.Called(ctx, daysThreshold)
	return args.Int(0), args.Error(1)
}
func (m *MockRealStore) MarkTokensAsInvalid(ctx context.Context, tokens []string) error {
	return m.Called(ctx, tokens).Error(0)
}

func TestCachedStore_ImmediateInvalidation(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockCache)
	mockDB := new(MockRealStore)

	store := cache.NewCachedDeviceStore(mockDB, mockCache, 1*time.Hour)
	cacheKey := "push:devices:cust-42"

	t.Run("Deactivate invalidates the owner's cache immediately", func(t *testing.T) {
		token := "token-old"
		record := &notification.DeviceToken{ID: "d1", CustomerID: "cust-42", Token: token}

		mockDB.On("GetDeviceByToken", ctx, token).Return(record, nil).Once()
		mockDB.On("DeactivateDevice", ctx, token).Return(nil).Once()
		mockCache.On("Del", ctx, cacheKey).Return(nil).Once()

		err := store.DeactivateDevice(ctx, token)

		require.NoError(t, err)
		mockDB.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Subsequent read hits the real store on a cache miss", func(t *testing.T) {
		mockCache.On("Get", ctx, cacheKey, mock.Anything).Return(assert.AnError).Once() // error implies miss

		fresh := []notification.DeviceToken{}
		mockDB.On("GetCustomerDevices", ctx, "cust-42").Return(fresh, nil).Once()
		mockCache.On("Set", ctx, cacheKey, fresh, 1*time.Hour).Return(nil).Once()

		devices, err := store.GetCustomerDevices(ctx, "cust-42")

		require.NoError(t, err)
		assert.Empty(t, devices)
		mockDB.AssertExpectations(t)
	})
}

func TestCachedStore_WritePaths(t *testing.T) {
	ctx := context.Background()

	t.Run("Register writes through and invalidates", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedDeviceStore(mockDB, mockCache, time.Hour)

		reg := notification.DeviceRegistration{Token: "token-new", Platform: notification.PlatformAndroid}
		record := &notification.DeviceToken{ID: "d2", CustomerID: "cust-7", Token: reg.Token}

		mockDB.On("RegisterDevice", ctx, "cust-7", reg).Return(record, nil).Once()
		mockCache.On("Del", ctx, "push:devices:cust-7").Return(nil).Once()

		got, err := store.RegisterDevice(ctx, "cust-7", reg)

		require.NoError(t, err)
		assert.Equal(t, record, got)
		mockCache.AssertExpectations(t)
	})

	t.Run("MarkTokensAsInvalid drops every owner's entry", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedDeviceStore(mockDB, mockCache, time.Hour)

		tokens := []string{"t-a", "t-b"}
		mockDB.On("GetDeviceByToken", ctx, "t-a").
			Return(&notification.DeviceToken{CustomerID: "cust-1", Token: "t-a"}, nil).Once()
		mockDB.On("GetDeviceByToken", ctx, "t-b").
			Return(&notification.DeviceToken{CustomerID: "cust-2", Token: "t-b"}, nil).Once()
		mockDB.On("MarkTokensAsInvalid", ctx, tokens).Return(nil).Once()
		mockCache.On("Del", ctx, "push:devices:cust-1").Return(nil).Once()
		mockCache.On("Del", ctx, "push:devices:cust-2").Return(nil).Once()

		err := store.MarkTokensAsInvalid(ctx, tokens)

		require.NoError(t, err)
		mockDB.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Touch does not invalidate", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedDeviceStore(mockDB, mockCache, time.Hour)

		mockDB.On("TouchDevice", ctx, "t-a").Return(nil).Once()

		require.NoError(t, store.TouchDevice(ctx, "t-a"))
		mockCache.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	})
}
