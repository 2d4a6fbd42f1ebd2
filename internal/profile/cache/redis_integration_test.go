//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rentwise/internal/profile/cache"
	"rentwise/pkg/testutil/containers"
)

type RedisIntegrationSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIntegrationSuite))
}

func (s *RedisIntegrationSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client.Client, time.Minute, cache.WithKeyPrefix("it:"))
}

func (s *RedisIntegrationSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisIntegrationSuite) TestClearDropsEveryViewOfOneOwner() {
	ctx := context.Background()
	for _, owner := range []string{"owner-1", "owner-2"} {
		for _, view := range cache.Views {
			s.Require().NoError(s.cache.Set(ctx, owner, view, []byte(`{"owner":"`+owner+`"}`)))
		}
	}

	s.Require().NoError(s.cache.Clear(ctx, "owner-1", cache.Views...))

	for _, view := range cache.Views {
		_, ok, err := s.cache.Get(ctx, "owner-1", view)
		s.Require().NoError(err)
		s.False(ok, "view %s of owner-1 should be cleared", view)

		data, ok, err := s.cache.Get(ctx, "owner-2", view)
		s.Require().NoError(err)
		s.True(ok)
		s.JSONEq(`{"owner":"owner-2"}`, string(data))
	}
}

func (s *RedisIntegrationSuite) TestEntriesCarryTTL() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "owner-1", cache.ViewPrimary, []byte(`{}`)))

	ttl, err := s.redis.Client.TTL(ctx, "it:"+cache.Key("owner-1", cache.ViewPrimary)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
