package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisCacheSuite struct {
	suite.Suite
	server *miniredis.Miniredis
	client *redis.Client
	cache  *Redis
	ctx    context.Context
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupTest() {
	s.server = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.server.Addr()})
	s.cache = NewRedis(s.client, 5*time.Minute, WithKeyPrefix("test:"))
	s.ctx = context.Background()
}

func (s *RedisCacheSuite) TearDownTest() {
	_ = s.client.Close()
}

func (s *RedisCacheSuite) TestMissIsNotAnError() {
	data, ok, err := s.cache.Get(s.ctx, "owner-1", ViewPrimary)
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(data)
}

func (s *RedisCacheSuite) TestSetGetWithTTL() {
	s.Require().NoError(s.cache.Set(s.ctx, "owner-1", ViewTrustScore, []byte(`{"score":60}`)))

	s.True(s.server.Exists("test:profile:owner-1:trustScore"))
	s.Equal(5*time.Minute, s.server.TTL("test:profile:owner-1:trustScore"))

	data, ok, err := s.cache.Get(s.ctx, "owner-1", ViewTrustScore)
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`{"score":60}`, string(data))

	s.server.FastForward(5 * time.Minute)
	_, ok, err = s.cache.Get(s.ctx, "owner-1", ViewTrustScore)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestClearRemovesAllViews() {
	s.Require().NoError(s.cache.Set(s.ctx, "owner-1", ViewPrimary, []byte("p")))
	s.Require().NoError(s.cache.Set(s.ctx, "owner-1", ViewTrustScore, []byte("t")))

	s.Require().NoError(s.cache.Clear(s.ctx, "owner-1", Views...))

	s.False(s.server.Exists("test:profile:owner-1:primary"))
	s.False(s.server.Exists("test:profile:owner-1:trustScore"))
}

func (s *RedisCacheSuite) TestUnavailableServerSurfacesError() {
	s.server.Close()
	_, _, err := s.cache.Get(s.ctx, "owner-1", ViewPrimary)
	s.Error(err)
	s.Error(s.cache.Clear(s.ctx, "owner-1", Views...))
}
