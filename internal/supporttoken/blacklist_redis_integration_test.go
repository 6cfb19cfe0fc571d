//go:build integration

package supporttoken_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bpd/internal/supporttoken"
	"bpd/pkg/testutil/containers"
)

type RedisBlacklistSuite struct {
	suite.Suite
	redis     *containers.RedisContainer
	blacklist *supporttoken.RedisBlacklist
}

func TestRedisBlacklistSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBlacklistSuite))
}

func (s *RedisBlacklistSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.blacklist = supporttoken.NewRedisBlacklist(s.redis.Client)
}

func (s *RedisBlacklistSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBlacklistSuite) TestRevokeThenCheck() {
	ctx := context.Background()
	fp := supporttoken.Fingerprint("aaa.bbb.ccc")

	revoked, err := s.blacklist.IsRevoked(ctx, fp)
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.blacklist.Revoke(ctx, fp, time.Minute))
	revoked, err = s.blacklist.IsRevoked(ctx, fp)
	s.Require().NoError(err)
	s.True(revoked)

	ttl, err := s.redis.Client.TTL(ctx, "bpd:support-token:blacklist:"+fp).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)
}

func (s *RedisBlacklistSuite) TestEntryExpires() {
	ctx := context.Background()
	s.Require().NoError(s.blacklist.Revoke(ctx, "fp-short", time.Second))

	s.Eventually(func() bool {
		revoked, err := s.blacklist.IsRevoked(ctx, "fp-short")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}
