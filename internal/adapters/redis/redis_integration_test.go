//go:build integration || !unit

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"

	redisad "review_radar/internal/adapters/redis"
	"review_radar/internal/domain"
)

// Boots a real redis container and exercises the cache against it.
func TestCache_AgainstRealRedis(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	if err := pool.Retry(func() error {
		return goredis.NewClient(&goredis.Options{Addr: addr}).Ping(context.Background()).Err()
	}); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	c := redisad.New(addr, "", 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	in := domain.AnalysisResult{
		ProductID:    1001,
		TotalReviews: 5,
		Breakdown:    domain.SentimentBreakdown{Positive: 2, Negative: 2, Neutral: 1},
		TopIssues:    []domain.IssueTerm{{Term: "delivery", Count: 2}, {Term: "broken", Count: 1}},
	}
	if err := c.Set(ctx, "analysis:1001:2", in, 120); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.AnalysisResult
	ok, err := c.Get(ctx, "analysis:1001:2", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.ProductID != in.ProductID || out.Breakdown != in.Breakdown || len(out.TopIssues) != 2 {
		t.Fatalf("round trip mangled result: %+v", out)
	}
	if out.TopIssues[0] != in.TopIssues[0] {
		t.Fatalf("issue order lost: %+v", out.TopIssues)
	}

	if err := c.Del(ctx, "analysis:1001:2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "analysis:1001:2", &out); ok {
		t.Fatal("expected miss after del")
	}
}
