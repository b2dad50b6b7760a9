package cache

import (
	"context"
	"io"
	"os"
	"testing"

	"arthavidhi/internal/core"

	"github.com/sirupsen/logrus"
)

func newTestCache(t *testing.T) *ProfileCache {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping redis test")
	}
	rdb, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewProfileCache(rdb, logger)
}

func TestProfileCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	const userID = 987654

	c.Invalidate(ctx, userID)
	if _, ok := c.Get(ctx, userID); ok {
		t.Fatal("expected miss after invalidate")
	}

	c.Set(ctx, &core.CompanyProfile{UserID: userID, Name: "Himalayan Goods", VATNumber: "600123456"})
	got, ok := c.Get(ctx, userID)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got.UserID != userID || got.Name != "Himalayan Goods" || got.VATNumber != "600123456" {
		t.Errorf("unexpected profile: %+v", got)
	}

	c.Invalidate(ctx, userID)
	if _, ok := c.Get(ctx, userID); ok {
		t.Error("expected miss after second invalidate")
	}
}

func TestProfileKey(t *testing.T) {
	if got := profileKey(42); got != "profile:42" {
		t.Errorf("profileKey(42) = %q", got)
	}
}
