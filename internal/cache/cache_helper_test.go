package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "participation:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	type participationSummary struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}

	original := participationSummary{ID: 42, Status: "pending"}
	if err := helper.Set(ctx, "id:42", original, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var cached participationSummary
	if err := helper.Get(ctx, "id:42", &cached); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cached != original {
		t.Errorf("Expected %+v, got %+v", original, cached)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestCache(t)

	var dest map[string]interface{}
	err := helper.Get(context.Background(), "missing", &dest)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Expiry(t *testing.T) {
	helper, mr := newTestCache(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "token", "value", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := helper.GetString(ctx, "token")
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Expected ErrCacheNotFound after expiry, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"id:1", "id:2", "id:3"} {
		if err := helper.SetString(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if exists, _ := helper.Exists(ctx, "id:1"); exists {
		t.Error("Expected id:1 to be deleted")
	}
	if exists, _ := helper.Exists(ctx, "id:3"); !exists {
		t.Error("Expected id:3 to survive")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	keys := []string{"list:page1", "list:page2", "id:7"}
	for _, key := range keys {
		if err := helper.SetString(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if exists, _ := helper.Exists(ctx, "list:page1"); exists {
		t.Error("Expected list:page1 to be invalidated")
	}
	if exists, _ := helper.Exists(ctx, "id:7"); !exists {
		t.Error("Expected id:7 to survive pattern invalidation")
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "participation:")
	ctx := context.Background()

	if err := helper.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}

	var dest string
	if err := helper.Get(ctx, "key", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]interface{}{"total": float64(5)}, nil
	}

	var first map[string]interface{}
	if err := helper.CacheOrExecute(ctx, "stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Expected 1 fetch call, got %d", calls)
	}

	// The write-behind set is asynchronous; wait for the key to land
	deadline := time.Now().Add(2 * time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "stats"); exists || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second map[string]interface{}
	if err := helper.CacheOrExecute(ctx, "stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected cached result on second call, fetch ran %d times", calls)
	}
	if second["total"] != float64(5) {
		t.Errorf("Expected total 5, got %v", second["total"])
	}
}

func TestCacheManager_InvalidateParticipation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)
	ctx := context.Background()

	if err := manager.Participation.SetString(ctx, "id:9", "cached", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := manager.Participation.SetString(ctx, "list:page1", "cached", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if err := manager.InvalidateParticipation(ctx, 9); err != nil {
		t.Fatalf("InvalidateParticipation failed: %v", err)
	}

	if exists, _ := manager.Participation.Exists(ctx, "id:9"); exists {
		t.Error("Expected participation id cache to be invalidated")
	}
	if exists, _ := manager.Participation.Exists(ctx, "list:page1"); exists {
		t.Error("Expected participation list cache to be invalidated")
	}
}
