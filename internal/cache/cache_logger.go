package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateParticipationCache invalidates all caches touched by a participation write
func InvalidateParticipationCache(ctx context.Context, cm *CacheManager, participationID uint, studentID uint) {
	SafeDelete(ctx, cm.Participation,
		fmt.Sprintf("id:%d", participationID),
		fmt.Sprintf("details:%d", participationID))

	SafeInvalidatePattern(ctx, cm.Participation, fmt.Sprintf("student:%d:*", studentID))
	SafeInvalidatePattern(ctx, cm.Participation, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}

// InvalidateEventCache invalidates all event-catalogue caches
func InvalidateEventCache(ctx context.Context, cm *CacheManager, eventID uint) {
	SafeDelete(ctx, cm.Event, fmt.Sprintf("id:%d", eventID))
	SafeInvalidatePattern(ctx, cm.Event, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}
