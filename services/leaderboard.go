package services

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Leaderboard periods. Weekly and monthly sets are dropped on the same
// boundaries that zero the rolling counters.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "alltime"
)

// LeaderboardEntry is one ranked row from a guild leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	XP     int64  `json:"xp"`
	Rank   int64  `json:"rank"`
}

// LeaderboardService mirrors awarded XP into redis sorted sets so rank
// queries never scan the relational store. A nil service (redis not
// configured) degrades to a no-op.
type LeaderboardService struct {
	Client *redis.Client
}

func NewLeaderboardService(client *redis.Client) *LeaderboardService {
	return &LeaderboardService{Client: client}
}

func leaderboardKey(period, guildID string) string {
	return fmt.Sprintf("lb:%s:%s", period, guildID)
}

// RecordAward increments the member's score in every period set.
func (s *LeaderboardService) RecordAward(ctx context.Context, guildID, userID string, xp int64) {
	if s == nil || s.Client == nil || xp <= 0 {
		return
	}
	for _, period := range []string{PeriodWeekly, PeriodMonthly, PeriodAllTime} {
		if err := s.Client.ZIncrBy(ctx, leaderboardKey(period, guildID), float64(xp), userID).Err(); err != nil {
			log.Printf("[Leaderboard] ZINCRBY failed for %s/%s: %v", guildID, userID, err)
			return
		}
	}
}

// Top returns the highest-scored members for the period.
func (s *LeaderboardService) Top(ctx context.Context, guildID, period string, limit int) ([]LeaderboardEntry, error) {
	if s == nil || s.Client == nil {
		return nil, nil
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rows, err := s.Client.ZRevRangeWithScores(ctx, leaderboardKey(period, guildID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		userID, _ := row.Member.(string)
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			XP:     int64(row.Score),
			Rank:   int64(i + 1),
		})
	}
	return entries, nil
}

// Rank returns the member's 1-based position in the period set, or 0 when
// the member has no score yet.
func (s *LeaderboardService) Rank(ctx context.Context, guildID, userID, period string) (int64, error) {
	if s == nil || s.Client == nil {
		return 0, nil
	}
	rank, err := s.Client.ZRevRank(ctx, leaderboardKey(period, guildID), userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}

// ResetWeekly drops the guild's weekly set alongside the counter reset.
func (s *LeaderboardService) ResetWeekly(ctx context.Context, guildID string) {
	s.reset(ctx, PeriodWeekly, guildID)
}

// ResetMonthly drops the guild's monthly set alongside the counter reset.
func (s *LeaderboardService) ResetMonthly(ctx context.Context, guildID string) {
	s.reset(ctx, PeriodMonthly, guildID)
}

func (s *LeaderboardService) reset(ctx context.Context, period, guildID string) {
	if s == nil || s.Client == nil {
		return
	}
	if err := s.Client.Del(ctx, leaderboardKey(period, guildID)).Err(); err != nil {
		log.Printf("[Leaderboard] Failed to reset %s set for %s: %v", period, guildID, err)
	}
}
