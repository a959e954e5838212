package queuehealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func codes(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Code
	}
	return out
}

func TestBuild_NilSnapshot(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestBuild_HealthyQueue(t *testing.T) {
	s := &Snapshot{
		OldestClaimableAgeSeconds: floatPtr(2),
		SuccessfulSendsLast10Min:  40,
	}
	assert.Empty(t, Build(s))
}

func TestBuild_SingleConditions(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  Snapshot
		wantCode  string
		wantLevel Level
	}{
		{
			name:      "expired leases are critical",
			snapshot:  Snapshot{ExpiredLeases: 3},
			wantCode:  CodeLeaseExpired,
			wantLevel: LevelCritical,
		},
		{
			name:      "recent dead letters are critical",
			snapshot:  Snapshot{DeadLettersLastHour: 1},
			wantCode:  CodeDeadLetterRecent,
			wantLevel: LevelCritical,
		},
		{
			name:      "claimable age beyond SLO is critical",
			snapshot:  Snapshot{OldestClaimableAgeSeconds: floatPtr(61)},
			wantCode:  CodeClaimableAgeSLOBreached,
			wantLevel: LevelCritical,
		},
		{
			name:      "claimable age above target is a warning",
			snapshot:  Snapshot{OldestClaimableAgeSeconds: floatPtr(11)},
			wantCode:  CodeClaimableAgeAboveTarget,
			wantLevel: LevelWarn,
		},
		{
			name:      "retryable backlog is a warning",
			snapshot:  Snapshot{RetryableDueNow: 7},
			wantCode:  CodeRetryableDueNowBacklog,
			wantLevel: LevelWarn,
		},
		{
			name:      "high retry attempts are a warning",
			snapshot:  Snapshot{HighRetryAttempts: 2},
			wantCode:  CodeHighRetryAttempts,
			wantLevel: LevelWarn,
		},
		{
			name:      "retries without recent success are a warning",
			snapshot:  Snapshot{RetryableFailuresLast10Min: 5},
			wantCode:  CodeRetriesWithoutRecentSends,
			wantLevel: LevelWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Build(&tt.snapshot)
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.wantCode, alerts[0].Code)
			assert.Equal(t, tt.wantLevel, alerts[0].Level)
			assert.NotEmpty(t, alerts[0].Message)
		})
	}
}

func TestBuild_AgeTiersMutuallyExclusive(t *testing.T) {
	alerts := Build(&Snapshot{OldestClaimableAgeSeconds: floatPtr(120)})
	require.Len(t, alerts, 1)
	assert.Equal(t, CodeClaimableAgeSLOBreached, alerts[0].Code)

	// Exactly at target is fine; strictly above warns.
	assert.Empty(t, Build(&Snapshot{OldestClaimableAgeSeconds: floatPtr(10)}))
	assert.Empty(t, Build(&Snapshot{OldestClaimableAgeSeconds: nil}))
}

func TestBuild_RetriesSuppressedByRecentSuccess(t *testing.T) {
	alerts := Build(&Snapshot{
		RetryableFailuresLast10Min: 5,
		SuccessfulSendsLast10Min:   1,
	})
	assert.Empty(t, alerts)
}

func TestBuild_AllConditionsFireTogether(t *testing.T) {
	alerts := Build(&Snapshot{
		ExpiredLeases:              1,
		DeadLettersLastHour:        2,
		OldestClaimableAgeSeconds:  floatPtr(90),
		RetryableDueNow:            3,
		HighRetryAttempts:          4,
		RetryableFailuresLast10Min: 5,
	})

	assert.Equal(t, []string{
		CodeLeaseExpired,
		CodeDeadLetterRecent,
		CodeClaimableAgeSLOBreached,
		CodeRetryableDueNowBacklog,
		CodeHighRetryAttempts,
		CodeRetriesWithoutRecentSends,
	}, codes(alerts))
	assert.True(t, HasLevel(alerts, LevelCritical))
	assert.True(t, HasLevel(alerts, LevelWarn))
}

func TestBuild_MessageInterpolatesCount(t *testing.T) {
	alerts := Build(&Snapshot{ExpiredLeases: 12})
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "12")
}
