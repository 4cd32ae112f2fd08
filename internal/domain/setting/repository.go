package setting

import "context"

// Keys of the schedule settings. Both live in the single shared settings
// store; the schedule state machine is their only writer.
const (
	KeyNextBattleStartDate = "next_battle_start_date"
	KeySchedulerEnabled    = "scheduler_enabled"
)

type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Upsert performs a read-modify-write against the single logical settings
	// resource. Implementations must make it atomic per key.
	Upsert(ctx context.Context, key, value string) error
}
