// Package sysprobe samples the host CPU so comparisons can start from the
// machine's actual baseline instead of an idle device. It is never called
// from the scheduling hot path.
package sysprobe

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/cpu"

	"github.com/me/edgesentry/pkg/model"
)

// Sample measures aggregate host CPU utilization over the given window and
// returns it as a starting LoadSnapshot.
func Sample(ctx context.Context, window time.Duration) (model.LoadSnapshot, error) {
	percents, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return model.LoadSnapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	if len(percents) == 0 {
		return model.LoadSnapshot{}, fmt.Errorf("sample cpu: no data")
	}
	return model.LoadSnapshot{CPUPercent: percents[0]}, nil
}
