package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

const pendingPrefix = "reportbot:pending:"

// PendingRepo stores one pending report per reporter. Values never expire; a
// decision is the only way out.
type PendingRepo struct {
	client *goredis.Client
}

func NewPendingRepo(client *goredis.Client) *PendingRepo {
	return &PendingRepo{client: client}
}

func (r *PendingRepo) Put(ctx context.Context, report model.PendingReport) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode pending report: %w", err)
	}
	if err := r.client.Set(ctx, pendingKey(report.ReporterID), data, 0).Err(); err != nil {
		return fmt.Errorf("store pending report: %w", err)
	}
	return nil
}

// Take removes and returns the report in one round trip.
func (r *PendingRepo) Take(ctx context.Context, reporterID int64) (model.PendingReport, bool, error) {
	if r.client == nil {
		return model.PendingReport{}, false, fmt.Errorf("redis client is nil")
	}

	data, err := r.client.GetDel(ctx, pendingKey(reporterID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.PendingReport{}, false, nil
		}
		return model.PendingReport{}, false, fmt.Errorf("take pending report: %w", err)
	}

	var report model.PendingReport
	if err := json.Unmarshal(data, &report); err != nil {
		return model.PendingReport{}, false, fmt.Errorf("decode pending report: %w", err)
	}
	return report, true, nil
}

func pendingKey(reporterID int64) string {
	return pendingPrefix + strconv.FormatInt(reporterID, 10)
}
