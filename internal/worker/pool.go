package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueStockAlerts = "jobs:stock_alerts"
	QueueMenu        = "jobs:menu"

	JobStockLow       = "stock.low"
	JobMenuFinalized  = "menu.finalized"
	maxAttempts       = 3
	lowStockAlertsKey = "alerts:low_stock"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// StockLowPayload is published once per item that ended a deduction or
// adjustment at or below its minimum level.
type StockLowPayload struct {
	InventoryItemID string `json:"inventory_item_id"`
	BranchID        string `json:"branch_id"`
	Name            string `json:"name"`
	CurrentStock    string `json:"current_stock"`
	MinStockLevel   string `json:"min_stock_level"`
}

// MenuFinalizedPayload summarises one finalization run.
type MenuFinalizedPayload struct {
	EventID   string `json:"event_id"`
	BookingID string `json:"booking_id"`
	RunCount  int    `json:"run_count"`
	Lines     int    `json:"lines"`
	Warnings  int    `json:"warnings"`
	Failures  int    `json:"failures"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockLow pushes a low-stock alert job.
func (d *Dispatcher) EnqueueStockLow(ctx context.Context, p StockLowPayload) error {
	return d.enqueue(ctx, QueueStockAlerts, JobStockLow, p)
}

// EnqueueMenuFinalized pushes a finalization summary job.
func (d *Dispatcher) EnqueueMenuFinalized(ctx context.Context, p MenuFinalizedPayload) error {
	return d.enqueue(ctx, QueueMenu, JobMenuFinalized, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	queues := []string{QueueStockAlerts, QueueMenu}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "unknown", json.RawMessage(raw), err.Error(), 1)
		return
	}

	err := handleJob(ctx, rdb, job)
	if err == nil {
		return
	}
	job.Attempts++
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeueing")
	if encoded, mErr := json.Marshal(job); mErr == nil {
		_ = rdb.LPush(ctx, queue, encoded).Err()
	}
}

func handleJob(ctx context.Context, rdb *redis.Client, job Job) error {
	switch job.Type {
	case JobStockLow:
		var p StockLowPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return err
		}
		log.Warn().
			Str("item_id", p.InventoryItemID).
			Str("branch_id", p.BranchID).
			Str("name", p.Name).
			Str("current", p.CurrentStock).
			Str("min", p.MinStockLevel).
			Msg("inventory item at or below minimum")
		// Latest alert per item, scored by time, for dashboards to poll.
		return rdb.ZAdd(ctx, lowStockAlertsKey+":"+p.BranchID, redis.Z{
			Score:  float64(time.Now().Unix()),
			Member: p.InventoryItemID,
		}).Err()
	case JobMenuFinalized:
		var p MenuFinalizedPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return err
		}
		log.Info().
			Str("event_id", p.EventID).
			Int("run", p.RunCount).
			Int("lines", p.Lines).
			Int("warnings", p.Warnings).
			Int("failures", p.Failures).
			Msg("menu finalized")
		return nil
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}
