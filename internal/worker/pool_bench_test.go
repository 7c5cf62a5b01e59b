package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/models"
)

func BenchmarkEnqueue(b *testing.B) {
	pool := NewPool(PoolConfig{
		WorkerCount: 4,
		QueueSize:   1024,
		Reconciler:  &MockReconciler{},
		Logger:      zap.NewNop(),
	})
	pool.Start(context.Background())
	defer pool.Stop()

	job := models.ReconcileJob{
		SessionID:   uuid.NewString(),
		PlayerName:  "Ana",
		ModelKey:    "modelA",
		Score:       7.42,
		SubmittedAt: time.Now(),
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		job.Seq = uint64(i)
		pool.Enqueue(job)
	}
}
