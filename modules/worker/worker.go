package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/model"
	"image-studio-server/modules/common/storage"
	"image-studio-server/modules/generate"
	"image-studio-server/modules/history"
	"image-studio-server/modules/options"
	"image-studio-server/modules/prompt"
	"image-studio-server/modules/session"
)

const (
	pollTimeout  = 5 * time.Second
	errorBackoff = 5 * time.Second
)

// ErrShuttingDown - 서버 종료로 끝내지 못한 배치
var ErrShuttingDown = errors.New("server shutting down")

// Worker - 배치 큐 소비자
type Worker struct {
	queue    Queue
	service  *generate.Service
	sessions *session.Manager
	uploader storage.Uploader
	now      func() time.Time

	jobs sync.WaitGroup
}

// NewWorker - uploader가 nil이면 스토리지 업로드 생략
func NewWorker(queue Queue, service *generate.Service, sessions *session.Manager, uploader storage.Uploader) *Worker {
	return &Worker{
		queue:    queue,
		service:  service,
		sessions: sessions,
		uploader: uploader,
		now:      time.Now,
	}
}

// Run - ctx가 끝날 때까지 큐 감시
func (w *Worker) Run(ctx context.Context) {
	log.Info().Msgf("👀 [Worker] Watching queue: %s", QueueKey)

	for {
		if ctx.Err() != nil {
			log.Info().Msg("🛑 [Worker] Stopped")
			return
		}

		job, err := w.queue.Dequeue(ctx, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Msg("❌ [Worker] Dequeue error")
			select {
			case <-ctx.Done():
			case <-time.After(errorBackoff):
			}
			continue
		}
		if job == nil {
			continue
		}

		log.Info().Str("job_id", job.JobID).Msgf("🎯 [Worker] Received job (%d prompts)", len(job.Prompts))

		// Job 처리 (goroutine으로 비동기, Wait로 종료 대기)
		w.jobs.Add(1)
		go func(job model.BatchJob) {
			defer w.jobs.Done()
			w.ProcessJob(ctx, job)
		}(*job)
	}
}

// Wait - Run이 시작한 job이 모두 끝날 때까지 대기
func (w *Worker) Wait() {
	w.jobs.Wait()
}

// ProcessJob - 프롬프트를 순서대로 생성하고 진행 상황을 결과 키에 기록
// ctx가 끝나면 남은 프롬프트를 건너뛰고 failed로 마무리 (상태 저장은 ctx 취소와 무관)
func (w *Worker) ProcessJob(ctx context.Context, job model.BatchJob) model.BatchResult {
	persistCtx := context.WithoutCancel(ctx)
	result := model.BatchResult{
		JobID:        job.JobID,
		SessionID:    job.SessionID,
		Status:       model.StatusProcessing,
		TotalPrompts: len(job.Prompts),
		Images:       []model.ImageResult{},
	}
	w.save(persistCtx, &result)

	var lastErr error
	interrupted := false
	for i, p := range job.Prompts {
		if ctx.Err() != nil {
			log.Warn().Str("job_id", job.JobID).Msgf("⚠️  [Worker] Shutdown before prompt %d/%d", i+1, len(job.Prompts))
			interrupted = true
			break
		}
		if w.queue.IsCancelled(persistCtx, job.JobID) {
			log.Info().Str("job_id", job.JobID).Msgf("🛑 [Worker] Cancelled before prompt %d/%d", i+1, len(job.Prompts))
			result.Status = model.StatusUserCancelled
			break
		}

		text, err := prompt.Compose(p, job.Style, options.RatioDefault, job.QualityBoost)
		if err != nil {
			lastErr = err
			break
		}

		images, err := w.service.Generate(ctx, text, job.Variants, options.RatioDefault)
		if len(images) > 0 {
			results, raw := generate.ToResults(images)
			storage.AttachURLs(persistCtx, w.uploader, job.SessionID, string(history.ChannelGeneration), results, raw)
			result.Images = append(result.Images, results...)
		}
		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msgf("❌ [Worker] Prompt %d/%d failed", i+1, len(job.Prompts))
			lastErr = err
		}

		result.Completed = i + 1
		w.save(persistCtx, &result)
	}
	if ctx.Err() != nil && result.Status != model.StatusUserCancelled &&
		(result.Completed < result.TotalPrompts || errors.Is(lastErr, ctx.Err())) {
		interrupted = true
	}

	switch {
	case interrupted:
		result.Status = model.StatusFailed
		lastErr = ErrShuttingDown
	case result.Status != model.StatusUserCancelled:
		if len(result.Images) > 0 {
			result.Status = model.StatusCompleted
		} else {
			result.Status = model.StatusFailed
		}
	}
	if lastErr != nil {
		result.ErrorMessage = lastErr.Error()
	}
	w.save(persistCtx, &result)

	if len(result.Images) > 0 {
		w.record(job, len(result.Images))
	}

	log.Info().Str("job_id", job.JobID).Msgf("✅ [Worker] Job %s finished: %d/%d prompts, %d images",
		result.Status, result.Completed, result.TotalPrompts, len(result.Images))
	return result
}

func (w *Worker) save(ctx context.Context, result *model.BatchResult) {
	result.UpdatedAt = w.now()
	if err := w.queue.SaveResult(ctx, *result); err != nil {
		log.Error().Err(err).Str("job_id", result.JobID).Msg("❌ [Worker] Failed to save result")
	}
}

// record - 배치 결과를 세션 생성 히스토리에 남김
func (w *Worker) record(job model.BatchJob, count int) {
	if w.sessions == nil || job.SessionID == "" {
		return
	}
	sess := w.sessions.GetOrCreate(job.SessionID)
	sess.Record(history.ChannelGeneration, map[string]interface{}{
		"prompt":     fmt.Sprintf("%d batch prompts", len(job.Prompts)),
		"prompts":    job.Prompts,
		"style":      job.Style,
		"variants":   job.Variants,
		"batch_mode": true,
		"count":      count,
		"job_id":     job.JobID,
	})
}
