package cmd

import (
	"context"
	"errors"
	"sync"

	"gifkit/compress"
)

// maxConcurrentFiles bounds how many files are compressed at once when
// several inputs are given. Per-frame work inside each file already
// saturates cores, so this stays small.
const maxConcurrentFiles = 4

type compressJob struct {
	input   string
	output  string
	percent int
	seed    int64
	workers int
}

// runCompressJobs processes the jobs concurrently behind a semaphore.
// Every job is attempted; the first error (if any) is returned after
// all jobs finish.
func runCompressJobs(ctx context.Context, jobs []compressJob) error {
	limit := maxConcurrentFiles
	if len(jobs) < limit {
		limit = len(jobs)
	}
	semaphore := make(chan struct{}, limit)

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job compressJob) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			errs[i] = compressOne(ctx, job)
		}(i, job)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func compressOne(ctx context.Context, job compressJob) error {
	anim, info, err := loadAnimation(job.input)
	if err != nil {
		log.Error().Str("input", job.input).Err(err).Msg("load failed")
		return err
	}

	pipeline := compress.New(encodeFunc,
		compress.WithSeed(job.seed),
		compress.WithWorkers(job.workers),
		compress.WithLogger(log.With().Str("input", job.input).Logger()),
	)

	res, err := pipeline.Compress(ctx, anim, job.percent)
	if err != nil {
		log.Error().Str("input", job.input).Err(err).Msg("compression failed")
		return err
	}

	log.Info().
		Str("input", job.input).
		Str("output", job.output).
		Int64("file_bytes", info.Size()).
		Int("initial_bytes", res.InitialSize).
		Int("final_bytes", res.FinalSize).
		Str("achieved", percentString(res.AchievedPercent)).
		Str("outcome", res.Outcome.String()).
		Strs("stages", res.StagesApplied).
		Msg("compressed")

	return writeAnimation(job.output, res.Animation)
}
