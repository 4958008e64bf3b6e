package inbound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"github.com/shandysiswandi/seedauth/internal/pkg/goroutine"
	"go.uber.org/atomic"
)

const (
	cronJobName             = "authenticator.totp_log"
	defaultCronIntervalSecs = 60
)

// CronJob writes the current code once per interval, the same line an
// operator would get from a crontab entry calling the service.
type CronJob struct {
	uc     ucCron
	clock  clock.Clocker
	output string

	running atomic.Bool
	runs    atomic.Uint64
}

func NewCronJob(uc ucCron, clk clock.Clocker, output string) *CronJob {
	return &CronJob{uc: uc, clock: clk, output: output}
}

// RegisterCronJob schedules the job when modules.authenticator.cron.enabled
// is set.
func RegisterCronJob(ctx context.Context, cfg config.Config, routine *goroutine.Manager, clk clock.Clocker, uc ucCron) *CronJob {
	if !cfg.GetBool("modules.authenticator.cron.enabled") {
		return nil
	}

	secs := cfg.GetInt("modules.authenticator.cron.interval_seconds")
	if secs <= 0 {
		secs = defaultCronIntervalSecs
	}

	job := NewCronJob(uc, clk, cfg.GetString("modules.authenticator.cron.output_path"))
	slog.InfoContext(ctx, "Running job for logging totp code", "job", cronJobName, "interval_seconds", secs)
	routine.Tick(ctx, cronJobName, time.Duration(secs)*time.Second, job.Run)

	return job
}

// Run emits one line. Overlapping calls are skipped.
func (j *CronJob) Run(ctx context.Context) error {
	if !j.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "previous totp log run still in progress, skipping", "job", cronJobName)
		return nil
	}
	defer j.running.Store(false)
	j.runs.Inc()

	ts := j.clock.Now().UTC().Format(time.DateTime)

	out, err := j.uc.GenerateCode(ctx)
	if errors.Is(err, entity.ErrNotProvisioned) {
		return j.emit(ctx, ts+" Seed not found")
	}
	if err != nil {
		return err
	}

	return j.emit(ctx, fmt.Sprintf("%s 2FA Code: %s", ts, out.Code))
}

// Runs reports how many times the job has executed.
func (j *CronJob) Runs() uint64 {
	return j.runs.Load()
}

func (j *CronJob) emit(ctx context.Context, line string) error {
	slog.InfoContext(ctx, line, "job", cronJobName)

	if j.output == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(j.output), 0o700); err != nil {
		return err
	}

	// #nosec G304 -- path is from trusted config file.
	f, err := os.OpenFile(j.output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
