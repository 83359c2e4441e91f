package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Run()
}

// CronJob is a job with its own cron schedule.
type CronJob interface {
	Schedule() string
	Job
}

// Runner drives the maintenance jobs on their cron schedules. A job
// still running when its schedule fires again is skipped.
type Runner struct {
	cron    *cron.Cron
	jobs    []CronJob
	running mapset.Set[CronJob]
	mu      sync.Mutex
}

func NewRunner(jobs ...CronJob) *Runner {
	return &Runner{
		cron:    cron.New(),
		jobs:    jobs,
		running: mapset.NewSet[CronJob](),
	}
}

func (r *Runner) Start() {
	for _, job := range r.jobs {
		err := r.cron.AddFunc(job.Schedule(), func() {
			r.mu.Lock()
			if r.running.Contains(job) {
				r.mu.Unlock()
				logrus.Warn("job is already running, skipping this run")
				return
			}
			r.running.Add(job)
			r.mu.Unlock()

			defer func() {
				r.mu.Lock()
				defer r.mu.Unlock()
				r.running.Remove(job)
			}()

			job.Run()
		})

		if err != nil {
			logrus.Errorf("failed to schedule job: %v", err)
			panic(err)
		}
	}

	r.cron.Start()
}

func (r *Runner) Stop() {
	logrus.Infof("stopping maintenance jobs")
	r.cron.Stop()
}
