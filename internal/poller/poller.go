package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"feedtagger/internal/models"
)

// ErrRunInProgress is returned by RunNow when another run has not finished
var ErrRunInProgress = errors.New("ingestion run already in progress")

// DefaultPollInterval replaces a non-positive interval passed to New
const DefaultPollInterval = 24 * time.Hour

// Runner performs one ingestion run
type Runner interface {
	RunIngestion(ctx context.Context) models.RunResult
}

// StateReporter is implemented by runners that expose the phase of their
// current run
type StateReporter interface {
	State() string
}

// Poller triggers ingestion once at start and then on every interval.
// Runs never overlap: the periodic loop skips a tick while a manual run
// holds the lock and vice versa.
type Poller struct {
	runner       Runner
	pollInterval time.Duration
	baseCtx      context.Context // parent of every run; outlives callers
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	runMu        sync.Mutex
	lastRun      *models.RunResult
	isPolling    bool
	isRunning    bool
}

func New(runner Runner, pollInterval time.Duration) *Poller {
	if pollInterval <= 0 {
		log.Printf("Invalid poll interval %v, using %v", pollInterval, DefaultPollInterval)
		pollInterval = DefaultPollInterval
	}
	return &Poller{
		runner:       runner,
		pollInterval: pollInterval,
		baseCtx:      context.Background(),
	}
}

// Interval returns the effective polling interval
func (p *Poller) Interval() time.Duration {
	return p.pollInterval
}

func (p *Poller) Start() {
	p.mu.Lock()
	if p.isPolling {
		p.mu.Unlock()
		return
	}
	p.isPolling = true
	p.ctx, p.cancel = context.WithCancel(p.baseCtx)
	p.mu.Unlock()

	log.Printf("Starting ingestion poller with interval: %v", p.pollInterval)

	p.wg.Add(1)
	go p.pollLoop(p.ctx)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.isPolling {
		p.mu.Unlock()
		return
	}
	p.isPolling = false
	cancel := p.cancel
	p.mu.Unlock()

	log.Println("Stopping ingestion poller...")
	cancel()
	p.wg.Wait()
	log.Println("Ingestion poller stopped")
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Run immediately on start
	p.tick(ctx)

	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if _, err := p.RunNow(ctx); errors.Is(err, ErrRunInProgress) {
		log.Println("Skipping scheduled ingestion: a run is already in progress")
	}
}

// Trigger runs ingestion on the poller's own context, so the run is not
// aborted when the caller that requested it goes away.
func (p *Poller) Trigger() (models.RunResult, error) {
	return p.RunNow(p.baseCtx)
}

// RunNow performs one ingestion run synchronously. It returns
// ErrRunInProgress instead of starting a second concurrent run.
func (p *Poller) RunNow(ctx context.Context) (models.RunResult, error) {
	if !p.runMu.TryLock() {
		return models.RunResult{}, ErrRunInProgress
	}
	defer p.runMu.Unlock()

	p.setRunning(true)
	defer p.setRunning(false)

	log.Println("Starting ingestion run...")
	result := p.runner.RunIngestion(ctx)
	log.Printf("Ingestion run %s finished: status=%s added=%d failed_sources=%d",
		result.RunID, result.Status, result.Added, len(result.FailedSources))

	p.mu.Lock()
	p.lastRun = &result
	p.mu.Unlock()

	return result, nil
}

func (p *Poller) setRunning(running bool) {
	p.mu.Lock()
	p.isRunning = running
	p.mu.Unlock()
}

// LastRun returns the result of the most recent completed run, if any
func (p *Poller) LastRun() (models.RunResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.lastRun == nil {
		return models.RunResult{}, false
	}
	return *p.lastRun, true
}

func (p *Poller) IsPolling() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isPolling
}

// RunState returns the runner's phase when it reports one; otherwise it
// returns "running" or "idle".
func (p *Poller) RunState() string {
	if reporter, ok := p.runner.(StateReporter); ok {
		return reporter.State()
	}
	if p.IsRunning() {
		return "running"
	}
	return "idle"
}

// IsRunning reports whether an ingestion run is executing right now
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}
