package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultProbeTimeout = 3 * time.Second

// Probe checks one backing service.
type Probe struct {
	Name    string
	Timeout time.Duration
	Check   func(ctx context.Context) error
}

// Monitor runs the probes on a cron schedule and keeps the last result.
type Monitor struct {
	probes []Probe
	cron   *cron.Cron
	logger *zap.Logger

	mu     sync.RWMutex
	status Status
}

// New builds a monitor. schedule accepts cron specs with an optional seconds
// field as well as descriptors such as "@every 10s".
func New(schedule string, logger *zap.Logger, probes ...Probe) (*Monitor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = "@every 10s"
	}

	m := &Monitor{
		probes: probes,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
		status: Status{Services: map[string]ServiceStatus{}},
	}

	if _, err := m.cron.AddFunc(schedule, func() { m.Refresh(context.Background()) }); err != nil {
		return nil, fmt.Errorf("monitor schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start takes a first reading synchronously and then launches the scheduler.
func (m *Monitor) Start(ctx context.Context) {
	m.Refresh(ctx)
	m.cron.Start()
	m.logger.Info("monitor started", zap.Int("probes", len(m.probes)))
}

// Stop halts the scheduler and waits for a running refresh or ctx.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	m.logger.Info("monitor stopped")
}

// Refresh runs every probe concurrently and records the outcome.
func (m *Monitor) Refresh(ctx context.Context) {
	results := make(map[string]ServiceStatus, len(m.probes))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, p := range m.probes {
		wg.Add(1)
		go func(p Probe) {
			defer wg.Done()
			res := m.run(ctx, p)
			mu.Lock()
			results[p.Name] = res
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	m.mu.Lock()
	prev := m.status.Services
	m.status = Status{Services: results, LastCheck: time.Now().UTC()}
	m.mu.Unlock()

	for name, res := range results {
		if was, ok := prev[name]; ok && was.Online != res.Online {
			m.logger.Warn("service status changed",
				zap.String("service", name),
				zap.Bool("online", res.Online),
				zap.String("error", res.Error),
			)
		}
	}
}

func (m *Monitor) run(ctx context.Context, p Probe) ServiceStatus {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := safeCheck(probeCtx, p.Check)
	res := ServiceStatus{
		Online:  err == nil,
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func safeCheck(ctx context.Context, check func(context.Context) error) (err error) {
	if check == nil {
		return errors.New("probe has no check")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return check(ctx)
}

// Healthy reports whether every service answered the last probe.
func (m *Monitor) Healthy() bool {
	return m.GetStatus().Healthy()
}

// GetStatus returns a copy of the last reading.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make(map[string]ServiceStatus, len(m.status.Services))
	for k, v := range m.status.Services {
		services[k] = v
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}
