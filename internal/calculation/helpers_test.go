package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// fakeProvider is a MarketDataProvider and ScenarioProvider with scripted results.
type fakeProvider struct {
	mu          sync.Mutex
	params      domain.MarketParameters
	paramsErr   error
	scenarios   []domain.Scenario
	scenarioErr error
	calls       int
}

func (f *fakeProvider) MarketParameters(ctx context.Context) (domain.MarketParameters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.paramsErr != nil {
		return domain.MarketParameters{}, f.paramsErr
	}
	return f.params, nil
}

func (f *fakeProvider) Scenarios(ctx context.Context) ([]domain.Scenario, error) {
	if f.scenarioErr != nil {
		return nil, f.scenarioErr
	}
	return f.scenarios, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// paramsOnlyProvider does not implement ScenarioProvider.
type paramsOnlyProvider struct {
	params domain.MarketParameters
}

func (p paramsOnlyProvider) MarketParameters(ctx context.Context) (domain.MarketParameters, error) {
	return p.params, nil
}

var errProviderDown = errors.New("provider down")

// recordingLogger captures formatted log lines by level.
type recordingLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// fakeClock replaces nowFunc for the duration of a test.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func useFakeClock(t interface{ Cleanup(func()) }) *fakeClock {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	SetNowFunc(clock.Now)
	t.Cleanup(func() { SetNowFunc(time.Now) })
	return clock
}

func ptr[T any](v T) *T { return &v }
