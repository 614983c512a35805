package reconciler

import (
	"fmt"
	"sync"
	"time"
)

// Workload kinds used in summaries and metrics.
const (
	KindApplication = "DotNetApp"
	KindDeployment  = "Deployment"
	KindService     = "Service"
)

// Failure stages.
const (
	StageList   = "list"
	StageGet    = "get"
	StageCreate = "create"
)

// Failure is one isolated error seen during a pass.
type Failure struct {
	Namespace   string
	Application string // empty when listing the namespace's apps failed
	Kind        string
	Stage       string
	Err         error
}

func (f Failure) String() string {
	if f.Application == "" {
		return fmt.Sprintf("%s %s in namespace %s: %v", f.Stage, f.Kind, f.Namespace, f.Err)
	}
	return fmt.Sprintf("%s %s for %s/%s: %v", f.Stage, f.Kind, f.Namespace, f.Application, f.Err)
}

// PassSummary describes what one reconciliation pass observed and did.
// Created objects are recorded as "namespace/name".
type PassSummary struct {
	PassID             string
	StartedAt          time.Time
	Duration           time.Duration
	Namespaces         int
	SkippedNamespaces  int
	Applications       int
	CreatedDeployments []string
	CreatedServices    []string
	Failures           []Failure
}

// Created returns the number of objects the pass created.
func (s PassSummary) Created() int {
	return len(s.CreatedDeployments) + len(s.CreatedServices)
}

// Failed reports whether any isolated failure occurred.
func (s PassSummary) Failed() bool {
	return len(s.Failures) > 0
}

// passRecorder serializes summary updates from concurrent namespace workers.
type passRecorder struct {
	mu      sync.Mutex
	summary PassSummary
}

func (p *passRecorder) addApplications(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary.Applications += n
}

func (p *passRecorder) skipNamespace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary.SkippedNamespaces++
}

func (p *passRecorder) created(kind, namespace, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ref := namespace + "/" + name
	switch kind {
	case KindDeployment:
		p.summary.CreatedDeployments = append(p.summary.CreatedDeployments, ref)
	case KindService:
		p.summary.CreatedServices = append(p.summary.CreatedServices, ref)
	}
}

func (p *passRecorder) failed(f Failure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary.Failures = append(p.summary.Failures, f)
}

func (p *passRecorder) finish(start time.Time) PassSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summary.Duration = time.Since(start)
	return p.summary
}
