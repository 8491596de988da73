package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gedops/internal/cleanup"
	"gedops/internal/types"
)

type fakeJob struct {
	name   string
	report cleanup.Report
	err    error
	calls  *[]string
}

func (f fakeJob) Name() string {
	return f.name
}

func (f fakeJob) Run(ctx context.Context, opts cleanup.Options) (cleanup.Report, error) {
	*f.calls = append(*f.calls, f.name)
	report := f.report
	report.Job = f.name
	report.DryRun = opts.DryRun
	return report, f.err
}

type fakeRunRepository struct {
	runs []*types.Run
}

func (f *fakeRunRepository) Save(ctx context.Context, run *types.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepository) FindRecent(ctx context.Context, limit int) ([]*types.Run, error) {
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

func TestCleanupService_RunAllFixedOrder(t *testing.T) {
	calls := make([]string, 0)
	runs := &fakeRunRepository{}

	svc := NewCleanupService(
		fakeJob{name: "trash", report: cleanup.Report{Deleted: 2}, calls: &calls},
		fakeJob{name: "tokens", report: cleanup.Report{Deleted: 5}, calls: &calls},
		fakeJob{name: "audit", report: cleanup.Report{Deleted: 1}, calls: &calls},
		runs)

	reports, summary := svc.RunAll(context.Background(), cleanup.Options{})

	assert.Equal(t, []string{"trash", "tokens", "audit"}, calls)
	assert.True(t, summary.Ok())
	require.Len(t, reports, 3)
	assert.Len(t, runs.runs, 3)
}

func TestCleanupService_ContinuesPastFailingPhase(t *testing.T) {
	calls := make([]string, 0)

	svc := NewCleanupService(
		fakeJob{name: "trash", err: assert.AnError, calls: &calls},
		fakeJob{name: "tokens", report: cleanup.Report{Deleted: 3}, calls: &calls},
		fakeJob{name: "audit", report: cleanup.Report{Deleted: 1}, calls: &calls},
		&fakeRunRepository{})

	reports, summary := svc.RunAll(context.Background(), cleanup.Options{})

	assert.Equal(t, []string{"trash", "tokens", "audit"}, calls)
	assert.False(t, summary.Ok())
	assert.Equal(t, []string{"trash cleanup"}, summary.Failures())
	assert.Len(t, reports, 3)
}

func TestCleanupService_PartialItemFailureFailsSummary(t *testing.T) {
	calls := make([]string, 0)

	svc := NewCleanupService(
		fakeJob{name: "trash", report: cleanup.Report{Deleted: 1, Failed: 2}, calls: &calls},
		fakeJob{name: "tokens", calls: &calls},
		fakeJob{name: "audit", calls: &calls},
		&fakeRunRepository{})

	_, summary := svc.RunAll(context.Background(), cleanup.Options{})
	assert.False(t, summary.Ok())
	assert.Equal(t, []string{"trash cleanup"}, summary.Failures())
}

func TestCleanupService_DryRunRecordsCandidateCount(t *testing.T) {
	calls := make([]string, 0)
	runs := &fakeRunRepository{}

	report := cleanup.Report{Candidates: []cleanup.Item{{ID: "a"}, {ID: "b"}}}
	svc := NewCleanupService(
		fakeJob{name: "trash", report: report, calls: &calls},
		fakeJob{name: "tokens", calls: &calls},
		fakeJob{name: "audit", calls: &calls},
		runs)

	_, summary := svc.RunAll(context.Background(), cleanup.Options{DryRun: true})
	assert.True(t, summary.Ok())

	require.NotEmpty(t, runs.runs)
	assert.Equal(t, "cleanup-trash", runs.runs[0].Job)
	assert.True(t, runs.runs[0].DryRun)
	assert.Equal(t, 2, runs.runs[0].Processed)
}
