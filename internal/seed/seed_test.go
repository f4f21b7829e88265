package seed_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/seed"
)

const sampleSeed = `
assignees:
  - id: parent
    name: Parent
    token: parent-token
    is_approver: true
  - id: kid-1
    name: Kid One
    token: kid-1-token

chores:
  - id: dishes
    title: Do the dishes
    points: 10
    assignees: [kid-1]
    mode: independent
    overdue: recover_on_late_approval
    reset:
      kind: at_boundary_once
      boundary: midnight
    recurrence:
      kind: daily
    applicable_days: [1, 2, 3, 4, 5]
  - id: feed-cat
    title: Feed the cat
    points: 2
    assignees: [kid-1]
    mode: independent
    overdue: never
    auto_approve: true
    reset:
      kind: upon_completion
    recurrence:
      kind: daily_multi
      times: ["08:00", "18:00"]
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSeedFile(t *testing.T) {
	f, err := seed.Read(writeSeed(t, sampleSeed))
	require.NoError(t, err)

	require.Len(t, f.Assignees, 2)
	parent := f.Assignees[0].ToAssignee()
	assert.Equal(t, "parent", parent.ID)
	assert.True(t, parent.IsApprover)
	assert.True(t, parent.IsActive)

	require.Len(t, f.Chores, 2)

	dishes := f.Chores[0].ToChore()
	assert.Equal(t, "Do the dishes", dishes.Title)
	assert.Equal(t, domain.ModeIndependent, dishes.Mode)
	assert.Equal(t, domain.ResetAtBoundaryOnce, dishes.Reset.Kind)
	assert.Equal(t, domain.BoundaryMidnight, dishes.Reset.Boundary)
	assert.Equal(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, dishes.ApplicableDays)

	cat := f.Chores[1].ToChore()
	assert.True(t, cat.AutoApprove)
	assert.Equal(t, domain.RecurrenceDailyMulti, cat.Recurrence.Kind)
	assert.Equal(t, []string{"08:00", "18:00"}, cat.Recurrence.Times)
	assert.Nil(t, cat.ApplicableDays)
}

func TestReadMissingFile(t *testing.T) {
	_, err := seed.Read(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReadMalformedYAML(t *testing.T) {
	_, err := seed.Read(writeSeed(t, "chores: [not: valid"))
	assert.Error(t, err)
}

func TestOmittedRecurrenceDefaultsToNone(t *testing.T) {
	f, err := seed.Read(writeSeed(t, `
chores:
  - id: one-off
    title: Clean garage
    points: 50
    assignees: [kid-1]
    mode: independent
    overdue: persist_until_approved
    reset:
      kind: at_boundary_once
      boundary: due_date
`))
	require.NoError(t, err)
	require.Len(t, f.Chores, 1)
	assert.Equal(t, domain.RecurrenceNone, f.Chores[0].ToChore().Recurrence.Kind)
}
