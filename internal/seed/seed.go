// Package seed loads an initial household definition from a YAML file. It is
// used by the import command to bootstrap a fresh deployment with assignees
// and chores in one step.
package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// File is the top-level YAML document.
type File struct {
	Assignees []Assignee `yaml:"assignees"`
	Chores    []Chore    `yaml:"chores"`
}

// Assignee is one participant entry.
type Assignee struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Token      string `yaml:"token"`
	IsApprover bool   `yaml:"is_approver"`
}

// Chore is one chore entry. Assignees are referenced by their YAML ids.
type Chore struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Points      float64  `yaml:"points"`
	Assignees   []string `yaml:"assignees"`

	Mode        string `yaml:"mode"`
	SharedReset string `yaml:"shared_reset"`
	Overdue     string `yaml:"overdue"`

	Reset struct {
		Kind         string `yaml:"kind"`
		Boundary     string `yaml:"boundary"`
		PendingClaim string `yaml:"pending_claim"`
	} `yaml:"reset"`

	Recurrence struct {
		Kind       string   `yaml:"kind"`
		Interval   int      `yaml:"interval"`
		Unit       string   `yaml:"unit"`
		Times      []string `yaml:"times"`
		PinWeekday bool     `yaml:"pin_weekday"`
	} `yaml:"recurrence"`

	ApplicableDays *[]int     `yaml:"applicable_days"`
	DueAt          *time.Time `yaml:"due_at"`

	AutoApprove bool `yaml:"auto_approve"`

	NotifyOnClaim    bool `yaml:"notify_on_claim"`
	NotifyOnApproval bool `yaml:"notify_on_approval"`
	NotifyOnOverdue  bool `yaml:"notify_on_overdue"`
}

// Read parses a seed file.
func Read(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// ToAssignee converts a seed entry to the domain type.
func (a Assignee) ToAssignee() *domain.Assignee {
	return &domain.Assignee{
		ID:         a.ID,
		Name:       a.Name,
		Token:      a.Token,
		IsApprover: a.IsApprover,
		IsActive:   true,
	}
}

// ToChore converts a seed entry to the domain type. Validation happens when
// the chore is created, not here.
func (c Chore) ToChore() *domain.Chore {
	chore := &domain.Chore{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Points:      c.Points,
		AssigneeIDs: c.Assignees,
		Mode:        domain.CompletionMode(c.Mode),
		Reset: domain.ResetPolicy{
			Kind:         domain.ResetKind(c.Reset.Kind),
			Boundary:     domain.ResetBoundary(c.Reset.Boundary),
			PendingClaim: domain.PendingClaimRule(c.Reset.PendingClaim),
		},
		Overdue:     domain.OverduePolicy(c.Overdue),
		SharedReset: domain.SharedResetRule(c.SharedReset),
		Recurrence: domain.Recurrence{
			Kind:       domain.RecurrenceKind(c.Recurrence.Kind),
			Interval:   c.Recurrence.Interval,
			Unit:       domain.IntervalUnit(c.Recurrence.Unit),
			Times:      c.Recurrence.Times,
			PinWeekday: c.Recurrence.PinWeekday,
		},
		DueAt:            c.DueAt,
		AutoApprove:      c.AutoApprove,
		NotifyOnClaim:    c.NotifyOnClaim,
		NotifyOnApproval: c.NotifyOnApproval,
		NotifyOnOverdue:  c.NotifyOnOverdue,
	}
	if c.Recurrence.Kind == "" {
		chore.Recurrence.Kind = domain.RecurrenceNone
	}
	if c.ApplicableDays != nil {
		days := make([]time.Weekday, 0, len(*c.ApplicableDays))
		for _, d := range *c.ApplicableDays {
			days = append(days, time.Weekday(d))
		}
		chore.ApplicableDays = days
	}
	return chore
}
