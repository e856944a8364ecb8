package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotYAML = `
subjects:
  - id: algebra
    name: Algebra
    termStart: 2024-02-01
    termEnd: 2024-06-30
    schedules:
      - day: Monday
        startTime: "10:00"
        endTime: "12:00"
    milestones:
      - id: m1
        title: Midterm
        date: 2024-03-20
        time: "14:30"
        type: Exam
transactions:
  - id: t1
    date: 2024-03-18
    type: income
    category: Job
    amount: "150.5"
recurring:
  - id: rent
    startDate: 2024-03-01
    frequency: monthly
    interval: 1
    type: expense
    category: Housing
    amount: "500"
    description: Rent
journal:
  - id: j1
    date: 2024-03-18
    mood: great
customEvents:
  - id: c1
    title: "Exam; Part 1, \"Final\""
    date: 2024-03-23
`

var cliNow = time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))
	return path
}

func TestLoadSnapshot_Sources(t *testing.T) {
	snap, err := loadSnapshot(writeSnapshot(t))
	require.NoError(t, err)

	sources, err := snap.sources(cliNow)
	require.NoError(t, err)

	require.Len(t, sources.Subjects, 1)
	assert.Equal(t, "2024-02-01", sources.Subjects[0].TermStart)
	assert.Equal(t, "Monday", sources.Subjects[0].Schedules[0].Day)
	assert.Equal(t, "2024-03-20", sources.Subjects[0].Milestones[0].Date)
	require.Len(t, sources.Transactions, 2)
	assert.Equal(t, "150.5", sources.Transactions[0].Amount.String())
	assert.Equal(t, "rent-20240301", sources.Transactions[1].Id)
	assert.Equal(t, "great", string(sources.Journal[0].Mood))
	assert.Equal(t, `Exam; Part 1, "Final"`, sources.Custom[0].Title)
}

func TestLoadSnapshot_InvalidAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transactions:\n  - id: t1\n    date: 2024-03-18\n    amount: lots\n"), 0o600))
	snap, err := loadSnapshot(path)
	require.NoError(t, err)

	_, err = snap.sources(cliNow)

	assert.ErrorContains(t, err, "transaction t1")
}

func TestRun_Day(t *testing.T) {
	var out bytes.Buffer

	err := run([]string{"-snapshot", writeSnapshot(t), "-mode", "day"}, &out, cliNow)

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Monday, 18 March 2024")
	assert.Contains(t, text, "Algebra")
	assert.Contains(t, text, "150.50")
	assert.Contains(t, text, "😄")
	assert.Less(t, strings.Index(text, "Job"), strings.Index(text, "Algebra"))
}

func TestRun_WeekAndMonth(t *testing.T) {
	path := writeSnapshot(t)

	var week bytes.Buffer
	require.NoError(t, run([]string{"-snapshot", path, "-mode", "week", "-date", "2024-03-21"}, &week, cliNow))
	assert.Contains(t, week.String(), "2024-03-18 Mon (today)")
	assert.Contains(t, week.String(), "2024-03-24 Sun")
	assert.Contains(t, week.String(), "Midterm")

	var month bytes.Buffer
	require.NoError(t, run([]string{"-snapshot", path, "-mode", "month", "-date", "2024-03-05"}, &month, cliNow))
	assert.Contains(t, month.String(), "March 2024")
	assert.Contains(t, month.String(), "Rent")
}

func TestRun_Ics(t *testing.T) {
	out := filepath.Join(t.TempDir(), "calendar.ics")

	require.NoError(t, run([]string{"-snapshot", writeSnapshot(t), "-out", out}, &bytes.Buffer{}, cliNow))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "UID:m1@studianta")
	assert.Contains(t, doc, `SUMMARY:Exam\; Part 1\, "Final"`)
	assert.Equal(t, 2, strings.Count(doc, "BEGIN:VEVENT"))
}

func TestRun_Errors(t *testing.T) {
	path := writeSnapshot(t)

	err := run([]string{"-snapshot", path, "-mode", "year"}, &bytes.Buffer{}, cliNow)
	assert.ErrorIs(t, err, ErrUnknownMode)

	err = run([]string{"-snapshot", path, "-mode", "day", "-date", "18/03/2024"}, &bytes.Buffer{}, cliNow)
	assert.Error(t, err)

	err = run([]string{"-snapshot", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}, cliNow)
	assert.ErrorContains(t, err, "failed to read snapshot")
}
