package main

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itimad/portal-api/internal/domain/model"
)

func TestParseSeedSuperAdminFlags_RequiresCredentials(t *testing.T) {
	_, err := parseSeedSuperAdminFlags([]string{"--email", "admin@gov.iq"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--password")
}

func TestParseSetUserStatusFlags_RejectsUnknownStatus(t *testing.T) {
	_, err := parseSetUserStatusFlags([]string{"--id", "u-1", "--status", "banned"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --status")
}

func TestRenderApplicationsTable(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w

	apps := []*model.Application{{
		ID:          "app-1",
		CenterType:  model.CenterTypeTraining,
		CenterName:  "Al-Noor Training Center",
		City:        "Baghdad",
		Status:      model.StatusUnderReview,
		SubmittedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}
	err = renderApplicationsTable(apps)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	outStr := string(output)
	require.Contains(t, outStr, "Al-Noor Training Center")
	require.Contains(t, outStr, "under_review")
	require.Contains(t, outStr, "2026-03-01T09:00:00Z")
}
