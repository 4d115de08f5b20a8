package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertMemberUpdated checks the log output to confirm that the named member
// was visited by a namespace update.
func AssertMemberUpdated(t *testing.T, result *HarnessResult, member string) {
	t.Helper()

	attr := fmt.Sprintf("member=%s", member)
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, `msg="Updating member."`) && strings.Contains(line+" ", attr+" ") {
			return
		}
	}
	require.Failf(t, "member not updated", "expected member '%s' to be updated, logs:\n%s", member, result.LogOutput)
}

// AssertOutputLine checks that the run printed the given line.
func AssertOutputLine(t *testing.T, result *HarnessResult, line string) {
	t.Helper()

	for _, l := range strings.Split(result.Output, "\n") {
		if l == line {
			return
		}
	}
	require.Failf(t, "output line not found", "want %q in:\n%s", line, result.Output)
}
