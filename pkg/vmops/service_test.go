package vmops

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azure-vm-mcp/pkg/azure"
)

func testServiceParams(osType string) ServiceParams {
	return ServiceParams{
		ResourceGroup: "rg-test",
		VMName:        "web01",
		ServiceName:   "nginx",
		OSType:        osType,
	}
}

func TestRestartServiceSuccessMarker(t *testing.T) {
	client := &fakeAPI{
		runOutput: azure.RunCommandOutput{Stdout: "Current status: running\n✅ Service restarted successfully!"},
	}
	runner := newTestRunner(client)

	env := runner.RestartService(context.Background(), testServiceParams(OSLinux))

	require.Equal(t, OutcomeSuccess, env.Outcome)
	assert.Contains(t, env.Message, "Service Restart Completed for 'nginx' on VM 'web01'")
}

func TestRestartServiceFailureMarker(t *testing.T) {
	client := &fakeAPI{
		runOutput: azure.RunCommandOutput{Stdout: "❌ Service 'nginx' not found on this VM"},
	}
	runner := newTestRunner(client)

	env := runner.RestartService(context.Background(), testServiceParams(OSLinux))

	require.Equal(t, OutcomeFailure, env.Outcome)
	assert.Contains(t, env.Message, "Service Restart Failed")
	assert.Equal(t, "❌ Service 'nginx' not found on this VM", env.Data["stdout"])
}

func TestRestartServiceStderrIsFailure(t *testing.T) {
	client := &fakeAPI{
		runOutput: azure.RunCommandOutput{Stdout: "some output", Stderr: "permission denied"},
	}
	runner := newTestRunner(client)

	env := runner.RestartService(context.Background(), testServiceParams(OSLinux))

	require.Equal(t, OutcomeFailure, env.Outcome)
	assert.Contains(t, env.Message, "permission denied")
}

func TestRestartServiceAmbiguousIsPartial(t *testing.T) {
	client := &fakeAPI{
		runOutput: azure.RunCommandOutput{Stdout: "=== SERVICE RESTART ===\nnothing conclusive"},
	}
	runner := newTestRunner(client)

	env := runner.RestartService(context.Background(), testServiceParams(OSLinux))

	require.Equal(t, OutcomePartial, env.Outcome)
	assert.Contains(t, env.Message, "Service Restart Status")
}

func TestRestartServiceOuterFailureNamesStep(t *testing.T) {
	// The Run Command call itself failing is a different failure mode from
	// the inner script reporting failure; it carries the step identity.
	client := &fakeAPI{runErr: errors.New("extension provisioning timed out")}
	runner := newTestRunner(client)

	env := runner.RestartService(context.Background(), testServiceParams(OSWindows))

	require.Equal(t, OutcomeFailure, env.Outcome)
	assert.Equal(t, StepRunCommand, env.Data["step"])
	assert.Contains(t, env.Message, "extension provisioning timed out")
	assert.NotContains(t, env.Data, "stdout")
}

func TestRestartServiceScriptSelection(t *testing.T) {
	client := &fakeAPI{
		runOutput: azure.RunCommandOutput{Stdout: "✅ Service restarted successfully!"},
	}
	runner := newTestRunner(client)

	runner.RestartService(context.Background(), testServiceParams(OSWindows))
	runner.RestartService(context.Background(), testServiceParams(OSLinux))

	require.Len(t, client.runCommandIDs, 2)
	assert.Equal(t, "RunPowerShellScript", client.runCommandIDs[0])
	assert.Equal(t, "RunShellScript", client.runCommandIDs[1])
	assert.Contains(t, client.runScripts[0], `$serviceName = "nginx"`)
	assert.Contains(t, client.runScripts[1], `SERVICE_NAME="nginx"`)
	assert.Contains(t, client.runScripts[1], "systemctl restart")
}

func TestClassifyGuestOutputOrderedPolicy(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		want   Outcome
	}{
		{"success marker", "✅ done", "", OutcomeSuccess},
		{"success token", "operation completed Successfully", "", OutcomeSuccess},
		{"failure marker wins over success marker", "✅ then ❌", "", OutcomeFailure},
		{"stderr wins over success marker", "✅ done", "boom", OutcomeFailure},
		{"no markers", "plain text", "", OutcomePartial},
		{"empty output", "", "", OutcomePartial},
		{"whitespace stderr ignored", "✅ done", "  \n", OutcomeSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyGuestOutput(tt.stdout, tt.stderr))
		})
	}
}
