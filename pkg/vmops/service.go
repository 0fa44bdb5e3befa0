package vmops

import (
	"context"
	"fmt"
)

// StepRunCommand is the outer remote step shipping a guest script. It can
// fail on its own (network, permissions) independently of whatever the inner
// script reports; the two failure modes are kept distinguishable in the
// envelope ("step" data vs captured guest output).
const StepRunCommand = "run_command"

// ServiceParams are the validated arguments of the restart_service tool.
type ServiceParams struct {
	ResourceGroup string
	VMName        string
	ServiceName   string
	OSType        string
}

// RestartService ships an OS-specific restart script into the guest via Run
// Command, waits for it, and classifies the captured output by the ordered
// marker policy. Ambiguous output stays partial.
func (r *Runner) RestartService(ctx context.Context, p ServiceParams) Envelope {
	r.log.Info().Str("vm", p.VMName).Str("service", p.ServiceName).Str("os_type", p.OSType).Msg("restarting service in guest")

	script, commandID, err := renderServiceScript(p.OSType, p.VMName, p.ServiceName)
	if err != nil {
		return remoteFailure(ToolRestartService, p.ServiceName, "render_script", nil, err)
	}

	out, err := r.client.RunCommand(ctx, p.ResourceGroup, p.VMName, commandID, script)
	if err != nil {
		steps := []StepResult{{Step: StepRunCommand, Succeeded: false}}
		return remoteFailure(ToolRestartService, p.ServiceName, StepRunCommand, steps, err)
	}

	data := map[string]any{
		"vm_name":        p.VMName,
		"resource_group": p.ResourceGroup,
		"service_name":   p.ServiceName,
		"os_type":        p.OSType,
		"stdout":         out.Stdout,
		"stderr":         out.Stderr,
	}

	switch ClassifyGuestOutput(out.Stdout, out.Stderr) {
	case OutcomeSuccess:
		msg := fmt.Sprintf("%s Service Restart Completed for '%s' on VM '%s':\n\n%s",
			successMarker, p.ServiceName, p.VMName, out.Stdout)
		return successEnvelope(msg, data)
	case OutcomeFailure:
		msg := fmt.Sprintf("%s Service Restart Failed for '%s' on VM '%s':\n\n%s",
			failureMarker, p.ServiceName, p.VMName, out.Stdout)
		if out.Stderr != "" {
			msg += "\n" + out.Stderr
		}
		return failureEnvelope(msg, data)
	default:
		msg := fmt.Sprintf("%s  Service Restart Status for '%s' on VM '%s':\n\n%s",
			warningMarker, p.ServiceName, p.VMName, out.Stdout)
		return partialEnvelope(msg, data)
	}
}
