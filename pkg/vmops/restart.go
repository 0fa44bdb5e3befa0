package vmops

import (
	"context"
	"fmt"

	"azure-vm-mcp/pkg/azure"
)

// Restart pipeline step names.
const (
	StepGetVM   = "get_vm"
	StepRestart = "restart"
)

// RestartVM restarts an existing VM. The existence check comes first so that
// a missing VM surfaces as a failure instead of being silently treated as
// already restarted; the restart itself is awaited to completion.
func (r *Runner) RestartVM(ctx context.Context, resourceGroup, vmName string) Envelope {
	var steps []StepResult

	r.log.Info().Str("vm", vmName).Str("resource_group", resourceGroup).Msg("restarting virtual machine")

	if err := r.client.GetVM(ctx, resourceGroup, vmName); err != nil {
		steps = append(steps, StepResult{Step: StepGetVM, Succeeded: false})
		if azure.IsNotFound(err) {
			msg := fmt.Sprintf("%s VM '%s' not found in resource group '%s'", failureMarker, vmName, resourceGroup)
			r.log.Error().Str("vm", vmName).Msg("restart target not found")
			return failureEnvelope(msg, map[string]any{
				"tool":   ToolRestartVM,
				"target": vmName,
				"step":   StepGetVM,
				"steps":  steps,
			})
		}
		return remoteFailure(ToolRestartVM, vmName, StepGetVM, steps, err)
	}
	steps = append(steps, StepResult{Step: StepGetVM, Succeeded: true})

	if err := r.client.RestartVM(ctx, resourceGroup, vmName); err != nil {
		steps = append(steps, StepResult{Step: StepRestart, Succeeded: false})
		return remoteFailure(ToolRestartVM, vmName, StepRestart, steps, err)
	}
	steps = append(steps, StepResult{Step: StepRestart, Succeeded: true})

	msg := fmt.Sprintf("%s Successfully restarted VM '%s' in resource group '%s'", successMarker, vmName, resourceGroup)
	return successEnvelope(msg, map[string]any{
		"vm_name":        vmName,
		"resource_group": resourceGroup,
		"steps":          steps,
	})
}
