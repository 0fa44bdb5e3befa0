package vmops

import (
	"context"
	"encoding/json"
	"fmt"
)

// ProcUtilParams are the validated arguments of the get_process_utilization
// tool.
type ProcUtilParams struct {
	ResourceGroup string
	VMName        string
	OSType        string
	SampleSeconds int
	TopN          int
}

// ProcessUtilization ships an OS-specific sampling script into the guest and
// parses its stdout as JSON. The guest output is untrusted: malformed JSON
// produces a failure envelope carrying the raw text for diagnosis, never an
// error crossing the dispatcher boundary.
func (r *Runner) ProcessUtilization(ctx context.Context, p ProcUtilParams) Envelope {
	r.log.Info().Str("vm", p.VMName).Int("sample_seconds", p.SampleSeconds).Int("top_n", p.TopN).Msg("sampling process utilization")

	script, commandID, err := renderProcScript(p.OSType, p.VMName, p.SampleSeconds, p.TopN)
	if err != nil {
		return remoteFailure(ToolGetProcUtilization, p.VMName, "render_script", nil, err)
	}

	out, err := r.client.RunCommand(ctx, p.ResourceGroup, p.VMName, commandID, script)
	if err != nil {
		steps := []StepResult{{Step: StepRunCommand, Succeeded: false}}
		env := remoteFailure(ToolGetProcUtilization, p.VMName, StepRunCommand, steps, err)
		// This tool's surface is JSON; keep the message machine-readable.
		env.Message = mustJSON(map[string]any{
			"success": false,
			"error":   fmt.Sprintf("failed to get process utilization for VM '%s': %s", p.VMName, err.Error()),
		})
		return env
	}

	if out.Stdout == "" {
		msg := mustJSON(map[string]any{
			"success":      false,
			"error":        "no output received from VM",
			"error_output": out.Stderr,
		})
		return failureEnvelope(msg, map[string]any{
			"error":        "no output received from VM",
			"error_output": out.Stderr,
		})
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out.Stdout), &parsed); err != nil {
		msg := mustJSON(map[string]any{
			"success":      false,
			"error":        "failed to parse guest output as JSON",
			"raw_output":   out.Stdout,
			"error_output": out.Stderr,
		})
		return failureEnvelope(msg, map[string]any{
			"error":        "failed to parse guest output as JSON",
			"raw_output":   out.Stdout,
			"error_output": out.Stderr,
		})
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		pretty = []byte(out.Stdout)
	}
	return successEnvelope(string(pretty), parsed)
}

// mustJSON compact-marshals values we constructed ourselves.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"success": false, "error": %q}`, err.Error())
	}
	return string(b)
}
