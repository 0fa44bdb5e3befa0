package vmops

import (
	"github.com/rs/zerolog"

	"azure-vm-mcp/pkg/azure"
)

// Tool names as exposed over MCP.
const (
	ToolDeployVM           = "deploy_vm"
	ToolRestartVM          = "restart_vm"
	ToolRestartService     = "restart_service"
	ToolGetProcUtilization = "get_process_utilization"
)

// OS families understood by the pipelines.
const (
	OSLinux   = "linux"
	OSWindows = "windows"
)

// Runner executes the operation pipelines against one shared control-plane
// client. It holds no per-call state, so a single Runner serves all
// concurrent calls.
type Runner struct {
	client azure.API
	log    zerolog.Logger
}

// NewRunner builds a Runner over the given control-plane client.
func NewRunner(client azure.API, log zerolog.Logger) *Runner {
	return &Runner{client: client, log: log.With().Str("component", "vmops").Logger()}
}
