package tools

import (
	"context"

	"github.com/pkg/errors"

	"azure-vm-mcp/pkg/vmops"
)

// Operations is what the tool handlers need from the orchestrator.
// *vmops.Runner is the production implementation.
type Operations interface {
	DeployVM(ctx context.Context, p vmops.DeployParams) vmops.Envelope
	RestartVM(ctx context.Context, resourceGroup, vmName string) vmops.Envelope
	RestartService(ctx context.Context, p vmops.ServiceParams) vmops.Envelope
	ProcessUtilization(ctx context.Context, p vmops.ProcUtilParams) vmops.Envelope
}

// toolSpecs is the full catalog surface, declared in one table.
var toolSpecs = []ToolSpec{
	{
		Name:        vmops.ToolDeployVM,
		Description: "Deploy a new Azure Virtual Machine with networking (resource group, VNet, subnet, public IP, NIC)",
		Parameters: []ParameterSpec{
			{Name: "resource_group", Kind: KindString, Required: true, Description: "Resource group name (created if it doesn't exist)"},
			{Name: "vm_name", Kind: KindString, Required: true, Description: "Name for the virtual machine"},
			{Name: "admin_password", Kind: KindString, Required: true, Description: "Administrator password (min 12 chars, mixed case, number, special char)"},
			{Name: "location", Kind: KindString, Default: "eastus", Description: "Azure region (e.g. eastus, westus2, centralindia)"},
			{Name: "vm_size", Kind: KindString, Default: "Standard_B2s", Description: "VM size (e.g. Standard_B2s, Standard_D2s_v3)"},
			{Name: "admin_username", Kind: KindString, Default: "azureuser", Description: "Administrator username"},
			{Name: "os_type", Kind: KindEnum, Default: vmops.OSLinux, AllowedValues: []string{vmops.OSLinux, vmops.OSWindows}, Description: "Operating system type"},
		},
	},
	{
		Name:        vmops.ToolRestartVM,
		Description: "Restart an existing Azure Virtual Machine",
		Parameters: []ParameterSpec{
			{Name: "resource_group", Kind: KindString, Required: true, Description: "Resource group containing the VM"},
			{Name: "vm_name", Kind: KindString, Required: true, Description: "Name of the virtual machine to restart"},
		},
	},
	{
		Name:        vmops.ToolRestartService,
		Description: "Restart a service inside an Azure VM (e.g. tomcat, MSSQLSERVER, nginx)",
		Parameters: []ParameterSpec{
			{Name: "resource_group", Kind: KindString, Required: true, Description: "Resource group containing the VM"},
			{Name: "vm_name", Kind: KindString, Required: true, Description: "Name of the virtual machine"},
			{Name: "service_name", Kind: KindString, Required: true, Description: "Name of the service to restart"},
			{Name: "os_type", Kind: KindEnum, Default: vmops.OSWindows, AllowedValues: []string{vmops.OSWindows, vmops.OSLinux}, Description: "Operating system type"},
		},
	},
	{
		Name:        vmops.ToolGetProcUtilization,
		Description: "Get top CPU and memory consuming processes on an Azure VM as JSON",
		Parameters: []ParameterSpec{
			{Name: "resource_group", Kind: KindString, Required: true, Description: "Resource group containing the VM"},
			{Name: "vm_name", Kind: KindString, Required: true, Description: "Name of the virtual machine"},
			{Name: "os_type", Kind: KindEnum, Default: vmops.OSWindows, AllowedValues: []string{vmops.OSWindows, vmops.OSLinux}, Description: "Operating system type"},
			{Name: "sample_seconds", Kind: KindInteger, Default: 5, Description: "Sampling period in seconds"},
			{Name: "top_n", Kind: KindInteger, Default: 15, Description: "Number of top processes to return"},
		},
	},
}

// DefaultCatalog registers the four VM operation tools against the given
// orchestrator. Duplicate or malformed specs fail here, at startup.
func DefaultCatalog(ops Operations) (*Catalog, error) {
	handlers := map[string]Handler{
		vmops.ToolDeployVM: func(ctx context.Context, args ValidatedArgs) vmops.Envelope {
			return ops.DeployVM(ctx, vmops.DeployParams{
				ResourceGroup: args.String("resource_group"),
				VMName:        args.String("vm_name"),
				AdminPassword: args.String("admin_password"),
				Location:      args.String("location"),
				VMSize:        args.String("vm_size"),
				AdminUsername: args.String("admin_username"),
				OSType:        args.String("os_type"),
			})
		},
		vmops.ToolRestartVM: func(ctx context.Context, args ValidatedArgs) vmops.Envelope {
			return ops.RestartVM(ctx, args.String("resource_group"), args.String("vm_name"))
		},
		vmops.ToolRestartService: func(ctx context.Context, args ValidatedArgs) vmops.Envelope {
			return ops.RestartService(ctx, vmops.ServiceParams{
				ResourceGroup: args.String("resource_group"),
				VMName:        args.String("vm_name"),
				ServiceName:   args.String("service_name"),
				OSType:        args.String("os_type"),
			})
		},
		vmops.ToolGetProcUtilization: func(ctx context.Context, args ValidatedArgs) vmops.Envelope {
			return ops.ProcessUtilization(ctx, vmops.ProcUtilParams{
				ResourceGroup: args.String("resource_group"),
				VMName:        args.String("vm_name"),
				OSType:        args.String("os_type"),
				SampleSeconds: args.Int("sample_seconds"),
				TopN:          args.Int("top_n"),
			})
		},
	}

	catalog := NewCatalog()
	for _, spec := range toolSpecs {
		handler, ok := handlers[spec.Name]
		if !ok {
			return nil, errors.Errorf("tool %s declared without a handler", spec.Name)
		}
		if err := catalog.Register(spec, handler); err != nil {
			return nil, errors.Wrap(err, "registering tools")
		}
	}
	return catalog, nil
}
