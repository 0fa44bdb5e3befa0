// Package azure wraps the Azure Resource Manager control plane behind a small
// interface of blocking primitives. Every create/update/restart/run-command
// call awaits the server-side operation to completion before returning, so
// callers can treat each primitive as one suspension point.
package azure

import (
	"context"
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// ImageReference identifies a platform OS image.
type ImageReference struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

// NetworkInterfaceParams describes a NIC binding a subnet and a public IP.
type NetworkInterfaceParams struct {
	Name       string
	Location   string
	SubnetID   string
	PublicIPID string
}

// VirtualMachineParams describes a VM created from a platform image with a
// premium locally-redundant managed OS disk.
type VirtualMachineParams struct {
	Name          string
	Location      string
	Size          string
	Image         ImageReference
	AdminUsername string
	AdminPassword string
	NICID         string
}

// RunCommandOutput carries the stdout and stderr captured from a script
// executed inside the guest.
type RunCommandOutput struct {
	Stdout string
	Stderr string
}

// API is the set of control-plane primitives the orchestrator depends on.
// Implementations must be safe for concurrent use; the server shares one
// instance across all in-flight calls.
type API interface {
	// EnsureResourceGroup creates or updates a resource group. Idempotent.
	EnsureResourceGroup(ctx context.Context, name, location string) (string, error)
	// CreateVirtualNetwork creates or updates a VNet with one address space.
	CreateVirtualNetwork(ctx context.Context, resourceGroup, name, location, addressSpace string) (string, error)
	// CreateSubnet creates or updates a subnet within an existing VNet.
	CreateSubnet(ctx context.Context, resourceGroup, vnetName, name, addressPrefix string) (string, error)
	// CreatePublicIP allocates a static standard-SKU IPv4 address.
	CreatePublicIP(ctx context.Context, resourceGroup, name, location string) (string, error)
	// CreateNetworkInterface creates or updates a NIC.
	CreateNetworkInterface(ctx context.Context, resourceGroup string, params NetworkInterfaceParams) (string, error)
	// CreateVirtualMachine creates or updates a VM.
	CreateVirtualMachine(ctx context.Context, resourceGroup string, params VirtualMachineParams) (string, error)
	// PublicIPAddress reads back the address allocated to a public IP.
	PublicIPAddress(ctx context.Context, resourceGroup, name string) (string, error)
	// GetVM confirms a VM exists. A missing VM yields an error for which
	// IsNotFound reports true.
	GetVM(ctx context.Context, resourceGroup, vmName string) error
	// RestartVM restarts a VM and waits for the operation to finish.
	RestartVM(ctx context.Context, resourceGroup, vmName string) error
	// RunCommand executes a script inside the guest via the Run Command
	// extension and returns the captured output.
	RunCommand(ctx context.Context, resourceGroup, vmName, commandID, script string) (RunCommandOutput, error)
}

// IsNotFound reports whether err is the control plane's 404 for a missing
// resource.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return false
}
