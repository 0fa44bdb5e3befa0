package vmops

import (
	"context"
	"fmt"

	"azure-vm-mcp/pkg/azure"
)

// Deploy pipeline step names, in issue order.
const (
	StepResourceGroup    = "resource_group"
	StepVirtualNetwork   = "virtual_network"
	StepSubnet           = "subnet"
	StepPublicIP         = "public_ip"
	StepNetworkInterface = "network_interface"
	StepVirtualMachine   = "virtual_machine"
	StepPublicIPRead     = "public_ip_read"
)

// Fixed network layout for deployed VMs.
const (
	vnetAddressSpace = "10.0.0.0/16"
	subnetPrefix     = "10.0.0.0/24"
)

// vmImages maps the declared os_type to a platform image reference.
var vmImages = map[string]azure.ImageReference{
	OSLinux: {
		Publisher: "Canonical",
		Offer:     "0001-com-ubuntu-server-jammy",
		SKU:       "22_04-lts-gen2",
		Version:   "latest",
	},
	OSWindows: {
		Publisher: "MicrosoftWindowsServer",
		Offer:     "WindowsServer",
		SKU:       "2022-datacenter-azure-edition",
		Version:   "latest",
	},
}

// DeployParams are the validated arguments of the deploy_vm tool.
type DeployParams struct {
	ResourceGroup string
	VMName        string
	AdminPassword string
	Location      string
	VMSize        string
	AdminUsername string
	OSType        string
}

// DeployVM provisions a VM and its networking as six sequential
// create-or-update steps, each awaited to completion, threading the
// identifiers returned by earlier steps into later ones. The pipeline is
// fail-fast: on the first error it stops without rolling back anything
// already created; partially created infrastructure is left for the caller
// to inspect.
func (r *Runner) DeployVM(ctx context.Context, p DeployParams) Envelope {
	vnetName := p.VMName + "-vnet"
	subnetName := p.VMName + "-subnet"
	publicIPName := p.VMName + "-ip"
	nicName := p.VMName + "-nic"

	var steps []StepResult
	record := func(step, id string, err error) {
		steps = append(steps, StepResult{Step: step, ResourceID: id, Succeeded: err == nil})
	}
	fail := func(step string, err error) Envelope {
		r.log.Error().Err(err).Str("tool", ToolDeployVM).Str("vm", p.VMName).Str("step", step).Msg("deploy step failed")
		return remoteFailure(ToolDeployVM, p.VMName, step, steps, err)
	}

	r.log.Info().Str("vm", p.VMName).Str("resource_group", p.ResourceGroup).Str("location", p.Location).Msg("deploying virtual machine")

	groupID, err := r.client.EnsureResourceGroup(ctx, p.ResourceGroup, p.Location)
	record(StepResourceGroup, groupID, err)
	if err != nil {
		return fail(StepResourceGroup, err)
	}

	vnetID, err := r.client.CreateVirtualNetwork(ctx, p.ResourceGroup, vnetName, p.Location, vnetAddressSpace)
	record(StepVirtualNetwork, vnetID, err)
	if err != nil {
		return fail(StepVirtualNetwork, err)
	}

	subnetID, err := r.client.CreateSubnet(ctx, p.ResourceGroup, vnetName, subnetName, subnetPrefix)
	record(StepSubnet, subnetID, err)
	if err != nil {
		return fail(StepSubnet, err)
	}

	publicIPID, err := r.client.CreatePublicIP(ctx, p.ResourceGroup, publicIPName, p.Location)
	record(StepPublicIP, publicIPID, err)
	if err != nil {
		return fail(StepPublicIP, err)
	}

	nicID, err := r.client.CreateNetworkInterface(ctx, p.ResourceGroup, azure.NetworkInterfaceParams{
		Name:       nicName,
		Location:   p.Location,
		SubnetID:   subnetID,
		PublicIPID: publicIPID,
	})
	record(StepNetworkInterface, nicID, err)
	if err != nil {
		return fail(StepNetworkInterface, err)
	}

	vmID, err := r.client.CreateVirtualMachine(ctx, p.ResourceGroup, azure.VirtualMachineParams{
		Name:          p.VMName,
		Location:      p.Location,
		Size:          p.VMSize,
		Image:         vmImages[p.OSType],
		AdminUsername: p.AdminUsername,
		AdminPassword: p.AdminPassword,
		NICID:         nicID,
	})
	record(StepVirtualMachine, vmID, err)
	if err != nil {
		return fail(StepVirtualMachine, err)
	}

	// Read-only final step: the address was allocated statically above, this
	// fetch only resolves its value for the summary.
	address, err := r.client.PublicIPAddress(ctx, p.ResourceGroup, publicIPName)
	record(StepPublicIPRead, publicIPID, err)
	if err != nil {
		return fail(StepPublicIPRead, err)
	}

	r.log.Info().Str("vm", p.VMName).Str("public_ip", address).Msg("virtual machine deployed")

	connection := fmt.Sprintf("ssh %s@%s", p.AdminUsername, address)
	if p.OSType == OSWindows {
		connection = fmt.Sprintf("RDP to %s", address)
	}

	message := fmt.Sprintf(`%s Virtual Machine deployed successfully!

VM Details:
- Name: %s
- Resource Group: %s
- Location: %s
- Size: %s
- OS: %s
- Public IP: %s
- Admin Username: %s

Resources Created:
- Virtual Machine: %s
- Network Interface: %s
- Public IP: %s
- Virtual Network: %s
- Subnet: %s

Connection Info:
  %s`,
		successMarker,
		p.VMName, p.ResourceGroup, p.Location, p.VMSize, p.OSType, address, p.AdminUsername,
		p.VMName, nicName, publicIPName, vnetName, subnetName,
		connection,
	)

	return successEnvelope(message, map[string]any{
		"vm_name":        p.VMName,
		"resource_group": p.ResourceGroup,
		"location":       p.Location,
		"vm_size":        p.VMSize,
		"os_type":        p.OSType,
		"public_ip":      address,
		"admin_username": p.AdminUsername,
		"steps":          steps,
	})
}
