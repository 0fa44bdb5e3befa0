package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/pkg/errors"

	"azure-vm-mcp/pkg/config"
)

// Run Command status codes carrying the guest's captured streams.
const (
	stdoutStatusCode = "ComponentStatus/StdOut/succeeded"
	stderrStatusCode = "ComponentStatus/StdErr/succeeded"
)

// Client implements API on top of the ARM SDK. All long-running operations
// are polled to completion before returning.
type Client struct {
	resourceGroups *armresources.ResourceGroupsClient
	vnets          *armnetwork.VirtualNetworksClient
	subnets        *armnetwork.SubnetsClient
	publicIPs      *armnetwork.PublicIPAddressesClient
	interfaces     *armnetwork.InterfacesClient
	vms            *armcompute.VirtualMachinesClient
}

// NewClient authenticates with the service principal and builds the ARM
// clients once; the returned Client is shared by all calls.
func NewClient(creds *config.Credentials) (*Client, error) {
	cred, err := azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building client secret credential")
	}

	resourceGroups, err := armresources.NewResourceGroupsClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building resource groups client")
	}
	vnets, err := armnetwork.NewVirtualNetworksClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building virtual networks client")
	}
	subnets, err := armnetwork.NewSubnetsClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building subnets client")
	}
	publicIPs, err := armnetwork.NewPublicIPAddressesClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building public IP addresses client")
	}
	interfaces, err := armnetwork.NewInterfacesClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building network interfaces client")
	}
	vms, err := armcompute.NewVirtualMachinesClient(creds.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building virtual machines client")
	}

	return &Client{
		resourceGroups: resourceGroups,
		vnets:          vnets,
		subnets:        subnets,
		publicIPs:      publicIPs,
		interfaces:     interfaces,
		vms:            vms,
	}, nil
}

func (c *Client) EnsureResourceGroup(ctx context.Context, name, location string) (string, error) {
	resp, err := c.resourceGroups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
	}, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) CreateVirtualNetwork(ctx context.Context, resourceGroup, name, location, addressSpace string) (string, error) {
	poller, err := c.vnets.BeginCreateOrUpdate(ctx, resourceGroup, name, armnetwork.VirtualNetwork{
		Location: to.Ptr(location),
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: []*string{to.Ptr(addressSpace)},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) CreateSubnet(ctx context.Context, resourceGroup, vnetName, name, addressPrefix string) (string, error) {
	poller, err := c.subnets.BeginCreateOrUpdate(ctx, resourceGroup, vnetName, name, armnetwork.Subnet{
		Properties: &armnetwork.SubnetPropertiesFormat{
			AddressPrefix: to.Ptr(addressPrefix),
		},
	}, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) CreatePublicIP(ctx context.Context, resourceGroup, name, location string) (string, error) {
	poller, err := c.publicIPs.BeginCreateOrUpdate(ctx, resourceGroup, name, armnetwork.PublicIPAddress{
		Location: to.Ptr(location),
		SKU: &armnetwork.PublicIPAddressSKU{
			Name: to.Ptr(armnetwork.PublicIPAddressSKUNameStandard),
		},
		Properties: &armnetwork.PublicIPAddressPropertiesFormat{
			PublicIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethodStatic),
			PublicIPAddressVersion:   to.Ptr(armnetwork.IPVersionIPv4),
		},
	}, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) CreateNetworkInterface(ctx context.Context, resourceGroup string, params NetworkInterfaceParams) (string, error) {
	poller, err := c.interfaces.BeginCreateOrUpdate(ctx, resourceGroup, params.Name, armnetwork.Interface{
		Location: to.Ptr(params.Location),
		Properties: &armnetwork.InterfacePropertiesFormat{
			IPConfigurations: []*armnetwork.InterfaceIPConfiguration{
				{
					Name: to.Ptr("ipconfig1"),
					Properties: &armnetwork.InterfaceIPConfigurationPropertiesFormat{
						Subnet:          &armnetwork.Subnet{ID: to.Ptr(params.SubnetID)},
						PublicIPAddress: &armnetwork.PublicIPAddress{ID: to.Ptr(params.PublicIPID)},
					},
				},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) CreateVirtualMachine(ctx context.Context, resourceGroup string, params VirtualMachineParams) (string, error) {
	poller, err := c.vms.BeginCreateOrUpdate(ctx, resourceGroup, params.Name, armcompute.VirtualMachine{
		Location: to.Ptr(params.Location),
		Properties: &armcompute.VirtualMachineProperties{
			HardwareProfile: &armcompute.HardwareProfile{
				VMSize: to.Ptr(armcompute.VirtualMachineSizeTypes(params.Size)),
			},
			StorageProfile: &armcompute.StorageProfile{
				ImageReference: &armcompute.ImageReference{
					Publisher: to.Ptr(params.Image.Publisher),
					Offer:     to.Ptr(params.Image.Offer),
					SKU:       to.Ptr(params.Image.SKU),
					Version:   to.Ptr(params.Image.Version),
				},
				OSDisk: &armcompute.OSDisk{
					CreateOption: to.Ptr(armcompute.DiskCreateOptionTypesFromImage),
					ManagedDisk: &armcompute.ManagedDiskParameters{
						StorageAccountType: to.Ptr(armcompute.StorageAccountTypesPremiumLRS),
					},
				},
			},
			OSProfile: &armcompute.OSProfile{
				ComputerName:  to.Ptr(params.Name),
				AdminUsername: to.Ptr(params.AdminUsername),
				AdminPassword: to.Ptr(params.AdminPassword),
			},
			NetworkProfile: &armcompute.NetworkProfile{
				NetworkInterfaces: []*armcompute.NetworkInterfaceReference{
					{
						ID: to.Ptr(params.NICID),
						Properties: &armcompute.NetworkInterfaceReferenceProperties{
							Primary: to.Ptr(true),
						},
					},
				},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	return deref(resp.ID), nil
}

func (c *Client) PublicIPAddress(ctx context.Context, resourceGroup, name string) (string, error) {
	resp, err := c.publicIPs.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return "", err
	}
	if resp.Properties == nil {
		return "", nil
	}
	return deref(resp.Properties.IPAddress), nil
}

func (c *Client) GetVM(ctx context.Context, resourceGroup, vmName string) error {
	_, err := c.vms.Get(ctx, resourceGroup, vmName, nil)
	return err
}

func (c *Client) RestartVM(ctx context.Context, resourceGroup, vmName string) error {
	poller, err := c.vms.BeginRestart(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

func (c *Client) RunCommand(ctx context.Context, resourceGroup, vmName, commandID, script string) (RunCommandOutput, error) {
	poller, err := c.vms.BeginRunCommand(ctx, resourceGroup, vmName, armcompute.RunCommandInput{
		CommandID: to.Ptr(commandID),
		Script:    []*string{to.Ptr(script)},
	}, nil)
	if err != nil {
		return RunCommandOutput{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return RunCommandOutput{}, err
	}

	var out RunCommandOutput
	for _, status := range resp.Value {
		if status == nil || status.Code == nil {
			continue
		}
		switch *status.Code {
		case stdoutStatusCode:
			out.Stdout += deref(status.Message)
		case stderrStatusCode:
			out.Stderr += deref(status.Message)
		}
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
