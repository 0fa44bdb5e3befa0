package vmops

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeployParams() DeployParams {
	return DeployParams{
		ResourceGroup: "rg-test",
		VMName:        "web01",
		AdminPassword: "S3cret!Passw0rd",
		Location:      "eastus",
		VMSize:        "Standard_B2s",
		AdminUsername: "azureuser",
		OSType:        OSLinux,
	}
}

func TestDeployVMIssuesStepsInOrder(t *testing.T) {
	client := &fakeAPI{publicIP: "20.1.2.3"}
	runner := newTestRunner(client)

	env := runner.DeployVM(context.Background(), testDeployParams())

	require.Equal(t, OutcomeSuccess, env.Outcome)
	assert.Equal(t, []string{
		"resource_group",
		"virtual_network",
		"subnet",
		"public_ip",
		"network_interface",
		"virtual_machine",
		"public_ip_read",
	}, client.calls)
}

func TestDeployVMThreadsIdentifiers(t *testing.T) {
	client := &fakeAPI{publicIP: "20.1.2.3"}
	runner := newTestRunner(client)

	env := runner.DeployVM(context.Background(), testDeployParams())
	require.Equal(t, OutcomeSuccess, env.Outcome)

	// The NIC request embeds the subnet's and public IP's returned IDs
	// verbatim, and the VM request embeds the NIC's.
	assert.Equal(t, "id-subnet-web01-subnet", client.nicParams.SubnetID)
	assert.Equal(t, "id-ip-web01-ip", client.nicParams.PublicIPID)
	assert.Equal(t, "id-nic-web01-nic", client.vmParams.NICID)
}

func TestDeployVMDerivedNamesAndImage(t *testing.T) {
	client := &fakeAPI{publicIP: "20.1.2.3"}
	runner := newTestRunner(client)

	env := runner.DeployVM(context.Background(), testDeployParams())
	require.Equal(t, OutcomeSuccess, env.Outcome)

	assert.Equal(t, "web01-nic", client.nicParams.Name)
	assert.Equal(t, "Canonical", client.vmParams.Image.Publisher)
	assert.Equal(t, "0001-com-ubuntu-server-jammy", client.vmParams.Image.Offer)
	assert.Equal(t, "22_04-lts-gen2", client.vmParams.Image.SKU)

	assert.Equal(t, "20.1.2.3", env.Data["public_ip"])
	assert.Contains(t, env.Message, "ssh azureuser@20.1.2.3")
}

func TestDeployVMWindowsImageAndConnectionHint(t *testing.T) {
	client := &fakeAPI{publicIP: "20.9.8.7"}
	runner := newTestRunner(client)

	params := testDeployParams()
	params.OSType = OSWindows
	env := runner.DeployVM(context.Background(), params)

	require.Equal(t, OutcomeSuccess, env.Outcome)
	assert.Equal(t, "MicrosoftWindowsServer", client.vmParams.Image.Publisher)
	assert.Equal(t, "2022-datacenter-azure-edition", client.vmParams.Image.SKU)
	assert.Contains(t, env.Message, "RDP to 20.9.8.7")
}

func TestDeployVMFailFastOnSubnet(t *testing.T) {
	client := &fakeAPI{
		failStep: "subnet",
		failErr:  errors.New("subnet quota exceeded"),
	}
	runner := newTestRunner(client)

	env := runner.DeployVM(context.Background(), testDeployParams())

	require.Equal(t, OutcomeFailure, env.Outcome)
	assert.Equal(t, StepSubnet, env.Data["step"])
	assert.Contains(t, env.Message, "subnet quota exceeded")

	// No later step is ever issued.
	assert.Zero(t, countCalls(client.calls, "public_ip"))
	assert.Zero(t, countCalls(client.calls, "network_interface"))
	assert.Zero(t, countCalls(client.calls, "virtual_machine"))

	steps, ok := env.Data["steps"].([]StepResult)
	require.True(t, ok)
	require.Len(t, steps, 3)
	assert.True(t, steps[0].Succeeded)
	assert.True(t, steps[1].Succeeded)
	assert.False(t, steps[2].Succeeded)
}

func TestDeployVMIdempotentRepeat(t *testing.T) {
	// Create-or-update semantics: a second run against resources that
	// already exist still succeeds.
	client := &fakeAPI{publicIP: "20.1.2.3"}
	runner := newTestRunner(client)

	first := runner.DeployVM(context.Background(), testDeployParams())
	second := runner.DeployVM(context.Background(), testDeployParams())

	assert.Equal(t, OutcomeSuccess, first.Outcome)
	assert.Equal(t, OutcomeSuccess, second.Outcome)
	assert.Equal(t, 2, countCalls(client.calls, "virtual_machine"))
}
