package vmops

import (
	"context"

	"github.com/rs/zerolog"

	"azure-vm-mcp/pkg/azure"
)

// fakeAPI records every control-plane call and returns synthetic identifiers
// so tests can check call order and identifier threading.
type fakeAPI struct {
	calls []string

	failStep string
	failErr  error

	nicParams azure.NetworkInterfaceParams
	vmParams  azure.VirtualMachineParams

	publicIP string

	getVMErr   error
	restartErr error

	runOutput     azure.RunCommandOutput
	runErr        error
	runScripts    []string
	runCommandIDs []string
}

func (f *fakeAPI) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failStep == name {
		return f.failErr
	}
	return nil
}

func (f *fakeAPI) EnsureResourceGroup(_ context.Context, name, _ string) (string, error) {
	if err := f.step("resource_group"); err != nil {
		return "", err
	}
	return "id-group-" + name, nil
}

func (f *fakeAPI) CreateVirtualNetwork(_ context.Context, _, name, _, _ string) (string, error) {
	if err := f.step("virtual_network"); err != nil {
		return "", err
	}
	return "id-vnet-" + name, nil
}

func (f *fakeAPI) CreateSubnet(_ context.Context, _, _, name, _ string) (string, error) {
	if err := f.step("subnet"); err != nil {
		return "", err
	}
	return "id-subnet-" + name, nil
}

func (f *fakeAPI) CreatePublicIP(_ context.Context, _, name, _ string) (string, error) {
	if err := f.step("public_ip"); err != nil {
		return "", err
	}
	return "id-ip-" + name, nil
}

func (f *fakeAPI) CreateNetworkInterface(_ context.Context, _ string, params azure.NetworkInterfaceParams) (string, error) {
	if err := f.step("network_interface"); err != nil {
		return "", err
	}
	f.nicParams = params
	return "id-nic-" + params.Name, nil
}

func (f *fakeAPI) CreateVirtualMachine(_ context.Context, _ string, params azure.VirtualMachineParams) (string, error) {
	if err := f.step("virtual_machine"); err != nil {
		return "", err
	}
	f.vmParams = params
	return "id-vm-" + params.Name, nil
}

func (f *fakeAPI) PublicIPAddress(_ context.Context, _, _ string) (string, error) {
	if err := f.step("public_ip_read"); err != nil {
		return "", err
	}
	return f.publicIP, nil
}

func (f *fakeAPI) GetVM(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "get_vm")
	return f.getVMErr
}

func (f *fakeAPI) RestartVM(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "restart")
	return f.restartErr
}

func (f *fakeAPI) RunCommand(_ context.Context, _, _, commandID, script string) (azure.RunCommandOutput, error) {
	f.calls = append(f.calls, "run_command")
	f.runCommandIDs = append(f.runCommandIDs, commandID)
	f.runScripts = append(f.runScripts, script)
	if f.runErr != nil {
		return azure.RunCommandOutput{}, f.runErr
	}
	return f.runOutput, nil
}

func newTestRunner(client azure.API) *Runner {
	return NewRunner(client, zerolog.Nop())
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
