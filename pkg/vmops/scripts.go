package vmops

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Azure Run Command extension command IDs.
const (
	commandIDPowerShell = "RunPowerShellScript"
	commandIDShell      = "RunShellScript"
)

// serviceScriptData feeds the service restart templates.
type serviceScriptData struct {
	ServiceName string
	VMName      string
}

// procScriptData feeds the process sampling templates.
type procScriptData struct {
	VMName        string
	SampleSeconds int
	TopN          int
}

var windowsServiceScript = template.Must(template.New("windows_service").Parse(`
$serviceName = "{{.ServiceName}}"

Write-Host "=== SERVICE RESTART ==="
Write-Host "Service: $serviceName"
Write-Host "VM: {{.VMName}}"
Write-Host ""

# Check if service exists
$service = Get-Service -Name $serviceName -ErrorAction SilentlyContinue

if ($null -eq $service) {
    Write-Host "❌ Service '$serviceName' not found on this VM"
    Write-Host ""
    Write-Host "Available services:"
    Get-Service | Where-Object { $_.Status -eq 'Running' } | Select-Object -First 10 Name, DisplayName | Format-Table -AutoSize
    exit 1
}

Write-Host "Current status: $($service.Status)"
Write-Host ""

# Restart the service
try {
    Write-Host "🔄 Restarting service..."
    Restart-Service -Name $serviceName -Force -ErrorAction Stop
    Start-Sleep -Seconds 2

    # Verify service is running
    $service = Get-Service -Name $serviceName

    if ($service.Status -eq 'Running') {
        Write-Host "✅ Service restarted successfully!"
        Write-Host "New status: $($service.Status)"
    } else {
        Write-Host "⚠️  Service restarted but status is: $($service.Status)"
    }
} catch {
    Write-Host "❌ Failed to restart service: $($_.Exception.Message)"
    exit 1
}
`))

var linuxServiceScript = template.Must(template.New("linux_service").Parse(`
#!/bin/bash

SERVICE_NAME="{{.ServiceName}}"

echo "=== SERVICE RESTART ==="
echo "Service: $SERVICE_NAME"
echo "VM: {{.VMName}}"
echo ""

# Check if service exists
if ! systemctl list-units --type=service --all | grep -q "$SERVICE_NAME.service"; then
    echo "❌ Service '$SERVICE_NAME' not found on this VM"
    echo ""
    echo "Available services:"
    systemctl list-units --type=service --state=running | head -n 15
    exit 1
fi

# Get current status
echo "Current status:"
systemctl status $SERVICE_NAME --no-pager | head -n 5
echo ""

# Restart the service
echo "🔄 Restarting service..."
if systemctl restart $SERVICE_NAME; then
    sleep 2

    # Verify service is running
    if systemctl is-active --quiet $SERVICE_NAME; then
        echo "✅ Service restarted successfully!"
        echo "New status:"
        systemctl status $SERVICE_NAME --no-pager | head -n 5
    else
        echo "⚠️  Service restarted but may not be running properly"
        systemctl status $SERVICE_NAME --no-pager | head -n 10
    fi
else
    echo "❌ Failed to restart service"
    systemctl status $SERVICE_NAME --no-pager
    exit 1
fi
`))

var windowsProcScript = template.Must(template.New("windows_proc").Parse(`
$SampleSeconds = {{.SampleSeconds}}
$TopN = {{.TopN}}

# First snapshot
$proc1 = Get-Process | Select-Object Id, Name, CPU, WorkingSet64

Start-Sleep -Seconds $SampleSeconds

# Second snapshot
$proc2 = Get-Process | Select-Object Id, Name, CPU, WorkingSet64

# System resource details
$cpuCount = (Get-WmiObject Win32_ComputerSystem).NumberOfLogicalProcessors
$totalMem = (Get-WmiObject Win32_OperatingSystem).TotalVisibleMemorySize * 1KB

# Per-process delta CPU and memory percentages
$result = foreach ($p2 in $proc2) {
    $p1 = $proc1 | Where-Object { $_.Id -eq $p2.Id }
    if ($p1 -and $p2.CPU -ne $null) {
        $cpuDelta = ($p2.CPU - $p1.CPU)
        $cpuPct = [math]::Round(($cpuDelta / $SampleSeconds / $cpuCount) * 100, 2)
        $memPct = [math]::Round(($p2.WorkingSet64 / $totalMem) * 100, 2)
        [PSCustomObject]@{
            process_name = $p2.Name
            pid = $p2.Id
            cpu_percent = $cpuPct
            memory_mb = [math]::Round($p2.WorkingSet64 / 1MB, 2)
            memory_percent = $memPct
        }
    }
}

$output = @{
    success = $true
    vm_name = "{{.VMName}}"
    os_type = "windows"
    sample_seconds = $SampleSeconds
    cpu_cores = $cpuCount
    total_memory_gb = [math]::Round($totalMem / 1GB, 2)
    processes = @($result | Sort-Object -Property cpu_percent -Descending | Select-Object -First $TopN)
}

$output | ConvertTo-Json -Depth 3
`))

// The Linux sampler reads /proc/<pid>/stat twice so the CPU percentage is a
// real delta over the sample window rather than the lifetime average ps
// reports, and it serializes the JSON document in one pass at the end with
// quote/backslash escaping of process names.
var linuxProcScript = template.Must(template.New("linux_proc").Parse(`
#!/bin/bash

SAMPLE_SECONDS={{.SampleSeconds}}
TOP_N={{.TopN}}

CPU_CORES=$(nproc)
CLK_TCK=$(getconf CLK_TCK)
PAGE_KB=$(($(getconf PAGESIZE) / 1024))
TOTAL_MEM_KB=$(awk '/MemTotal/ {print $2}' /proc/meminfo)
TOTAL_MEM_GB=$(awk -v kb="$TOTAL_MEM_KB" 'BEGIN {printf "%.2f", kb / 1048576}')

# pid, command name, cpu ticks (utime+stime), resident pages -- one line per
# process. The command name is taken from between the parentheses in stat, so
# names containing spaces survive.
snapshot() {
    local stat pid rss
    for stat in /proc/[0-9]*/stat; do
        [ -r "$stat" ] || continue
        pid=${stat#/proc/}
        pid=${pid%/stat}
        rss=$(awk '{print $2}' "/proc/$pid/statm" 2>/dev/null)
        [ -n "$rss" ] || rss=0
        awk -v rss="$rss" '{
            match($0, /\(.*\)/)
            comm = substr($0, RSTART + 1, RLENGTH - 2)
            rest = substr($0, RSTART + RLENGTH + 1)
            n = split(rest, f, " ")
            if (n >= 13) printf "%s\t%s\t%d\t%d\n", $1, comm, f[12] + f[13], rss
        }' "$stat" 2>/dev/null
    done
}

SNAP1_FILE=$(mktemp)
SNAP2_FILE=$(mktemp)
ROWS_FILE=$(mktemp)
trap 'rm -f "$SNAP1_FILE" "$SNAP2_FILE" "$ROWS_FILE"' EXIT

snapshot > "$SNAP1_FILE"
sleep "$SAMPLE_SECONDS"
snapshot > "$SNAP2_FILE"

# Join the snapshots on pid, compute the window delta, sort by CPU descending
# and keep the top N.
awk -F'\t' -v sample="$SAMPLE_SECONDS" -v cores="$CPU_CORES" -v clk="$CLK_TCK" \
    -v pagekb="$PAGE_KB" -v totalkb="$TOTAL_MEM_KB" '
    FNR == NR { prev[$1] = $3; next }
    ($1 in prev) {
        delta = $3 - prev[$1]
        if (delta < 0) delta = 0
        cpu = (delta / clk) / sample / cores * 100
        memkb = $4 * pagekb
        printf "%.2f\t%s\t%s\t%.2f\t%.2f\n", cpu, $1, $2, memkb / 1024, memkb / totalkb * 100
    }
' "$SNAP1_FILE" "$SNAP2_FILE" | sort -rn | head -n "$TOP_N" > "$ROWS_FILE"

# Serialize once, after collection, escaping process names.
awk -F'\t' -v vm="{{.VMName}}" -v sample="$SAMPLE_SECONDS" -v cores="$CPU_CORES" \
    -v totalgb="$TOTAL_MEM_GB" '
    function esc(s) {
        gsub(/\\/, "\\\\", s)
        gsub(/"/, "\\\"", s)
        return s
    }
    BEGIN {
        printf "{\"success\": true, \"vm_name\": \"%s\", \"os_type\": \"linux\", ", esc(vm)
        printf "\"sample_seconds\": %d, \"cpu_cores\": %d, \"total_memory_gb\": %s, \"processes\": [", sample, cores, totalgb
        sep = ""
    }
    {
        printf "%s{\"process_name\": \"%s\", \"pid\": %d, \"cpu_percent\": %s, \"memory_mb\": %s, \"memory_percent\": %s}", sep, esc($3), $2, $1, $4, $5
        sep = ", "
    }
    END { print "]}" }
' "$ROWS_FILE"
`))

// renderServiceScript returns the guest script and Run Command ID for a
// service restart on the given OS family.
func renderServiceScript(osType, vmName, serviceName string) (script, commandID string, err error) {
	data := serviceScriptData{ServiceName: serviceName, VMName: vmName}
	var sb strings.Builder
	switch osType {
	case OSWindows:
		err = windowsServiceScript.Execute(&sb, data)
		commandID = commandIDPowerShell
	case OSLinux:
		err = linuxServiceScript.Execute(&sb, data)
		commandID = commandIDShell
	default:
		return "", "", errors.Errorf("unsupported os_type %q", osType)
	}
	if err != nil {
		return "", "", errors.Wrap(err, "rendering service restart script")
	}
	return sb.String(), commandID, nil
}

// renderProcScript returns the guest sampling script and Run Command ID for
// the given OS family.
func renderProcScript(osType, vmName string, sampleSeconds, topN int) (script, commandID string, err error) {
	data := procScriptData{VMName: vmName, SampleSeconds: sampleSeconds, TopN: topN}
	var sb strings.Builder
	switch osType {
	case OSWindows:
		err = windowsProcScript.Execute(&sb, data)
		commandID = commandIDPowerShell
	case OSLinux:
		err = linuxProcScript.Execute(&sb, data)
		commandID = commandIDShell
	default:
		return "", "", errors.Errorf("unsupported os_type %q", osType)
	}
	if err != nil {
		return "", "", errors.Wrap(err, "rendering process sampling script")
	}
	return sb.String(), commandID, nil
}
