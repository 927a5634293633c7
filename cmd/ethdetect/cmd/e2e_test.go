package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns what it printed on
// stdout.
func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background so a large output cannot block on the pipe buffer
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	// Reset flags to prevent accumulation between tests
	verbose = false
	chipName = ""
	backendName = ""
	configPath = ""
	devmemPath = ""
	pollAttempts = 0
	pollInterval = 0
	simRegs = nil
	simPHYs = nil
	simMode = ""
	simDownstream = ""
	simFreqDiv = 0
	outputFormat = "auto"
	outputJSON = false
	scanJSON = false

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

func TestDetectE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantExact   string
		wantContain []string
		wantAbsent  []string
	}{
		{
			name: "v4 yaml document",
			args: []string{"detect", "--chip", "hi3516ev300", "--backend", "sim",
				"--sim-phy", "1:0x001cc816", "--sim-downstream", "0x1f"},
			wantExact: "ethernet:\n  u-mdio-phyaddr: 1\n  phy-id: 0x001cc816\n  d-mdio-phyaddr: 1f\n",
		},
		{
			name: "v1 with mode",
			args: []string{"detect", "--chip", "cv100", "--backend", "sim",
				"--sim-phy", "3:0x001cc816", "--sim-mode", "rmii"},
			wantContain: []string{"u-mdio-phyaddr: 3", "phy-id: 0x001cc816", "phy-mode: rmii"},
		},
		{
			name:       "no mdio controller",
			args:       []string{"detect", "--chip", "av200", "--backend", "sim", "--sim-mode", "rgmii"},
			wantExact:  "ethernet:\n  phy-mode: rgmii\n",
			wantAbsent: []string{"phy-id", "mdio-phyaddr"},
		},
		{
			name: "mode from raw register",
			args: []string{"detect", "--chip", "v2a", "--backend", "sim",
				"--sim-reg", "0x200300EC=0x80"},
			wantContain: []string{"phy-mode: rmii"},
		},
		{
			name: "json",
			args: []string{"detect", "--chip", "v3", "--backend", "sim", "--json",
				"--sim-phy", "1:0x001cc915"},
			wantContain: []string{`"ethernet": {`, `"u-mdio-phyaddr": "1"`, `"phy-id": "0x001cc915"`},
		},
		{
			name: "human",
			args: []string{"detect", "--chip", "v3", "--backend", "sim", "--format", "human",
				"--sim-phy", "1:0x001cc915", "--sim-freqdiv", "3"},
			wantContain: []string{"Ethernet on v3", "freq div 3", "PHY ID:      0x001cc915", "Realtek", "RTL8211E"},
		},
		{
			name: "human with an empty address",
			args: []string{"detect", "--chip", "v4", "--backend", "sim", "--format", "human",
				"--sim-reg", "0x10040108=4"},
			wantContain: []string{"PHY address: 4", "(no PHY answered)"},
			wantAbsent:  []string{"Vendor:"},
		},
		{
			name:    "missing chip",
			args:    []string{"detect", "--backend", "sim"},
			wantErr: true,
		},
		{
			name:    "unknown chip",
			args:    []string{"detect", "--chip", "hi9999", "--backend", "sim"},
			wantErr: true,
		},
		{
			name:    "bad format",
			args:    []string{"detect", "--chip", "v4", "--backend", "sim", "--format", "xml"},
			wantErr: true,
		},
		{
			name:    "phy on a chip without mdio",
			args:    []string{"detect", "--chip", "v3a", "--backend", "sim", "--sim-phy", "1:0x1"},
			wantErr: true,
		},
		{
			name:    "mode the chip cannot express",
			args:    []string{"detect", "--chip", "v1", "--backend", "sim", "--sim-mode", "rgmii"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}

			if tt.wantExact != "" && output != tt.wantExact {
				t.Errorf("Output = %q, want %q", output, tt.wantExact)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(output, absent) {
					t.Errorf("Output contains unexpected string: %q\nGot:\n%s", absent, output)
				}
			}
		})
	}
}

func TestDetectConfigFileE2E(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ethdetect.yaml")
	if err := os.WriteFile(path, []byte("chip: v4a\nbackend: sim\nsection: net\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, []string{"detect", "--config", path, "--sim-phy", "2:0x0007c0f1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "net:\n  u-mdio-phyaddr: 2\n  phy-id: 0x0007c0f1\n  d-mdio-phyaddr: 0\n"
	if output != want {
		t.Errorf("Output = %q, want %q", output, want)
	}
}

func TestScanE2E(t *testing.T) {
	output, err := runCLI(t, []string{"scan", "--chip", "v4", "--backend", "sim",
		"--sim-phy", "1:0x001cc816", "--sim-phy", "7:0x004dd072"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Found 2 PHY(s)", "0x001cc816", "RTL8201F", "0x004dd072", "AR8035"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\nGot:\n%s", want, output)
		}
	}

	output, err = runCLI(t, []string{"scan", "--chip", "v4", "--backend", "sim"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "No PHYs found.") {
		t.Errorf("Output = %q", output)
	}

	if _, err := runCLI(t, []string{"scan", "--chip", "v2a", "--backend", "sim"}); err == nil {
		t.Errorf("Expected error for a chip without MDIO")
	}
}

func TestRegE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "read whole register",
			args:        []string{"reg", "read", "--chip", "v4", "--backend", "sim", "--sim-reg", "0x10040108=5", "mdio+u_phyaddr"},
			wantContain: []string{"0x10040108 = 0x00000005"},
		},
		{
			name:        "read field",
			args:        []string{"reg", "read", "--chip", "av200", "--backend", "sim", "--sim-mode", "rmii", "phymode[7:5]"},
			wantContain: []string{"0x120100ec[7:5] = 0x4 (4)"},
		},
		{
			name:        "write field",
			args:        []string{"reg", "write", "--backend", "sim", "--sim-reg", "0x20030000=0xff", "0x20030000[3:0]", "0x2"},
			wantContain: []string{"register 0x000000ff -> 0x000000f2"},
		},
		{
			name:        "write whole register",
			args:        []string{"reg", "write", "--backend", "sim", "0x20030000", "0x1234"},
			wantContain: []string{"0x20030000 <- 0x00001234"},
		},
		{
			name:    "unknown symbol",
			args:    []string{"reg", "read", "--chip", "v4", "--backend", "sim", "phymode"},
			wantErr: true,
		},
		{
			name:    "value too wide",
			args:    []string{"reg", "write", "--backend", "sim", "0x20030000[0]", "2"},
			wantErr: true,
		},
		{
			name:    "missing value",
			args:    []string{"reg", "write", "--backend", "sim", "0x20030000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestChipsE2E(t *testing.T) {
	output, err := runCLI(t, []string{"chips"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		"0x10040000",
		"PERI_CRG51@0x20030002[3]",
		"PERI_CRG59@0x120100ec[7:5]",
		"Hi3516CV500",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\nGot:\n%s", want, output)
		}
	}
}
