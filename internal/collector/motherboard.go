// Motherboard collector: board vendor, model and firmware. hostnamectl
// reports these on recent systemd releases; /sys/class/dmi/id is the
// fallback, and macOS uses the hw.model sysctl.
package collector

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const dmiDir = "/sys/class/dmi/id/"

// MotherboardCollector collects board and firmware identity.
type MotherboardCollector struct {
	runner   probe.Runner
	platform platform.Platform
	logger   *zap.Logger
}

// NewMotherboardCollector creates a new motherboard collector.
func NewMotherboardCollector(r probe.Runner, p platform.Platform, logger *zap.Logger) *MotherboardCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MotherboardCollector{runner: r, platform: p, logger: logger}
}

// Name returns the collector identifier.
func (c *MotherboardCollector) Name() string { return "motherboard" }

// IsAvailable returns true.
func (c *MotherboardCollector) IsAvailable() bool { return true }

// Collect reads board identity from the first source that has it.
func (c *MotherboardCollector) Collect(ctx context.Context) (interface{}, error) {
	board := models.MotherboardInfo{}

	if c.platform.Name() == "darwin" {
		if model, err := probe.Text(ctx, c.runner, "sysctl", "-n", "hw.model"); err == nil {
			board.Vendor = "Apple"
			board.Model = model
			board.Source = "sysctl"
		} else {
			probe.LogFailure(c.logger, "sysctl", err)
		}
		fillUnknown(&board.Vendor, &board.Model, &board.FirmwareVersion, &board.FirmwareDate, &board.Source)
		return board, nil
	}

	if c.platform.UsesSystemd() {
		kv, _, err := hostnamectlFacts(ctx, c.runner)
		if err == nil {
			board.Vendor = kv["hardware_vendor"]
			board.Model = kv["hardware_model"]
			board.FirmwareVersion = kv["firmware_version"]
			board.FirmwareDate = kv["firmware_date"]
			if board.Vendor != "" || board.Model != "" {
				board.Source = "hostnamectl"
			}
		} else {
			probe.LogFailure(c.logger, "hostnamectl", err)
		}
	}

	dmiUsed := false
	for _, f := range []struct {
		dst  *string
		file string
	}{
		{&board.Vendor, "board_vendor"},
		{&board.Model, "board_name"},
		{&board.FirmwareVersion, "bios_version"},
		{&board.FirmwareDate, "bios_date"},
	} {
		if *f.dst != "" {
			continue
		}
		v, err := probe.FileText(c.runner, dmiDir+f.file)
		if err != nil {
			probe.LogFailure(c.logger, "dmi/"+f.file, err)
			continue
		}
		*f.dst = v
		dmiUsed = dmiUsed || v != ""
	}
	if board.Source == "" && dmiUsed {
		board.Source = "dmi"
	}

	fillUnknown(&board.Vendor, &board.Model, &board.FirmwareVersion, &board.FirmwareDate, &board.Source)
	return board, nil
}
