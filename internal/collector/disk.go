// Disk collector: block devices grouped by kind plus real filesystems.
// Probe chain for devices: lsblk --json, then the lsblk text tree. Usage
// comes from df -h. When neither lsblk nor df can run, gopsutil partitions
// and per-mount usage are used instead.
package collector

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const lsblkColumns = "NAME,MAJ:MIN,RM,SIZE,RO,TYPE,MOUNTPOINTS"

// systemDiskPrefixes name fixed local disks; everything else that is not
// removable is reported as virtual (loop, zram, dm, md ...).
var systemDiskPrefixes = []string{"sd", "nvme", "hd"}

// snapMountPrefixes are excluded from the filesystem list.
var snapMountPrefixes = []string{"/snap", "/var/lib/snapd"}

// pseudoFSTypes contains filesystem types excluded from the gopsutil
// fallback. These are virtual/system filesystems and network/remote
// filesystems that don't represent local storage devices.
var pseudoFSTypes = map[string]bool{
	// Virtual / system filesystems
	"devfs":         true,
	"autofs":        true,
	"nullfs":        true,
	"tmpfs":         true,
	"sysfs":         true,
	"proc":          true,
	"devtmpfs":      true,
	"cgroup":        true,
	"cgroup2":       true,
	"overlay":       true,
	"squashfs":      true,
	"fuse.snapfuse": true,
	"nsfs":          true,
	"debugfs":       true,
	"tracefs":       true,
	"securityfs":    true,
	"configfs":      true,
	"mqueue":        true,
	"hugetlbfs":     true,
	"efivarfs":      true,
	"bpf":           true,
	"ramfs":         true,

	// Network / remote filesystems
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smbfs":      true,
	"fuse.sshfs": true,
	"9p":         true,
}

// DiskCollector collects block devices and filesystem usage.
type DiskCollector struct {
	runner     probe.Runner
	logger     *zap.Logger
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskCollector creates a new disk collector.
func NewDiskCollector(r probe.Runner, logger *zap.Logger) *DiskCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskCollector{
		runner:     r,
		logger:     logger,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

// Name returns the collector identifier.
func (c *DiskCollector) Name() string { return "disk" }

// IsAvailable returns true; disk metrics are available on all platforms.
func (c *DiskCollector) IsAvailable() bool { return true }

// Collect gathers devices and filesystems.
func (c *DiskCollector) Collect(ctx context.Context) (interface{}, error) {
	devices, source, devErr := c.blockDevices(ctx)
	rows, dfErr := c.dfRows(ctx)

	if devErr != nil && dfErr != nil {
		c.logger.Info("lsblk and df unavailable, using gopsutil partitions",
			zap.NamedError("lsblk", devErr),
			zap.NamedError("df", dfErr))
		return c.fromGopsutil(ctx)
	}

	info := models.DiskInfo{
		System:      []models.BlockDevice{},
		Removable:   []models.BlockDevice{},
		Virtual:     []models.BlockDevice{},
		Filesystems: []models.Filesystem{},
		Source:      source,
	}
	if dfErr == nil {
		info.Source = strings.TrimPrefix(info.Source+",df", ",")
	}

	for _, d := range devices {
		if isSnapLoop(d) {
			continue
		}
		for i := range d.Partitions {
			attachUsage(&d.Partitions[i], rows)
		}
		switch diskBucket(d) {
		case "removable":
			info.Removable = append(info.Removable, d)
		case "system":
			info.System = append(info.System, d)
		default:
			info.Virtual = append(info.Virtual, d)
		}
	}

	info.Filesystems = filesystemsFromDF(rows)
	info.Totals = sumFilesystems(info.Filesystems)
	return info, nil
}

// blockDevices tries lsblk JSON, then the text tree.
func (c *DiskCollector) blockDevices(ctx context.Context) ([]models.BlockDevice, string, error) {
	res, err := c.runner.Run(ctx, "lsblk", "--json", "-o", lsblkColumns)
	if err == nil {
		devs, perr := devicesFromLsblkJSON(res.Stdout)
		if perr == nil {
			return devs, "lsblk-json", nil
		}
		c.logger.Warn("lsblk JSON output not understood", zap.Error(perr))
	} else {
		probe.LogFailure(c.logger, "lsblk --json", err)
		if errors.HasCode(err, errors.ErrCodeToolUnavailable) {
			return nil, "", err
		}
	}

	res, err = c.runner.Run(ctx, "lsblk")
	if err != nil {
		probe.LogFailure(c.logger, "lsblk", err)
		return nil, "", err
	}
	tree, err := parse.LsblkTree(res.Stdout)
	if err != nil {
		c.logger.Warn("lsblk text output not understood", zap.Error(err))
		return nil, "", err
	}
	devs := make([]models.BlockDevice, 0, len(tree))
	for _, n := range tree {
		devs = append(devs, deviceFromNode(n))
	}
	return devs, "lsblk", nil
}

func (c *DiskCollector) dfRows(ctx context.Context) ([]parse.DFRow, error) {
	res, err := c.runner.Run(ctx, "df", "-h")
	if err != nil {
		// df exits 1 when one mount is unreadable but still prints the rest.
		if !errors.HasCode(err, errors.ErrCodeToolFailed) || strings.TrimSpace(res.Stdout) == "" {
			probe.LogFailure(c.logger, "df", err)
			return nil, err
		}
	}
	return parse.DFTable(res.Stdout)
}

// fromGopsutil mirrors the device/filesystem view from mount information.
func (c *DiskCollector) fromGopsutil(ctx context.Context) (interface{}, error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return nil, err
	}

	info := models.DiskInfo{
		System:      []models.BlockDevice{},
		Removable:   []models.BlockDevice{},
		Virtual:     []models.BlockDevice{},
		Filesystems: []models.Filesystem{},
		Source:      "gopsutil",
	}
	var order []string
	byDisk := make(map[string]*models.BlockDevice)
	var totals struct{ size, used, free uint64 }

	for _, p := range parts {
		if pseudoFSTypes[p.Fstype] || !strings.HasPrefix(p.Device, "/dev/") || underSnap(p.Mountpoint) {
			continue
		}
		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		pct := strconv.Itoa(int(u.UsedPercent+0.5)) + "%"
		info.Filesystems = append(info.Filesystems, models.Filesystem{
			Device:     p.Device,
			Size:       parse.FormatSizeU(u.Total),
			Used:       parse.FormatSizeU(u.Used),
			Available:  parse.FormatSizeU(u.Free),
			UsePercent: pct,
			Mountpoint: p.Mountpoint,
		})
		totals.size += u.Total
		totals.used += u.Used
		totals.free += u.Free

		partName := strings.TrimPrefix(p.Device, "/dev/")
		diskName := baseDiskName(partName)
		d, ok := byDisk[diskName]
		if !ok {
			d = &models.BlockDevice{Name: diskName, Size: models.Unknown, Type: "disk", Partitions: []models.Partition{}}
			byDisk[diskName] = d
			order = append(order, diskName)
		}
		d.Partitions = append(d.Partitions, models.Partition{
			Name:        partName,
			Size:        parse.FormatSizeU(u.Total),
			Type:        p.Fstype,
			Mountpoints: []string{p.Mountpoint},
			Used:        parse.FormatSizeU(u.Used),
			Available:   parse.FormatSizeU(u.Free),
			UsePercent:  pct,
		})
	}

	for _, name := range order {
		d := *byDisk[name]
		if diskBucket(d) == "system" {
			info.System = append(info.System, d)
		} else {
			info.Virtual = append(info.Virtual, d)
		}
	}

	info.Totals = models.DiskTotals{
		Size:      parse.FormatSizeU(totals.size),
		Used:      parse.FormatSizeU(totals.used),
		Available: parse.FormatSizeU(totals.free),
	}
	return info, nil
}

// lsblkJSONDevice accepts both the boolean columns of current util-linux
// and the "0"/"1" strings of older releases, and both MOUNTPOINTS and
// MOUNTPOINT.
type lsblkJSONDevice struct {
	Name        string            `json:"name"`
	Size        flexString        `json:"size"`
	RM          flexBool          `json:"rm"`
	RO          flexBool          `json:"ro"`
	Type        string            `json:"type"`
	Mountpoints []*string         `json:"mountpoints"`
	Mountpoint  *string           `json:"mountpoint"`
	Children    []lsblkJSONDevice `json:"children"`
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch s {
	case "true", "1":
		*b = true
	case "false", "0", "null", "":
		*b = false
	default:
		return errors.New(errors.ErrCodeParseFailed, "unexpected boolean "+s)
	}
	return nil
}

// flexString accepts a string or a number (lsblk -b prints sizes as numbers).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func devicesFromLsblkJSON(text string) ([]models.BlockDevice, error) {
	var doc struct {
		BlockDevices []lsblkJSONDevice `json:"blockdevices"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding lsblk JSON", err)
	}
	devs := make([]models.BlockDevice, 0, len(doc.BlockDevices))
	for _, d := range doc.BlockDevices {
		bd := models.BlockDevice{
			Name:       d.Name,
			Size:       string(d.Size),
			Type:       d.Type,
			Removable:  bool(d.RM),
			ReadOnly:   bool(d.RO),
			Partitions: make([]models.Partition, 0, len(d.Children)),
		}
		bd.Mountpoints = jsonMountpoints(d)
		for _, child := range d.Children {
			bd.Partitions = append(bd.Partitions, partitionFromJSON(child))
		}
		devs = append(devs, bd)
	}
	return devs, nil
}

func partitionFromJSON(d lsblkJSONDevice) models.Partition {
	p := models.Partition{
		Name:        d.Name,
		Size:        string(d.Size),
		Type:        d.Type,
		ReadOnly:    bool(d.RO),
		Mountpoints: jsonMountpoints(d),
	}
	for _, child := range d.Children {
		p.Children = append(p.Children, partitionFromJSON(child))
	}
	return p
}

func jsonMountpoints(d lsblkJSONDevice) []string {
	out := []string{}
	for _, mp := range d.Mountpoints {
		if mp != nil && *mp != "" {
			out = append(out, *mp)
		}
	}
	if len(out) == 0 && d.Mountpoint != nil && *d.Mountpoint != "" {
		out = append(out, *d.Mountpoint)
	}
	return out
}

func nodeMountpoints(n *parse.BlockNode) []string {
	if mp := parse.FirstOf(n.Fields, "mountpoints", "mountpoint"); mp != "" {
		return []string{mp}
	}
	return []string{}
}

func deviceFromNode(n *parse.BlockNode) models.BlockDevice {
	bd := models.BlockDevice{
		Name:       n.Name,
		Size:       n.Fields["size"],
		Type:       n.Fields["type"],
		Removable:  n.Fields["rm"] == "1",
		ReadOnly:   n.Fields["ro"] == "1",
		Partitions: make([]models.Partition, 0, len(n.Children)),
	}
	bd.Mountpoints = nodeMountpoints(n)
	for _, child := range n.Children {
		bd.Partitions = append(bd.Partitions, partitionFromNode(child))
	}
	return bd
}

func partitionFromNode(n *parse.BlockNode) models.Partition {
	p := models.Partition{
		Name:        n.Name,
		Size:        n.Fields["size"],
		Type:        n.Fields["type"],
		ReadOnly:    n.Fields["ro"] == "1",
		Mountpoints: nodeMountpoints(n),
	}
	for _, child := range n.Children {
		p.Children = append(p.Children, partitionFromNode(child))
	}
	return p
}

// attachUsage copies df figures onto a partition (and its stacked
// children) whose device path ends with the partition name.
func attachUsage(p *models.Partition, rows []parse.DFRow) {
	for _, row := range rows {
		if strings.HasSuffix(row["Filesystem"], "/"+p.Name) {
			p.Used = row["Used"]
			p.Available = row["Avail"]
			p.UsePercent = dfUsePercent(row)
			break
		}
	}
	for i := range p.Children {
		attachUsage(&p.Children[i], rows)
	}
}

func diskBucket(d models.BlockDevice) string {
	if d.Removable {
		return "removable"
	}
	for _, prefix := range systemDiskPrefixes {
		if strings.HasPrefix(d.Name, prefix) {
			return "system"
		}
	}
	return "virtual"
}

// isSnapLoop reports whether d is a loop device backing a snap package.
func isSnapLoop(d models.BlockDevice) bool {
	if d.Type != "loop" {
		return false
	}
	for _, mp := range d.Mountpoints {
		if underSnap(mp) {
			return true
		}
	}
	for _, p := range d.Partitions {
		for _, mp := range p.Mountpoints {
			if underSnap(mp) {
				return true
			}
		}
	}
	return false
}

func underSnap(mount string) bool {
	for _, prefix := range snapMountPrefixes {
		if mount == prefix || strings.HasPrefix(mount, prefix+"/") {
			return true
		}
	}
	return false
}

func filesystemsFromDF(rows []parse.DFRow) []models.Filesystem {
	out := make([]models.Filesystem, 0, len(rows))
	for _, row := range rows {
		dev := row["Filesystem"]
		mount := row["Mounted on"]
		if !strings.HasPrefix(dev, "/dev/") || underSnap(mount) {
			continue
		}
		out = append(out, models.Filesystem{
			Device:     dev,
			Size:       row["Size"],
			Used:       row["Used"],
			Available:  row["Avail"],
			UsePercent: dfUsePercent(row),
			Mountpoint: mount,
		})
	}
	return out
}

// dfUsePercent reads the usage column, which BSD df labels "Capacity".
func dfUsePercent(row parse.DFRow) string {
	return parse.FirstOf(row, "Use%", "Capacity")
}

// sumFilesystems totals df's human-readable figures. Accumulators start at
// zero; unparsable figures are skipped.
func sumFilesystems(fss []models.Filesystem) models.DiskTotals {
	size, used, avail := int64(0), int64(0), int64(0)
	for _, fs := range fss {
		if n, err := parse.ParseSize(fs.Size); err == nil {
			size += n
		}
		if n, err := parse.ParseSize(fs.Used); err == nil {
			used += n
		}
		if n, err := parse.ParseSize(fs.Available); err == nil {
			avail += n
		}
	}
	return models.DiskTotals{
		Size:      parse.FormatSize(size),
		Used:      parse.FormatSize(used),
		Available: parse.FormatSize(avail),
	}
}

// baseDiskName strips the partition suffix: sda1 -> sda, nvme0n1p2 ->
// nvme0n1, mmcblk0p1 -> mmcblk0.
func baseDiskName(part string) string {
	if strings.HasPrefix(part, "nvme") || strings.HasPrefix(part, "mmcblk") {
		if i := strings.LastIndex(part, "p"); i > 0 && i < len(part)-1 && isDigits(part[i+1:]) {
			return part[:i]
		}
		return part
	}
	if strings.HasPrefix(part, "mapper/") {
		return part
	}
	return strings.TrimRight(part, "0123456789")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
