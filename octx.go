package pp2cil

import (
	"fmt"
	"strings"
)

// Platform distinguishes the two object-context slot orders a policy
// database can target (spec §4.9).
type Platform int

const (
	PlatformSELinux Platform = iota
	PlatformXen
)

// OContextKind tags the union of object-context shapes.
type OContextKind int

const (
	OCtxInitialSid OContextKind = iota
	OCtxPort
	OCtxNetif
	OCtxNodeV4
	OCtxNodeV6
	OCtxFsUse
	OCtxXenPirq
	OCtxXenIoport
	OCtxXenIomem
	OCtxXenPciDevice
)

// FsUseBehavior enumerates the fs_use_* behavior tags.
type FsUseBehavior int

const (
	FsUseXattr FsUseBehavior = iota
	FsUseTrans
	FsUseTask
)

func (b FsUseBehavior) Keyword() (string, bool) {
	switch b {
	case FsUseXattr:
		return "xattr", true
	case FsUseTrans:
		return "trans", true
	case FsUseTask:
		return "task", true
	default:
		return "", false
	}
}

// SecurityContext is a user/role/type triple plus an MLS range, the payload
// every OContext and GenfsEntry carries. Side-car contexts (file_contexts,
// seusers) are parsed as raw name strings in sidecar.go and never use it.
type SecurityContext struct {
	UserIndex int // stored (one-based)
	RoleIndex int
	TypeIndex int
	Range     MlsRange
}

// OContext is a tagged union over the object-context kinds spec §4.9 names.
// Only the fields relevant to Kind are populated; see each lowering
// function in octx.go for which fields it reads.
type OContext struct {
	Kind OContextKind

	InitialSidID int // OCtxInitialSid: the fixed numeric id

	Protocol  string // OCtxPort: "tcp" or "udp"
	PortLow   int
	PortHigh  int

	NetifName           string // OCtxNetif
	NetifPacketContext  SecurityContext

	NodeAddr []byte // OCtxNodeV4 (4 bytes) / OCtxNodeV6 (16 bytes)
	NodeMask []byte

	FsType       string // OCtxFsUse
	FsUseBehavior FsUseBehavior

	XenPirq         int     // OCtxXenPirq
	XenIoportLow    uint32  // OCtxXenIoport
	XenIoportHigh   uint32
	XenIomemLow     uint64 // OCtxXenIomem
	XenIomemHigh    uint64
	XenPciDevice    uint32 // OCtxXenPciDevice

	Context SecurityContext
}

// GenfsEntry is one genfscon entry.
type GenfsEntry struct {
	FsType  string
	Path    string
	Context SecurityContext
}

// selinuxInitialSidNames is the fixed 28-entry SELinux initial-sid name
// table, indexed by (numeric id - 1), per spec §6.
var selinuxInitialSidNames = []string{
	"null", "kernel", "security", "unlabeled", "fs", "file", "file_labels",
	"init", "any_socket", "port", "netif", "netmsg", "node", "igmp_packet",
	"icmp_socket", "tcp_socket", "sysctl_modprobe", "sysctl", "sysctl_fs",
	"sysctl_kernel", "sysctl_net", "sysctl_net_unix", "sysctl_vm",
	"sysctl_dev", "kmod", "policy", "scmp_packet", "devnull",
}

// xenInitialSidNames is the fixed 11-entry Xen initial-sid name table.
var xenInitialSidNames = []string{
	"null", "xen", "dom0", "domio", "domxen", "unlabeled", "security",
	"ioport", "iomem", "irq", "device",
}

func initialSidName(platform Platform, id int) (string, error) {
	table := selinuxInitialSidNames
	if platform == PlatformXen {
		table = xenInitialSidNames
	}
	if id < 1 || id > len(table) {
		return "", fmt.Errorf("%w: initial sid id %d out of range for platform", ErrStructural, id)
	}
	return table[id-1], nil
}

// formatNodeAddr renders a v4 node address/mask pair in dotted-quad form, or
// a v6 pair in colon-hex form.
func formatNodeAddr(b []byte) string {
	if len(b) == 4 {
		return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
	}
	parts := make([]string, 0, 8)
	for i := 0; i+1 < len(b); i += 2 {
		parts = append(parts, fmt.Sprintf("%x", (uint16(b[i])<<8)|uint16(b[i+1])))
	}
	return strings.Join(parts, ":")
}

// formatPort renders a port range as a single integer when low == high, or a
// parenthesized pair otherwise.
func formatPort(low, high int) string {
	if low == high {
		return fmt.Sprintf("%d", low)
	}
	return fmt.Sprintf("(%d %d)", low, high)
}

// renderContext renders ctx as the full "(<user> <role> <type> (<range>))"
// form used by every object context (spec §4.9).
func (c *Context) renderContext(ctx SecurityContext) (string, error) {
	return c.ResolveSecurityContext(c.DB.MLS, ctx)
}

// LowerOContexts emits the platform-dispatched object-context slots (spec
// §4.9): initial sids with their sidorder, then the platform's fixed slot
// sequence, then genfscon entries.
func (c *Context) LowerOContexts(indent int) error {
	if err := c.lowerInitialSids(indent); err != nil {
		return err
	}

	switch c.DB.Platform {
	case PlatformSELinux:
		if err := c.lowerFilesystemsSlot(); err != nil {
			return err
		}
		if err := c.lowerPorts(indent); err != nil {
			return err
		}
		if err := c.lowerNetifs(indent); err != nil {
			return err
		}
		if err := c.lowerNodes(c.DB.NodesV4, indent); err != nil {
			return err
		}
		if err := c.lowerFsUses(indent); err != nil {
			return err
		}
		if err := c.lowerNodes(c.DB.NodesV6, indent); err != nil {
			return err
		}
	case PlatformXen:
		if err := c.lowerXenPirqs(indent); err != nil {
			return err
		}
		if err := c.lowerXenIoports(indent); err != nil {
			return err
		}
		if err := c.lowerXenIomems(indent); err != nil {
			return err
		}
		if err := c.lowerXenPciDevices(indent); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown target platform %v", ErrStructural, c.DB.Platform)
	}

	return c.lowerGenfs(indent)
}

// lowerFilesystemsSlot occupies the "filesystems" slot position in the
// SELinux sequence. The slot predates fs_use_* and has no CIL equivalent;
// any entries in it are unsupported and dropped with a warning (spec §4.9).
func (c *Context) lowerFilesystemsSlot() error {
	if len(c.DB.Filesystems) > 0 {
		c.Warnf("filesystems slot has %d entries, unsupported, dropped", len(c.DB.Filesystems))
	}
	return nil
}

func (c *Context) lowerInitialSids(indent int) error {
	var names []string
	for _, sid := range c.DB.InitialSids {
		name, err := initialSidName(c.DB.Platform, sid.InitialSidID)
		if err != nil {
			return err
		}
		if err := c.Emit.line(indent, fmt.Sprintf("(sid %s)", name)); err != nil {
			return err
		}
		ctx, err := c.renderContext(sid.Context)
		if err != nil {
			return err
		}
		if err := c.Emit.line(indent, fmt.Sprintf("(sidcontext %s %s)", name, ctx)); err != nil {
			return err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	return c.Emit.line(indent, fmt.Sprintf("(sidorder (%s))", JoinNames(reversed)))
}

func (c *Context) lowerPorts(indent int) error {
	for _, p := range c.DB.Ports {
		ctx, err := c.renderContext(p.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(portcon %s %s %s)", p.Protocol, formatPort(p.PortLow, p.PortHigh), ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerNetifs(indent int) error {
	for _, n := range c.DB.Netifs {
		ifCtx, err := c.renderContext(n.Context)
		if err != nil {
			return err
		}
		pktCtx, err := c.renderContext(n.NetifPacketContext)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(netifcon %s %s %s)", n.NetifName, ifCtx, pktCtx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerNodes(nodes []OContext, indent int) error {
	for _, n := range nodes {
		ctx, err := c.renderContext(n.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(nodecon %s %s %s)", formatNodeAddr(n.NodeAddr), formatNodeAddr(n.NodeMask), ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerFsUses(indent int) error {
	for _, f := range c.DB.FsUses {
		behavior, ok := f.FsUseBehavior.Keyword()
		if !ok {
			return fmt.Errorf("%w: unknown fs_use behavior %v", ErrStructural, f.FsUseBehavior)
		}
		ctx, err := c.renderContext(f.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(fsuse %s %s %s)", behavior, f.FsType, ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerGenfs(indent int) error {
	for _, g := range c.DB.Genfs {
		ctx, err := c.renderContext(g.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(genfscon %s %q %s)", g.FsType, g.Path, ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerXenPirqs(indent int) error {
	for _, p := range c.DB.XenPirqs {
		ctx, err := c.renderContext(p.Context)
		if err != nil {
			return err
		}
		if err := c.Emit.line(indent, fmt.Sprintf("(pirqcon %d %s)", p.XenPirq, ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerXenIoports(indent int) error {
	for _, p := range c.DB.XenIoports {
		ctx, err := c.renderContext(p.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(ioportcon %s %s)", formatPort(int(p.XenIoportLow), int(p.XenIoportHigh)), ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerXenIomems(indent int) error {
	for _, p := range c.DB.XenIomems {
		ctx, err := c.renderContext(p.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(iomemcon %s %s)", hexRange(p.XenIomemLow, p.XenIomemHigh, 'X'), ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerXenPciDevices(indent int) error {
	for _, p := range c.DB.XenPciDevices {
		ctx, err := c.renderContext(p.Context)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(pcidevicecon %s %s)", hexRange(uint64(p.XenPciDevice), uint64(p.XenPciDevice), 'x'), ctx)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

// hexRange renders a low/high pair as a single hex value when they're equal,
// or a hyphenated range otherwise. verb is 'X' or 'x': iomem addresses render
// uppercase, Xen pci addresses render lowercase, both through this one call
// site (spec §9's iomem/pcidev casing asymmetry).
func hexRange(low, high uint64, verb rune) string {
	f := "0x%x"
	if verb == 'X' {
		f = "0x%X"
	}
	if low == high {
		return fmt.Sprintf(f, low)
	}
	return fmt.Sprintf(f+"-"+f, low, high)
}
