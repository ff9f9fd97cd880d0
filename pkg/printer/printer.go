package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer types accepted by NewFromConfig
const (
	TypeNone    = "none"
	TypeUSB     = "usb"
	TypeNetwork = "network"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends one complete job. Each job opens and closes its own connection.
	Print(ctx context.Context, data []byte) error
	// Ready reports whether the device can currently accept a job.
	Ready(ctx context.Context) bool
	// Kind is one of the Type* constants.
	Kind() string
}

type usbPrinter struct {
	path string
}

// NewUSB creates a printer that writes to a device file such as /dev/usb/lp0.
func NewUSB(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string { return TypeUSB }

type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetwork creates a printer reached over raw TCP, e.g. "192.168.1.100:9100".
func NewNetwork(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Ready(ctx context.Context) bool {
	conn, err := p.dial(ctx, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string { return TypeNetwork }

// ErrNotConfigured is returned by the null printer
var ErrNotConfigured = fmt.Errorf("printer: no printer configured")

type nullPrinter struct{}

// NewNull creates a printer for installs without hardware. Every job fails
// with ErrNotConfigured so callers can fall back to showing the receipt.
func NewNull() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }
func (nullPrinter) Ready(context.Context) bool          { return false }
func (nullPrinter) Kind() string                        { return TypeNone }

// NewFromConfig picks the Printer for printerType.
//
//	printerType: "usb", "network", or "none"
//	usbPath: device path for USB printers (e.g. "/dev/usb/lp0")
//	address: TCP address for network printers (e.g. "192.168.1.100:9100")
func NewFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case TypeUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSB(usbPath), nil
	case TypeNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetwork(address), nil
	case TypeNone, "":
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
