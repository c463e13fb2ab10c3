package smartcube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"
)

// Errors
var (
	ErrNotConnected     = errors.New("smartcube: not connected to device")
	ErrAlreadyConnected = errors.New("smartcube: already connected to a device")
	ErrDeviceNotFound   = errors.New("smartcube: device not found")
)

var (
	serviceUUID = mustParseUUID(ServiceUUID)
	txCharUUID  = mustParseUUID(TxCharUUID)
	rxCharUUID  = mustParseUUID(RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(fmt.Sprintf("smartcube: bad uuid %q: %v", s, err))
	}
	return u
}

// Device is a discovered GoCube.
type Device struct {
	Name    string
	UUID    string
	RSSI    int16
	Address bluetooth.Address
}

// Client manages the BLE connection to a GoCube.
type Client struct {
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	rxChar  bluetooth.DeviceCharacteristic
	log     *zap.Logger

	mu         sync.RWMutex
	connected  bool
	deviceName string

	onFrame func([]byte)
}

// NewClient enables the default adapter. A nil logger is replaced by a
// no-op one.
func NewClient(log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter, log: log}, nil
}

// SetFrameCallback sets the callback for raw notification frames.
func (c *Client) SetFrameCallback(cb func([]byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = cb
}

// Scan looks for GoCube devices until timeout or ctx is done.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		devices []Device
		seen    = make(map[string]bool)
		done    = make(chan struct{})
		scanErr error
	)

	go func() {
		defer close(done)
		scanErr = c.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			addr := result.Address.String()

			mu.Lock()
			defer mu.Unlock()
			if seen[addr] {
				return
			}
			seen[addr] = true

			if strings.HasPrefix(strings.ToLower(name), "gocube") {
				devices = append(devices, Device{
					Name:    name,
					UUID:    addr,
					RSSI:    result.RSSI,
					Address: result.Address,
				})
			}
		})
	}()

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}

	c.adapter.StopScan()
	<-done

	if scanErr != nil {
		return nil, fmt.Errorf("failed to scan: %w", scanErr)
	}
	c.log.Debug("scan finished", zap.Int("devices", len(devices)))
	return devices, nil
}

// Connect connects to d and subscribes to notifications.
func (c *Client) Connect(d Device) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(d.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return fmt.Errorf("%w: GoCube service missing", ErrDeviceNotFound)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var txChar, rxChar bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			txChar = ch
		case rxCharUUID:
			rxChar = ch
		}
	}

	if err := txChar.EnableNotifications(c.handleNotification); err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rxChar
	c.connected = true
	c.deviceName = d.Name
	c.mu.Unlock()

	c.log.Info("connected", zap.String("device", d.Name), zap.String("uuid", d.UUID))
	return c.SendCommand(CmdRequestBattery)
}

// ConnectFirst scans and connects to the first GoCube found, or to the
// one whose UUID matches uuid when it is not empty.
func (c *Client) ConnectFirst(ctx context.Context, timeout time.Duration, uuid string) (Device, error) {
	devices, err := c.Scan(ctx, timeout)
	if err != nil {
		return Device{}, err
	}
	for _, d := range devices {
		if uuid == "" || strings.EqualFold(d.UUID, uuid) {
			return d, c.Connect(d)
		}
	}
	return Device{}, ErrDeviceNotFound
}

// Disconnect disconnects from the current device.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	err := c.device.Disconnect()
	c.connected = false
	c.deviceName = ""
	return err
}

// IsConnected returns true if connected to a device.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected device name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceName
}

// SendCommand sends a command to the cube.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	data := BuildCommand(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		_, err = c.rxChar.Write(data)
		return err
	}
	return nil
}

func (c *Client) handleNotification(data []byte) {
	c.mu.RLock()
	cb := c.onFrame
	c.mu.RUnlock()

	if cb != nil {
		// the buffer is reused by the stack
		cb(append([]byte(nil), data...))
	}
}
