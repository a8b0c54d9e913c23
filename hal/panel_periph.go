//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PanelConfig locates an I2C touch controller.
type PanelConfig struct {
	Bus  string
	Addr uint16
	// InterruptPin is the controller's active-low INT line. When empty or
	// unavailable the controller is polled every Poll.
	InterruptPin string
	Poll         time.Duration
	Transform    PanelTransform
}

// HyperPixelRound is the touch controller wiring of the Pimoroni HyperPixel
// 2.0 Round: software I2C bus 11, address 0x15, interrupt on GPIO27.
func HyperPixelRound() PanelConfig {
	return PanelConfig{
		Bus:          "11",
		Addr:         0x15,
		InterruptPin: "GPIO27",
		Poll:         10 * time.Millisecond,
		Transform:    PanelTransform{Width: 480, Height: 480},
	}
}

type periphPanel struct {
	touchHub

	bus  i2c.BusCloser
	dev  *i2c.Dev
	pin  gpio.PinIO
	log  Logger
	done chan struct{}
	wg   sync.WaitGroup

	errLog rate.Sometimes
}

func openPeriphPanel(cfg PanelConfig, log Logger) (*periphPanel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("i2c bus %q: %w", cfg.Bus, err)
	}

	p := &periphPanel{
		bus:    bus,
		dev:    &i2c.Dev{Bus: bus, Addr: cfg.Addr},
		log:    log,
		done:   make(chan struct{}),
		errLog: rate.Sometimes{Interval: 3 * time.Second},
	}
	if cfg.InterruptPin != "" {
		pin := gpioreg.ByName(cfg.InterruptPin)
		switch {
		case pin == nil:
			log.WriteLineString("touch: no pin " + cfg.InterruptPin + ", polling")
		default:
			if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
				log.WriteLineString(fmt.Sprintf("touch: %s edge detection: %v, polling", cfg.InterruptPin, err))
			} else {
				p.pin = pin
			}
		}
	}

	poll := cfg.Poll
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	p.wg.Add(1)
	go p.run(newPanelTracker(cfg.Transform), poll)
	return p, nil
}

func (p *periphPanel) run(tr *panelTracker, poll time.Duration) {
	defer p.wg.Done()

	scratch := make([]byte, panelMaxPoints*panelPointSize)
	for {
		select {
		case <-p.done:
			return
		default:
		}

		if p.pin != nil {
			if !p.pin.WaitForEdge(100 * time.Millisecond) {
				continue
			}
		} else {
			time.Sleep(poll)
		}

		points, err := readPanel(p.dev, scratch)
		if err != nil {
			p.errLog.Do(func() {
				p.log.WriteLineString(fmt.Sprintf("touch: read: %v", err))
			})
			continue
		}
		for _, ev := range tr.update(points) {
			p.emit(ev)
		}
	}
}

func (p *periphPanel) Close() error {
	close(p.done)
	if p.pin != nil {
		_ = p.pin.Halt()
	}
	p.wg.Wait()
	return p.bus.Close()
}
