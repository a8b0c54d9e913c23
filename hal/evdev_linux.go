//go:build linux && !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const inputEventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// ioctl request encoding (Linux _IOC macro).
func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<30 | size<<16 | typ<<8 | nr)
}

func eviocgabs(code int) uintptr {
	return ioc(2, 'E', uint32(0x40+code), uint32(unsafe.Sizeof(absInfo{})))
}

func eviocgrab() uintptr {
	return ioc(1, 'E', 0x90, uint32(unsafe.Sizeof(int32(0))))
}

// evdevDevice reads one /dev/input/eventN node on its own goroutine.
type evdevDevice struct {
	touchHub

	f  *os.File
	wg sync.WaitGroup
}

// openEvdev opens path and starts decoding it. Touch coordinates are scaled
// to width×height using the axis ranges the device reports. Key presses go
// to kbd when it is not nil.
func openEvdev(path string, width, height int, grab bool, kbd *chanKeyboard, log Logger) (*evdevDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, err
	}

	var xr, yr absRange
	var ctlErr error
	err = rc.Control(func(fd uintptr) {
		xr = evdevRange(fd, absX, absMTPositionX)
		yr = evdevRange(fd, absY, absMTPositionY)
		if grab {
			var one int32 = 1
			if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, eviocgrab(), uintptr(unsafe.Pointer(&one))); errno != 0 {
				ctlErr = &os.SyscallError{Syscall: "EVIOCGRAB", Err: errno}
			}
		}
	})
	if err == nil {
		err = ctlErr
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("evdev %s: %w", path, err)
	}

	d := &evdevDevice{f: f}
	dec := &evdevDecoder{xr: xr, yr: yr, width: width, height: height, onTouch: d.emit}
	if kbd != nil {
		dec.onKey = kbd.emit
	}
	d.wg.Add(1)
	go d.run(dec, kbd, log)
	return d, nil
}

func evdevRange(fd uintptr, codes ...int) absRange {
	for _, code := range codes {
		var info absInfo
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, eviocgabs(code), uintptr(unsafe.Pointer(&info)))
		if errno == 0 && info.Maximum > info.Minimum {
			return absRange{Min: info.Minimum, Max: info.Maximum}
		}
	}
	return absRange{}
}

func (d *evdevDevice) run(dec *evdevDecoder, kbd *chanKeyboard, log Logger) {
	defer d.wg.Done()

	buf := make([]byte, 64*inputEventSize)
	var pending int
	for {
		n, err := d.f.Read(buf[pending:])
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, unix.ENODEV) {
				log.WriteLineString("evdev: device gone: " + d.f.Name())
				if kbd != nil {
					kbd.emit(KeyQuit, true)
				}
				return
			}
			log.WriteLineString(fmt.Sprintf("evdev: read %s: %v", d.f.Name(), err))
			return
		}
		events, rest := decodeInputEvents(buf[:pending+n], inputEventSize)
		for _, ev := range events {
			dec.feed(ev)
		}
		copy(buf, buf[pending+n-rest:pending+n])
		pending = rest
	}
}

func (d *evdevDevice) Close() error {
	err := d.f.Close()
	d.wg.Wait()
	return err
}
