//go:build linux && !tinygo

package hal

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602

	fbTypePackedPixels = 0
	fbVisualTrueColor  = 2
)

// fixScreenInfo mirrors struct fb_fix_screeninfo. The unsigned long fields
// are uintptr so the layout follows the kernel on 32 and 64 bit.
type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes                uint32
	XResVirtual, YResVirtual  uint32
	XOffset, YOffset          uint32
	BitsPerPixel, Grayscale   uint32
	Red, Green, Blue, Transp  bitField
	NonStd, Activate          uint32
	Height, Width             uint32
	AccelFlags, PixClock      uint32
	LeftMargin, RightMargin   uint32
	UpperMargin, LowerMargin  uint32
	HSyncLen, VSyncLen, Sync  uint32
	VMode, Rotate, Colorspace uint32
	Reserved                  [4]uint32
}

// fbdevFramebuffer draws into an RGB565 buffer in RAM and converts it into
// the mmapped device memory on Present.
type fbdevFramebuffer struct {
	*memFramebuffer

	f          *os.File
	mem        []byte
	lineLength int
	xOffset    int
	yOffset    int
	layout     pixelLayout
}

func openFBDev(path string) (*fbdevFramebuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	fb, err := mapFBDev(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fbdev %s: %w", path, err)
	}
	return fb, nil
}

func mapFBDev(f *os.File) (*fbdevFramebuffer, error) {
	fd := f.Fd()
	var fix fixScreenInfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, fbioGetFScreenInfo, uintptr(unsafe.Pointer(&fix))); errno != 0 {
		return nil, &os.SyscallError{Syscall: "FBIOGET_FSCREENINFO", Err: errno}
	}
	if fix.Type != fbTypePackedPixels {
		return nil, errors.New("not a packed pixel framebuffer")
	}
	if fix.Visual != fbVisualTrueColor {
		return nil, errors.New("not a truecolor framebuffer")
	}
	var v varScreenInfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, fbioGetVScreenInfo, uintptr(unsafe.Pointer(&v))); errno != 0 {
		return nil, &os.SyscallError{Syscall: "FBIOGET_VSCREENINFO", Err: errno}
	}
	switch v.BitsPerPixel {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported depth %d bpp", v.BitsPerPixel)
	}

	mem, err := unix.Mmap(int(fd), 0, int(fix.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &fbdevFramebuffer{
		memFramebuffer: newMemFramebuffer(int(v.XRes), int(v.YRes)),
		f:              f,
		mem:            mem,
		lineLength:     int(fix.LineLength),
		xOffset:        int(v.XOffset),
		yOffset:        int(v.YOffset),
		layout: pixelLayout{
			bytesPerPixel: int(v.BitsPerPixel) / 8,
			red:           v.Red,
			green:         v.Green,
			blue:          v.Blue,
			transp:        v.Transp,
		},
	}, nil
}

func (f *fbdevFramebuffer) Present() error {
	if f.mem == nil {
		return errors.New("fbdev: closed")
	}
	f.mu.Lock()
	err := blitRGB565(f.mem, f.lineLength, f.xOffset, f.yOffset, f.layout, f.buf, f.stride, f.width, f.height)
	f.frames++
	f.mu.Unlock()
	return err
}

func (f *fbdevFramebuffer) Close() error {
	var err error
	if f.mem != nil {
		f.mu.Lock()
		err = unix.Munmap(f.mem)
		f.mem = nil
		f.mu.Unlock()
	}
	return errors.Join(err, f.f.Close())
}
