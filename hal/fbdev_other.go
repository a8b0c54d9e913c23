//go:build !linux && !tinygo

package hal

type fbdevFramebuffer struct {
	*memFramebuffer
}

func openFBDev(path string) (*fbdevFramebuffer, error) {
	return nil, ErrNotImplemented
}

func (f *fbdevFramebuffer) Close() error { return nil }

type evdevDevice struct {
	touchHub
}

func openEvdev(path string, width, height int, grab bool, kbd *chanKeyboard, log Logger) (*evdevDevice, error) {
	return nil, ErrNotImplemented
}

func (d *evdevDevice) Close() error { return nil }
