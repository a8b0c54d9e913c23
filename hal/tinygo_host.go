//go:build tinygo && !baremetal

package hal

// New returns a TinyGo-on-host HAL: a RAM framebuffer without input.
//
// This is used by `tinygo run` targets like linux/wasm where there is no
// panel to drive.
func New() HAL {
	return &tinyGoHostHAL{fb: newMemFramebuffer(480, 480)}
}

type tinyGoHostHAL struct {
	fb *memFramebuffer
}

func (h *tinyGoHostHAL) Logger() Logger   { return tinyGoHostLogger{} }
func (h *tinyGoHostHAL) Display() Display { return display{fb: h.fb} }
func (h *tinyGoHostHAL) Input() Input     { return input{} }
func (h *tinyGoHostHAL) Close() error     { return nil }

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) { println(s) }
func (tinyGoHostLogger) WriteLineBytes(b []byte)  { println(string(b)) }
