package ui

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW              = user32.NewProc("RegisterClassExW")
	procCreateWindowExW               = user32.NewProc("CreateWindowExW")
	procDefWindowProcW                = user32.NewProc("DefWindowProcW")
	procDestroyWindow                 = user32.NewProc("DestroyWindow")
	procShowWindow                    = user32.NewProc("ShowWindow")
	procSetWindowPos                  = user32.NewProc("SetWindowPos")
	procIsWindow                      = user32.NewProc("IsWindow")
	procUpdateLayeredWindow           = user32.NewProc("UpdateLayeredWindow")
	procGetSystemMetrics              = user32.NewProc("GetSystemMetrics")
	procPeekMessageW                  = user32.NewProc("PeekMessageW")
	procTranslateMessage              = user32.NewProc("TranslateMessage")
	procDispatchMessageW              = user32.NewProc("DispatchMessageW")
	procLoadCursorW                   = user32.NewProc("LoadCursorW")
	procGetDC                         = user32.NewProc("GetDC")
	procReleaseDC                     = user32.NewProc("ReleaseDC")
	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procCreateCompatibleDC            = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection              = gdi32.NewProc("CreateDIBSection")
	procSelectObject                  = gdi32.NewProc("SelectObject")
	procDeleteObject                  = gdi32.NewProc("DeleteObject")
	procDeleteDC                      = gdi32.NewProc("DeleteDC")
	procGetModuleHandleW              = kernel32.NewProc("GetModuleHandleW")
)

const (
	wsPopup        = 0x80000000
	wsExTopmost    = 0x00000008
	wsExToolWindow = 0x00000080
	wsExLayered    = 0x00080000

	csHRedraw = 0x0002
	csVRedraw = 0x0001

	wmDestroy = 0x0002
	wmClose   = 0x0010

	swShowNA = 8
	swShow   = 5

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010

	smCxScreen = 0
	smCyScreen = 1

	pmRemove     = 0x0001
	ulwAlpha     = 0x00000002
	acSrcOver    = 0x00
	acSrcAlpha   = 0x01
	biRGB        = 0
	dibRGBColors = 0
	idcArrow     = 32512

	errClassAlreadyExists = syscall.Errno(1410)
)

var (
	hwndTopmost = ^uintptr(0) // (HWND)-1

	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2
	dpiPerMonitorAwareV2 = ^uintptr(3) // (HANDLE)-4
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type point struct {
	X, Y int32
}

type size struct {
	CX, CY int32
}

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

type msg struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

// closable is read from the window procedure, which has no receiver.
var closable atomic.Bool

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	switch uint32(message) {
	case wmClose:
		if !closable.Load() {
			return 0
		}
	case wmDestroy:
		// Never post WM_QUIT; the bootstrapper decides when the loop ends.
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}

type layeredBackend struct {
	className *uint16
	title     *uint16
	instance  uintptr
	logger    *slog.Logger

	registerOnce sync.Once
	registerErr  error
}

// NewBackend returns the Win32 layered-window backend. Windows must be
// created and pumped from the same locked OS thread.
func NewBackend(title string, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.Default()
	}
	if procSetProcessDpiAwarenessContext.Find() == nil {
		_, _, _ = procSetProcessDpiAwarenessContext.Call(dpiPerMonitorAwareV2)
	}
	instance, _, _ := procGetModuleHandleW.Call(0)
	return &layeredBackend{
		className: windows.StringToUTF16Ptr(title + "Splash"),
		title:     windows.StringToUTF16Ptr(title),
		instance:  instance,
		logger:    logger,
	}
}

func (b *layeredBackend) register() error {
	b.registerOnce.Do(func() {
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)
		wc := wndClassEx{
			Style:     csHRedraw | csVRedraw,
			WndProc:   windows.NewCallback(wndProc),
			Instance:  b.instance,
			Cursor:    cursor,
			ClassName: b.className,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))
		atom, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
		if atom == 0 && err != errClassAlreadyExists {
			b.registerErr = fmt.Errorf("RegisterClassExW: %w", err)
		}
	})
	return b.registerErr
}

func (b *layeredBackend) Create(width, height int, frame []byte) (Window, error) {
	if err := b.register(); err != nil {
		return nil, err
	}

	screenW, _, _ := procGetSystemMetrics.Call(smCxScreen)
	screenH, _, _ := procGetSystemMetrics.Call(smCyScreen)
	x := (int(int32(screenW)) - width) / 2
	y := (int(int32(screenH)) - height) / 2

	hwnd, _, err := procCreateWindowExW.Call(
		wsExLayered|wsExToolWindow|wsExTopmost,
		uintptr(unsafe.Pointer(b.className)),
		uintptr(unsafe.Pointer(b.title)),
		wsPopup,
		uintptr(x), uintptr(y), uintptr(width), uintptr(height),
		0, 0, b.instance, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("CreateWindowExW: %w", err)
	}

	win := &layeredWindow{hwnd: hwnd, width: width, height: height}
	if err = win.allocate(); err != nil {
		win.Destroy()
		return nil, err
	}
	if err = win.Present(frame); err != nil {
		b.logger.Debug("initial present failed", "err", err)
	}
	_, _, _ = procShowWindow.Call(hwnd, swShow)
	return win, nil
}

func (b *layeredBackend) Pump() {
	var m msg
	for {
		r, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if r == 0 {
			return
		}
		// WM_QUIT is dispatched like anything else and otherwise ignored.
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (b *layeredBackend) SetClosable(v bool) {
	closable.Store(v)
}

// layeredWindow owns a top-down 32-bit DIB section selected into a memory
// DC. Frames are copied into the DIB and handed to UpdateLayeredWindow in
// one call, so a half-written frame is never on screen.
type layeredWindow struct {
	hwnd      uintptr
	memDC     uintptr
	bitmap    uintptr
	oldBitmap uintptr
	bits      []byte
	width     int
	height    int
}

func (w *layeredWindow) allocate() error {
	screenDC, _, _ := procGetDC.Call(0)
	defer func() {
		_, _, _ = procReleaseDC.Call(0, screenDC)
	}()

	memDC, _, err := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return fmt.Errorf("CreateCompatibleDC: %w", err)
	}
	w.memDC = memDC

	bmi := bitmapInfo{Header: bitmapInfoHeader{
		Width:       int32(w.width),
		Height:      -int32(w.height), // negative: top-down rows
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	bmi.Header.Size = uint32(unsafe.Sizeof(bmi.Header))

	var bits unsafe.Pointer
	bitmap, _, err := procCreateDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bmi)), dibRGBColors, uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bitmap == 0 || bits == nil {
		return fmt.Errorf("CreateDIBSection: %w", err)
	}
	w.bitmap = bitmap
	w.bits = unsafe.Slice((*byte)(bits), w.width*w.height*4)
	w.oldBitmap, _, _ = procSelectObject.Call(memDC, bitmap)
	return nil
}

func (w *layeredWindow) Valid() bool {
	if w.hwnd == 0 {
		return false
	}
	r, _, _ := procIsWindow.Call(w.hwnd)
	return r != 0
}

func (w *layeredWindow) Present(frame []byte) error {
	if !w.Valid() {
		return errWindowGone
	}
	if len(frame) != len(w.bits) {
		return fmt.Errorf("frame is %d bytes, want %d", len(frame), len(w.bits))
	}
	copy(w.bits, frame)

	screenDC, _, _ := procGetDC.Call(0)
	defer func() {
		_, _, _ = procReleaseDC.Call(0, screenDC)
	}()

	sz := size{CX: int32(w.width), CY: int32(w.height)}
	src := point{}
	blend := blendFunction{
		BlendOp:             acSrcOver,
		SourceConstantAlpha: 255,
		AlphaFormat:         acSrcAlpha,
	}
	r, _, err := procUpdateLayeredWindow.Call(
		w.hwnd, screenDC, 0,
		uintptr(unsafe.Pointer(&sz)),
		w.memDC,
		uintptr(unsafe.Pointer(&src)),
		0,
		uintptr(unsafe.Pointer(&blend)),
		ulwAlpha,
	)
	if r == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %w", err)
	}
	return nil
}

func (w *layeredWindow) Show() {
	if !w.Valid() {
		return
	}
	_, _, _ = procShowWindow.Call(w.hwnd, swShowNA)
	_, _, _ = procSetWindowPos.Call(w.hwnd, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
}

// Destroy releases the window and its GDI objects. GDI objects belong to us
// even when the window itself was destroyed externally.
func (w *layeredWindow) Destroy() {
	if w.Valid() {
		_, _, _ = procDestroyWindow.Call(w.hwnd)
	}
	w.hwnd = 0
	if w.memDC != 0 {
		if w.oldBitmap != 0 {
			_, _, _ = procSelectObject.Call(w.memDC, w.oldBitmap)
		}
		_, _, _ = procDeleteDC.Call(w.memDC)
		w.memDC = 0
	}
	if w.bitmap != 0 {
		_, _, _ = procDeleteObject.Call(w.bitmap)
		w.bitmap = 0
	}
	w.bits = nil
}
