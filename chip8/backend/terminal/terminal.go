package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	gameAreaHeight = height / 2
	keypadY        = gameAreaHeight + 2
	registerHeight = 9
	disasmHeight   = 9
	minTermWidth   = 100
	minTermHeight  = 24
)

// Terminals only report key presses, so a key counts as held until no
// repeat arrived for this long. Slightly longer than a typical repeat interval.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	now       func() time.Time
	running   bool
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.BackendConfig
	signals   chan os.Signal

	eventQueue []backend.InputEvent         // UI events since the last Update
	keyStates  map[action.Action]time.Time // Last time each keypad key was seen
	activeKeys map[action.Action]bool      // Keys held in the previous frame

	debugProvider backend.DebugDataProvider
	disasmBuffer  *debug.DisasmBuffer

	currentFrame *video.FrameBuffer // Last rendered frame, for snapshots
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		newScreen: tcell.NewScreen,
		now:       time.Now,
		logLevel:  slog.LevelInfo,
	}
}

// NewWithScreen creates a terminal backend drawing on the given screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.newScreen = func() (tcell.Screen, error) { return screen, nil }
	return b
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)
	t.disasmBuffer = debug.NewDisasmBuffer(disasmHeight)

	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.screen = screen
	t.running = true

	// logs would corrupt the screen, capture them in the log pane instead
	t.logBuffer = render.NewLogBuffer(100)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	slog.Info("Terminal backend initialized")
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	select {
	case <-t.signals:
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, exists := keyMapping[ev.Key()]
	if !exists && ev.Key() == tcell.KeyRune {
		act, exists = runeMapping[ev.Rune()]
	}
	if !exists {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	if act.IsKeypad() {
		t.keyStates[act] = now
		return
	}

	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF10:    "F10",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings. Upper
// case letters map like lower case ones so caps lock doesn't lose input.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		if keyName == "Space" {
			mapping[' '] = act
			continue
		}
		runes := []rune(keyName)
		if len(runes) != 1 {
			continue
		}
		mapping[runes[0]] = act
		if upper := []rune(strings.ToUpper(keyName)); upper[0] != runes[0] {
			mapping[upper[0]] = act
		}
	}

	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 2
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	var data *debug.CompleteDebugData
	if t.config.ShowDebug && t.debugProvider != nil {
		data = t.debugProvider.ExtractDebugData()
	}

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 1
	if data != nil && data.CPU != nil {
		t.drawKeypad(data.HeldKeys)
		t.drawRegisters(data, rightPanelX, 1, rightPanelWidth)
		t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth)
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= maxWidth {
			break
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := t.config.Title
	if title == "" {
		title = "CHIP-8"
	}
	t.drawText(1, 0, dividerX-1, " "+title+" ", titleStyle)

	startX := dividerX + 2
	if t.config.ShowDebug {
		registerEndY := registerHeight + 1
		disasmEndY := registerEndY + disasmHeight + 1
		for _, y := range []int{registerEndY, disasmEndY} {
			for x := dividerX + 1; x < termWidth; x++ {
				t.screen.SetContent(x, y, '─', nil, borderStyle)
			}
			t.screen.SetContent(dividerX, y, '├', nil, borderStyle)
		}

		t.drawText(startX, 0, termWidth-startX, " CPU Registers ", titleStyle)
		t.drawText(startX, registerEndY, termWidth-startX, " Disassembly ", titleStyle)
		t.drawText(startX, disasmEndY, termWidth-startX,
			fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel), titleStyle)
	} else {
		t.drawText(startX, 0, termWidth-startX, fmt.Sprintf(" Logs [%s] ", t.logLevel), titleStyle)
	}

	helpText := " F10=debug view SPACE=pause O=frame N=step F12=snapshot ESC=quit | Logs: +/- filter "
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

// drawScreen packs two pixel rows into each terminal row with half blocks.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	style := tcell.StyleDefault.
		Foreground(tcell.NewHexColor(display.ForegroundColor)).
		Background(tcell.NewHexColor(display.BackgroundColor))

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frame.GetPixel(uint(x), uint(y))
			bottom := frame.GetPixel(uint(x), uint(y+1))
			t.screen.SetContent(x+1, y/2+1, render.GetHalfBlockChar(top, bottom), nil, style)
		}
	}
}

// keypadLayout is the hex keypad as printed on the original hardware.
var keypadLayout = [4][4]uint8{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

func (t *Backend) drawKeypad(held [16]bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	heldStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)

	for row, keys := range keypadLayout {
		for col, key := range keys {
			useStyle := style
			if held[key] {
				useStyle = heldStyle
			}
			t.drawText(1+col*4, keypadY+row, 3, fmt.Sprintf("[%X]", key), useStyle)
		}
	}
}

func (t *Backend) drawRegisters(data *debug.CompleteDebugData, startX, startY, width int) {
	cpu := data.CPU
	if width <= 0 {
		return
	}

	mode := "modern"
	if cpu.Legacy {
		mode = "legacy"
	}
	status := strings.ToUpper(data.DebuggerState.String())
	if cpu.WaitingForKey {
		status += " (waiting for key)"
	}

	lines := []string{fmt.Sprintf("Status: %s", status)}
	for row := 0; row < 4; row++ {
		var sb strings.Builder
		for col := 0; col < 4; col++ {
			r := row*4 + col
			fmt.Fprintf(&sb, "V%X:%02X ", r, cpu.V[r])
		}
		lines = append(lines, sb.String())
	}
	lines = append(lines,
		fmt.Sprintf("I: 0x%03X  PC: 0x%03X  SP: %d", cpu.I, cpu.PC, cpu.SP),
		fmt.Sprintf("DT: %3d  ST: %3d  Mode: %s", cpu.DelayTimer, cpu.SoundTimer, mode),
		fmt.Sprintf("Stack: %s", formatStack(cpu.Stack)),
		fmt.Sprintf("Instr: %d  Frames: %d", cpu.Instructions, data.Frames),
	)

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(startX, startY+i, width, line, style)
	}
}

func formatStack(stack []uint16) string {
	if len(stack) == 0 {
		return "empty"
	}
	parts := make([]string, len(stack))
	for i, addr := range stack {
		parts[i] = fmt.Sprintf("%03X", addr)
	}
	return strings.Join(parts, " ")
}

func (t *Backend) drawDisassembly(data *debug.CompleteDebugData, startX, startY, width int) {
	if data.Memory == nil || width <= 0 {
		return
	}

	lines := debug.CreateDisassemblyWithBuffer(data.Memory, data.CPU.PC, disasmHeight, t.disasmBuffer)

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range lines {
		if i >= disasmHeight {
			break
		}

		prefix := " "
		useStyle := style
		if line.IsCurrent {
			prefix = "→"
			useStyle = currentStyle
		}
		text := fmt.Sprintf("%s0x%03X: %s", prefix, line.Address, line.Instruction)
		t.drawText(startX, startY+i, width, text, useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	logs := t.logBuffer.Recent(t.logLevel, availableHeight)

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if len(logText) > width && width > 3 {
			logText = logText[:width-3] + "..."
		}
		t.drawText(startX, startY+i, width, logText, style)
	}
}
