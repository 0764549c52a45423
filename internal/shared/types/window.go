package types

// WindowType identifies the window class. Values are grouped into ranges so
// that the class of a window can be derived from its type alone.
type WindowType uint32

const (
	AppMainWindowBase WindowType = 1
	WindowTypeAppMain WindowType = AppMainWindowBase
	AppMainWindowEnd  WindowType = 2

	AppSubWindowBase        WindowType = 1000
	WindowTypeMedia         WindowType = AppSubWindowBase
	WindowTypeAppSub        WindowType = 1001
	WindowTypeAppComponent  WindowType = 1002
	AppSubWindowEnd         WindowType = 1003
	SystemWindowBase        WindowType = 2000
	WindowTypeWallpaper     WindowType = SystemWindowBase
	WindowTypeDesktop       WindowType = 2001
	BelowAppSystemWindowEnd WindowType = 2002

	AboveAppSystemWindowBase    WindowType = 2100
	WindowTypeAppLaunching      WindowType = AboveAppSystemWindowBase
	WindowTypeDockSlice         WindowType = 2101
	WindowTypeIncomingCall      WindowType = 2102
	WindowTypeSearchingBar      WindowType = 2103
	WindowTypeSystemAlarm       WindowType = 2104
	WindowTypeInputMethodFloat  WindowType = 2105
	WindowTypeFloat             WindowType = 2106
	WindowTypeToast             WindowType = 2107
	WindowTypeStatusBar         WindowType = 2108
	WindowTypePanel             WindowType = 2109
	WindowTypeKeyguard          WindowType = 2110
	WindowTypeVolumeOverlay     WindowType = 2111
	WindowTypeNavigationBar     WindowType = 2112
	WindowTypeDraggingEffect    WindowType = 2113
	WindowTypePointer           WindowType = 2114
	WindowTypeLauncherRecent    WindowType = 2115
	WindowTypeLauncherDock      WindowType = 2116
	WindowTypeBootAnimation     WindowType = 2117
	WindowTypeFreezeDisplay     WindowType = 2118
	WindowTypeVoiceInteraction  WindowType = 2119
	WindowTypeFloatCamera       WindowType = 2120
	WindowTypePlaceholder       WindowType = 2121
	WindowTypeDialog            WindowType = 2122
	WindowTypeScreenshot        WindowType = 2123
	WindowTypeInputMethodStatus WindowType = 2124
	WindowTypeGlobalSearch      WindowType = 2125
	WindowTypeSystemToast       WindowType = 2126
	WindowTypeSystemFloat       WindowType = 2127
	WindowTypePip               WindowType = 2128
	AboveAppSystemWindowEnd     WindowType = 2129

	SystemSubWindowBase WindowType = 2500
	WindowTypeSystemSub WindowType = SystemSubWindowBase
	SystemSubWindowEnd  WindowType = 2501
)

var windowTypeNames = map[WindowType]string{
	WindowTypeAppMain:           "app_main",
	WindowTypeMedia:             "media",
	WindowTypeAppSub:            "app_sub",
	WindowTypeAppComponent:      "app_component",
	WindowTypeWallpaper:         "wallpaper",
	WindowTypeDesktop:           "desktop",
	WindowTypeAppLaunching:      "app_launching",
	WindowTypeDockSlice:         "dock_slice",
	WindowTypeIncomingCall:      "incoming_call",
	WindowTypeSearchingBar:      "searching_bar",
	WindowTypeSystemAlarm:       "system_alarm",
	WindowTypeInputMethodFloat:  "input_method_float",
	WindowTypeFloat:             "float",
	WindowTypeToast:             "toast",
	WindowTypeStatusBar:         "status_bar",
	WindowTypePanel:             "panel",
	WindowTypeKeyguard:          "keyguard",
	WindowTypeVolumeOverlay:     "volume_overlay",
	WindowTypeNavigationBar:     "navigation_bar",
	WindowTypeDraggingEffect:    "dragging_effect",
	WindowTypePointer:           "pointer",
	WindowTypeLauncherRecent:    "launcher_recent",
	WindowTypeLauncherDock:      "launcher_dock",
	WindowTypeBootAnimation:     "boot_animation",
	WindowTypeFreezeDisplay:     "freeze_display",
	WindowTypeVoiceInteraction:  "voice_interaction",
	WindowTypeFloatCamera:       "float_camera",
	WindowTypePlaceholder:       "placeholder",
	WindowTypeDialog:            "dialog",
	WindowTypeScreenshot:        "screenshot",
	WindowTypeInputMethodStatus: "input_method_status_bar",
	WindowTypeGlobalSearch:      "global_search",
	WindowTypeSystemToast:       "system_toast",
	WindowTypeSystemFloat:       "system_float",
	WindowTypePip:               "pip",
	WindowTypeSystemSub:         "system_sub",
}

// String returns the string representation of the window type
func (t WindowType) String() string {
	if name, ok := windowTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsMainWindow reports whether the type is an application main window.
func IsMainWindow(t WindowType) bool {
	return t >= AppMainWindowBase && t < AppMainWindowEnd
}

// IsSubWindow reports whether the type is an application sub window.
func IsSubWindow(t WindowType) bool {
	return t >= AppSubWindowBase && t < AppSubWindowEnd
}

// IsSystemSubWindow reports whether the type is a sub window owned by a system window.
func IsSystemSubWindow(t WindowType) bool {
	return t >= SystemSubWindowBase && t < SystemSubWindowEnd
}

// IsSystemWindow reports whether the type is a system window below or above apps.
func IsSystemWindow(t WindowType) bool {
	return (t >= SystemWindowBase && t < BelowAppSystemWindowEnd) ||
		(t >= AboveAppSystemWindowBase && t < AboveAppSystemWindowEnd)
}

// IsAppWindow reports whether the window belongs to an application hierarchy.
func IsAppWindow(t WindowType) bool {
	return IsMainWindow(t) || IsSubWindow(t)
}

// IsSystemBarWindow reports whether the type is one of the system bars.
func IsSystemBarWindow(t WindowType) bool {
	return t == WindowTypeStatusBar || t == WindowTypeNavigationBar
}

// IsValidSystemWindowType reports whether a system window of this type may be
// created by an application through the global session manager.
func IsValidSystemWindowType(t WindowType) bool {
	switch t {
	case WindowTypeSystemAlarm,
		WindowTypeInputMethodFloat,
		WindowTypeFloatCamera,
		WindowTypeDialog,
		WindowTypeFloat,
		WindowTypeScreenshot,
		WindowTypeVoiceInteraction,
		WindowTypePointer,
		WindowTypeToast,
		WindowTypeSystemToast,
		WindowTypeSystemFloat,
		WindowTypeGlobalSearch,
		WindowTypePip:
		return true
	default:
		return false
	}
}

// WindowMode is the layout mode of a window.
type WindowMode uint32

const (
	ModeUndefined WindowMode = iota
	ModeFullscreen
	ModeSplitPrimary
	ModeSplitSecondary
	ModeFloating
	ModePip
)

// String returns the string representation of the mode
func (m WindowMode) String() string {
	switch m {
	case ModeFullscreen:
		return "fullscreen"
	case ModeSplitPrimary:
		return "split_primary"
	case ModeSplitSecondary:
		return "split_secondary"
	case ModeFloating:
		return "floating"
	case ModePip:
		return "pip"
	default:
		return "undefined"
	}
}

// ModeSupport is a bitset of supported window modes.
type ModeSupport uint32

const (
	ModeSupportFullscreen     ModeSupport = 1 << 0
	ModeSupportFloating       ModeSupport = 1 << 1
	ModeSupportSplitPrimary   ModeSupport = 1 << 2
	ModeSupportSplitSecondary ModeSupport = 1 << 3
	ModeSupportPip            ModeSupport = 1 << 4

	ModeSupportAll = ModeSupportFullscreen | ModeSupportFloating |
		ModeSupportSplitPrimary | ModeSupportSplitSecondary | ModeSupportPip
)

// Supports reports whether the bitset allows the mode.
func (s ModeSupport) Supports(m WindowMode) bool {
	switch m {
	case ModeFullscreen:
		return s&ModeSupportFullscreen != 0
	case ModeFloating:
		return s&ModeSupportFloating != 0
	case ModeSplitPrimary:
		return s&ModeSupportSplitPrimary != 0
	case ModeSplitSecondary:
		return s&ModeSupportSplitSecondary != 0
	case ModePip:
		return s&ModeSupportPip != 0
	default:
		return false
	}
}

// WindowState is the client-side lifecycle state of a session.
type WindowState uint32

const (
	StateInitial WindowState = iota
	StateCreated
	StateShown
	StateHidden
	StateFrozen
	StateDestroyed
)

// String returns the string representation of the state
func (s WindowState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateCreated:
		return "created"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	case StateFrozen:
		return "frozen"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// MaximizeMode selects which maximize strategy is active.
type MaximizeMode uint32

const (
	MaximizeModeAvoidSystemBar MaximizeMode = iota
	MaximizeModeFullFill
	MaximizeModeRecover
)

// String returns the string representation of the maximize mode
func (m MaximizeMode) String() string {
	switch m {
	case MaximizeModeAvoidSystemBar:
		return "avoid_system_bar"
	case MaximizeModeFullFill:
		return "full_fill"
	case MaximizeModeRecover:
		return "recover"
	default:
		return "unknown"
	}
}

// UIType is the device class the process is running on.
type UIType string

const (
	UITypePhone UIType = "phone"
	UITypePad   UIType = "pad"
	UITypePC    UIType = "pc"
)

// SessionEvent is sent to the host for main-window transitions.
type SessionEvent uint32

const (
	EventMaximize SessionEvent = iota
	EventMinimize
	EventClose
	EventRecover
	EventStartMove
	EventMaximizeFloating
)

// String returns the string representation of the event
func (e SessionEvent) String() string {
	switch e {
	case EventMaximize:
		return "maximize"
	case EventMinimize:
		return "minimize"
	case EventClose:
		return "close"
	case EventRecover:
		return "recover"
	case EventStartMove:
		return "start_move"
	case EventMaximizeFloating:
		return "maximize_floating"
	default:
		return "unknown"
	}
}

// SizeChangeReason tags a geometry change so the receiver can apply
// reason-specific layout.
type SizeChangeReason uint32

const (
	ReasonUndefined SizeChangeReason = iota
	ReasonMaximize
	ReasonRecover
	ReasonRotation
	ReasonDragStart
	ReasonDrag
	ReasonDragEnd
	ReasonResize
	ReasonMove
	ReasonHide
	ReasonDecorChange
)

// String returns the string representation of the reason
func (r SizeChangeReason) String() string {
	switch r {
	case ReasonMaximize:
		return "maximize"
	case ReasonRecover:
		return "recover"
	case ReasonRotation:
		return "rotation"
	case ReasonDragStart:
		return "drag_start"
	case ReasonDrag:
		return "drag"
	case ReasonDragEnd:
		return "drag_end"
	case ReasonResize:
		return "resize"
	case ReasonMove:
		return "move"
	case ReasonHide:
		return "hide"
	case ReasonDecorChange:
		return "decor_change"
	default:
		return "undefined"
	}
}

// WindowFlag is a bit in the property flag set.
type WindowFlag uint32

const (
	FlagNeedAvoid      WindowFlag = 1 << 0
	FlagParentLimit    WindowFlag = 1 << 1
	FlagShowWhenLocked WindowFlag = 1 << 2
	FlagForbidSplit    WindowFlag = 1 << 3
	FlagWatermark      WindowFlag = 1 << 4
	FlagHandwriting    WindowFlag = 1 << 5
	FlagEnd            WindowFlag = 1 << 6
)

// AvoidAreaType selects which avoid area is requested from the host.
type AvoidAreaType uint32

const (
	AvoidAreaSystem AvoidAreaType = iota
	AvoidAreaCutout
	AvoidAreaSystemGesture
	AvoidAreaKeyboard
	AvoidAreaNavigationIndicator
)

// BlurStyle is a predefined backdrop blur material.
type BlurStyle uint32

const (
	BlurStyleOff BlurStyle = iota
	BlurStyleThin
	BlurStyleRegular
	BlurStyleThick
	BlurStyleEnd
)
