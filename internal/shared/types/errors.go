package types

import (
	"errors"
	"fmt"
)

// WMError is the result code returned by window session operations.
// Success is reported as a nil error; every other code is a WMError value
// and can be matched with errors.Is.
type WMError int32

const (
	ErrDoNothing            WMError = 1
	ErrNoMem                WMError = 2
	ErrDestroyedObject      WMError = 3
	ErrInvalidWindow        WMError = 4
	ErrInvalidModeOrSize    WMError = 5
	ErrInvalidOperation     WMError = 6
	ErrInvalidPermission    WMError = 7
	ErrNotSystemApp         WMError = 8
	ErrNoRemoteAnimation    WMError = 9
	ErrInvalidDisplay       WMError = 10
	ErrInvalidParent        WMError = 11
	ErrInvalidOpInCurStatus WMError = 12
	ErrRepeatOperation      WMError = 13
	ErrInvalidSession       WMError = 14
	ErrInvalidCalling       WMError = 15
	ErrSystemAbnormally     WMError = 16
	ErrDeviceNotSupport     WMError = 801
	ErrNullptr              WMError = 1001
	ErrInvalidType          WMError = 1002
	ErrInvalidParam         WMError = 1003
	ErrSamgr                WMError = 1004
	ErrIPCFailed            WMError = 1005
)

var wmErrorNames = map[WMError]string{
	ErrDoNothing:            "do nothing",
	ErrNoMem:                "no memory",
	ErrDestroyedObject:      "destroyed object",
	ErrInvalidWindow:        "invalid window",
	ErrInvalidModeOrSize:    "invalid window mode or size",
	ErrInvalidOperation:     "invalid operation",
	ErrInvalidPermission:    "invalid permission",
	ErrNotSystemApp:         "not system app",
	ErrNoRemoteAnimation:    "no remote animation",
	ErrInvalidDisplay:       "invalid display",
	ErrInvalidParent:        "invalid parent",
	ErrInvalidOpInCurStatus: "invalid operation in current status",
	ErrRepeatOperation:      "repeat operation",
	ErrInvalidSession:       "invalid session",
	ErrInvalidCalling:       "invalid calling",
	ErrSystemAbnormally:     "system abnormally",
	ErrDeviceNotSupport:     "device not support",
	ErrNullptr:              "nullptr",
	ErrInvalidType:          "invalid type",
	ErrInvalidParam:         "invalid param",
	ErrSamgr:                "samgr",
	ErrIPCFailed:            "ipc failed",
}

// Error implements the error interface
func (e WMError) Error() string {
	if name, ok := wmErrorNames[e]; ok {
		return "wm: " + name
	}
	return fmt.Sprintf("wm: error %d", int32(e))
}

// Code returns the numeric result code of err: 0 for nil, the WMError value
// when err wraps one, and ErrSystemAbnormally for anything else.
func Code(err error) WMError {
	if err == nil {
		return 0
	}
	var wm WMError
	if errors.As(err, &wm) {
		return wm
	}
	return ErrSystemAbnormally
}

// IsSuccess treats nil and ErrDoNothing as a successful outcome.
func IsSuccess(err error) bool {
	return err == nil || errors.Is(err, ErrDoNothing)
}

// WSError is the result code carried back from the remote session host.
type WSError int32

const (
	WSOk                   WSError = 0
	WSDoNothing            WSError = 1
	WSErrNoMem             WSError = 2
	WSErrDestroyedObject   WSError = 3
	WSErrInvalidWindow     WSError = 4
	WSErrInvalidModeOrSize WSError = 5
	WSErrInvalidOperation  WSError = 6
	WSErrInvalidPermission WSError = 7
	WSErrNotSystemApp      WSError = 8
	WSErrNoRemoteAnimation WSError = 9
	WSErrInvalidDisplay    WSError = 10
	WSErrInvalidParent     WSError = 11
	WSErrOpInCurStatus     WSError = 12
	WSErrRepeatOperation   WSError = 13
	WSErrInvalidSession    WSError = 14
	WSErrInvalidCalling    WSError = 15
	WSErrSystemAbnormally  WSError = 16
	WSErrDeviceNotSupport  WSError = 801
	WSErrNullptr           WSError = 1001
	WSErrInvalidType       WSError = 1002
	WSErrInvalidParam      WSError = 1003
	WSErrSamgr             WSError = 1004
	WSErrIPCFailed         WSError = 1005
)

var wsToWM = map[WSError]WMError{
	WSDoNothing:            ErrDoNothing,
	WSErrNoMem:             ErrNoMem,
	WSErrDestroyedObject:   ErrDestroyedObject,
	WSErrInvalidWindow:     ErrInvalidWindow,
	WSErrInvalidModeOrSize: ErrInvalidModeOrSize,
	WSErrInvalidOperation:  ErrInvalidOperation,
	WSErrInvalidPermission: ErrInvalidPermission,
	WSErrNotSystemApp:      ErrNotSystemApp,
	WSErrNoRemoteAnimation: ErrNoRemoteAnimation,
	WSErrInvalidDisplay:    ErrInvalidDisplay,
	WSErrInvalidParent:     ErrInvalidParent,
	WSErrOpInCurStatus:     ErrInvalidOpInCurStatus,
	WSErrRepeatOperation:   ErrRepeatOperation,
	WSErrInvalidSession:    ErrInvalidSession,
	WSErrInvalidCalling:    ErrInvalidCalling,
	WSErrSystemAbnormally:  ErrSystemAbnormally,
	WSErrDeviceNotSupport:  ErrDeviceNotSupport,
	WSErrNullptr:           ErrNullptr,
	WSErrInvalidType:       ErrInvalidType,
	WSErrInvalidParam:      ErrInvalidParam,
	WSErrSamgr:             ErrSamgr,
	WSErrIPCFailed:         ErrIPCFailed,
}

// Error implements the error interface
func (e WSError) Error() string {
	return fmt.Sprintf("ws: error %d", int32(e))
}

// ToWMError converts a host result code into the local enum. WSOk maps to nil.
func ToWMError(code WSError) error {
	if code == WSOk {
		return nil
	}
	if wm, ok := wsToWM[code]; ok {
		return wm
	}
	return ErrSystemAbnormally
}

// ToWSError is the inverse of ToWMError, used by hosts reporting results.
func ToWSError(err error) WSError {
	if err == nil {
		return WSOk
	}
	var ws WSError
	if errors.As(err, &ws) {
		return ws
	}
	code := Code(err)
	for k, v := range wsToWM {
		if v == code {
			return k
		}
	}
	return WSErrSystemAbnormally
}

// FromRemote normalises an error returned by a host call: WSError values are
// converted to their WMError counterpart, WMError values pass through and
// anything else is a transport failure.
func FromRemote(err error) error {
	if err == nil {
		return nil
	}
	var ws WSError
	if errors.As(err, &ws) {
		return ToWMError(ws)
	}
	var wm WMError
	if errors.As(err, &wm) {
		return wm
	}
	return ErrIPCFailed
}
