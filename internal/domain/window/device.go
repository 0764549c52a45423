package window

import "github.com/GriffinCanCode/windowscene/internal/shared/types"

type operation int

const (
	opSetDecorHeight operation = iota
)

// deviceTable lists the device classes an operation is legal on.
// Operations not listed are legal everywhere.
var deviceTable = map[operation][]types.UIType{
	opSetDecorHeight: {types.UITypePC},
}

func (s *SceneSession) checkDevice(op operation) error {
	allowed, ok := deviceTable[op]
	if !ok {
		return nil
	}
	uiType := s.GetSystemConfig().UIType
	for _, t := range allowed {
		if t == uiType {
			return nil
		}
	}
	return types.ErrDeviceNotSupport
}
