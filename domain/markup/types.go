package markup

import "errors"

// ToolID identifies one of the fixed set of markup tools.
type ToolID int

const (
	ToolThreshold ToolID = iota + 1
	ToolAddRegion
	ToolRemoveRegion
	ToolNoRoot
	ToolFloodAdd
	ToolFloodRemove
	ToolPreviousPatch
	ToolNextPatch
	ToolUndo
	ToolRedo
)

func (id ToolID) String() string {
	switch id {
	case ToolThreshold:
		return "threshold"
	case ToolAddRegion:
		return "add_region"
	case ToolRemoveRegion:
		return "remove_region"
	case ToolNoRoot:
		return "no_root"
	case ToolFloodAdd:
		return "flood_add"
	case ToolFloodRemove:
		return "flood_remove"
	case ToolPreviousPatch:
		return "previous_patch"
	case ToolNextPatch:
		return "next_patch"
	case ToolUndo:
		return "undo"
	case ToolRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Tool groups used by the shell to cluster toolbar buttons.
const (
	GroupMarkup     = "Markups"
	GroupNavigation = "Navigation"
	GroupHistory    = "Undo"
)

// Undo stack tags.
const (
	TagThresholdAdjust  = "threshold_adjust"
	TagAddRegion        = "add_region"
	TagAddRegionDrag    = "add_region_adjust"
	TagRemoveRegion     = "remove_region"
	TagRemoveRegionDrag = "remove_region_adjust"
	TagFloodAdd         = "flood_add"
	TagFloodRemove      = "flood_remove"
	TagNoRoot           = "no_root"
)

// ErrValueRange reports a parameter outside its valid domain, such as a
// threshold outside [0,1] or a negative brush radius. Tools recover from it
// by rejecting the mutation silently.
var ErrValueRange = errors.New("markup: value out of range")

// NoPatch is the index returned by navigation when no further patch exists.
const NoPatch = -1
